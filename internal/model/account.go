package model

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
