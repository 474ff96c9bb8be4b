package model

import (
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Color     string    `gorm:"not null"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time

	Columns []Column `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	Items   []Item   `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
}
