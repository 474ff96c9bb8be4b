package model

import (
	"github.com/google/uuid"
)

type Column struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name    string    `gorm:"not null"`
	Order   int       `gorm:"column:sort_order;not null"`
}
