package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is a card. Order is a fractional sort key among the items of the
// same column; it is not unique.
type Item struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ColumnID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Content   *string
	Order     float64 `gorm:"column:sort_order;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
