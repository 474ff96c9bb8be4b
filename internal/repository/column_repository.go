package repository

import (
	"context"

	"trellix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create appends the column to its board (rank = current count + 1). A
// column whose id already exists on the same board is left untouched, so
// replaying the same create is harmless; an id taken on another board
// yields ErrColumnNotFound.
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	if column.ID == uuid.Nil {
		column.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Column{}).Where("board_id = ?", column.BoardID).Count(&count).Error; err != nil {
			return err
		}
		column.Order = int(count) + 1
		result := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
			Create(column)
		if result.Error != nil || result.RowsAffected > 0 {
			return result.Error
		}

		var mine int64
		if err := tx.Model(&model.Column{}).Where("id = ? AND board_id = ?", column.ID, column.BoardID).Count(&mine).Error; err != nil {
			return err
		}
		if mine == 0 {
			return ErrColumnNotFound
		}
		return nil
	})
}

// Exists reports whether the column belongs to the board.
func (r *ColumnRepository) Exists(ctx context.Context, id, boardID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("id = ? AND board_id = ?", id, boardID).
		Count(&count).Error
	return count > 0, err
}

func (r *ColumnRepository) UpdateName(ctx context.Context, id, boardID uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("id = ? AND board_id = ?", id, boardID).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}
