package repository

import (
	"context"

	"trellix/internal/model"
	"trellix/internal/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Upsert inserts the item or, when the id exists on the same board,
// overwrites its column, order, title and (if set) content. An id that
// belongs to another board is reported as ErrItemNotFound.
func (r *ItemRepository) Upsert(ctx context.Context, item *model.Item) error {
	columns := []string{"column_id", "sort_order", "title", "updated_at"}
	if item.Content != nil {
		columns = append(columns, "content")
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: `"items"."board_id" = excluded.board_id`},
		}},
	}).Create(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Move changes the column and order of an existing item.
func (r *ItemRepository) Move(ctx context.Context, id, boardID, columnID uuid.UUID, order float64) error {
	result := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND board_id = ?", id, boardID).
		Updates(map[string]any{"column_id": columnID, "sort_order": order})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id, boardID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", id, boardID).
		Delete(&model.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// Orders returns the sort keys of a column, ascending.
func (r *ItemRepository) Orders(ctx context.Context, columnID uuid.UUID) ([]float64, error) {
	var orders []float64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("column_id = ?", columnID).
		Order("sort_order ASC").
		Pluck("sort_order", &orders).Error
	return orders, err
}

// Respace rewrites the orders of a column to 1..n, keeping the current
// sequence. Used once repeated midpoint drops have exhausted a gap.
func (r *ItemRepository) Respace(ctx context.Context, columnID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&model.Item{}).
			Where("column_id = ?", columnID).
			Order("sort_order ASC").Order("created_at ASC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		for i, order := range ordering.Respace(len(ids)) {
			if err := tx.Model(&model.Item{}).Where("id = ?", ids[i]).
				Update("sort_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
