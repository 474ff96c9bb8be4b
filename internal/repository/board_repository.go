package repository

import (
	"context"
	"errors"

	"trellix/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	if board.ID == uuid.Nil {
		board.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Columns", "Items").Create(board).Error
}

// ListByAccount returns the boards of an account, newest first, without
// their columns and items.
func (r *BoardRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

// GetOwned loads a board with its columns and items, both in display
// order. A board of another account is reported as ErrBoardNotFound.
func (r *BoardRepository) GetOwned(ctx context.Context, id, accountID uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC").Order("created_at ASC")
		}).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Owns reports whether the board exists and belongs to the account.
func (r *BoardRepository) Owns(ctx context.Context, id, accountID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ? AND account_id = ?", id, accountID).
		Count(&count).Error
	return count > 0, err
}

func (r *BoardRepository) UpdateName(ctx context.Context, id, accountID uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("id = ? AND account_id = ?", id, accountID).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// Delete removes the board; columns and items go with it through the
// foreign keys.
func (r *BoardRepository) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&model.Board{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}
