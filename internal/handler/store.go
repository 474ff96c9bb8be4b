package handler

import (
	"context"

	"trellix/internal/model"

	"github.com/google/uuid"
)

// The handlers depend on these narrow views of the repositories so they can
// be exercised without a database.

type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
}

type BoardStore interface {
	Create(ctx context.Context, board *model.Board) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Board, error)
	GetOwned(ctx context.Context, id, accountID uuid.UUID) (*model.Board, error)
	Owns(ctx context.Context, id, accountID uuid.UUID) (bool, error)
	UpdateName(ctx context.Context, id, accountID uuid.UUID, name string) error
	Delete(ctx context.Context, id, accountID uuid.UUID) error
}

type ColumnStore interface {
	Create(ctx context.Context, column *model.Column) error
	Exists(ctx context.Context, id, boardID uuid.UUID) (bool, error)
	UpdateName(ctx context.Context, id, boardID uuid.UUID, name string) error
}

type ItemStore interface {
	Upsert(ctx context.Context, item *model.Item) error
	Move(ctx context.Context, id, boardID, columnID uuid.UUID, order float64) error
	Delete(ctx context.Context, id, boardID uuid.UUID) error
	Orders(ctx context.Context, columnID uuid.UUID) ([]float64, error)
	Respace(ctx context.Context, columnID uuid.UUID) error
}
