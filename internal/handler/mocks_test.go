package handler_test

import (
	"context"

	"trellix/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	account := args.Get(0)
	if account == nil {
		return nil, args.Error(1)
	}
	return account.(*model.Account), args.Error(1)
}

type MockBoardStore struct {
	mock.Mock
}

func (m *MockBoardStore) Create(ctx context.Context, board *model.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Board, error) {
	args := m.Called(ctx, accountID)
	boards, _ := args.Get(0).([]model.Board)
	return boards, args.Error(1)
}

func (m *MockBoardStore) GetOwned(ctx context.Context, id, accountID uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, id, accountID)
	b := args.Get(0)
	if b == nil {
		return nil, args.Error(1)
	}
	return b.(*model.Board), args.Error(1)
}

func (m *MockBoardStore) Owns(ctx context.Context, id, accountID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBoardStore) UpdateName(ctx context.Context, id, accountID uuid.UUID, name string) error {
	args := m.Called(ctx, id, accountID, name)
	return args.Error(0)
}

func (m *MockBoardStore) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	args := m.Called(ctx, id, accountID)
	return args.Error(0)
}

type MockColumnStore struct {
	mock.Mock
}

func (m *MockColumnStore) Create(ctx context.Context, column *model.Column) error {
	args := m.Called(ctx, column)
	return args.Error(0)
}

func (m *MockColumnStore) Exists(ctx context.Context, id, boardID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, boardID)
	return args.Bool(0), args.Error(1)
}

func (m *MockColumnStore) UpdateName(ctx context.Context, id, boardID uuid.UUID, name string) error {
	args := m.Called(ctx, id, boardID, name)
	return args.Error(0)
}

type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) Upsert(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) Move(ctx context.Context, id, boardID, columnID uuid.UUID, order float64) error {
	args := m.Called(ctx, id, boardID, columnID, order)
	return args.Error(0)
}

func (m *MockItemStore) Delete(ctx context.Context, id, boardID uuid.UUID) error {
	args := m.Called(ctx, id, boardID)
	return args.Error(0)
}

func (m *MockItemStore) Orders(ctx context.Context, columnID uuid.UUID) ([]float64, error) {
	args := m.Called(ctx, columnID)
	orders, _ := args.Get(0).([]float64)
	return orders, args.Error(1)
}

func (m *MockItemStore) Respace(ctx context.Context, columnID uuid.UUID) error {
	args := m.Called(ctx, columnID)
	return args.Error(0)
}
