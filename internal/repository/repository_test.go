package repository_test

import (
	"context"
	"testing"
	"time"

	"trellix/internal/model"
	"trellix/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewAccountRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts" .* ON CONFLICT \("email"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := repo.Create(context.Background(), &model.Account{ID: uuid.New(), Email: "Ann@Example.com", HashedPassword: "x"})

	// Assert
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewAccountRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "accounts" WHERE email = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "hashed_password", "created_at"}))

	account, err := repo.FindByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.Nil(t, account)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetOwned_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE id = .* AND account_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "account_id", "created_at"}))

	board, err := repo.GetOwned(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
	assert.Nil(t, board)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_GetOwned_PreloadsColumnsAndItems(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	mock.MatchExpectationsInOrder(false)
	repo := repository.NewBoardRepository(gormDB)

	boardID, accountID := uuid.New(), uuid.New()
	columnID, itemID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE id = .* AND account_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "color", "account_id", "created_at"}).
			AddRow(boardID.String(), "Roadmap", "#fff", accountID.String(), now))
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE "columns"."board_id" = .* ORDER BY sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "name", "sort_order"}).
			AddRow(columnID.String(), boardID.String(), "Todo", 1))
	mock.ExpectQuery(`SELECT \* FROM "items" WHERE "items"."board_id" = .* ORDER BY sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "board_id", "column_id", "title", "content", "sort_order", "created_at", "updated_at"}).
			AddRow(itemID.String(), boardID.String(), columnID.String(), "Write", nil, 1.5, now, now))

	// Act
	board, err := repo.GetOwned(context.Background(), boardID, accountID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", board.Name)
	require.Len(t, board.Columns, 1)
	assert.Equal(t, columnID, board.Columns[0].ID)
	require.Len(t, board.Items, 1)
	assert.Equal(t, 1.5, board.Items[0].Order)
	assert.Nil(t, board.Items[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardRepository_UpdateName_NotOwned(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewBoardRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "boards" SET "name"=.* WHERE id = .* AND account_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateName(context.Background(), uuid.New(), uuid.New(), "New name")

	assert.ErrorIs(t, err, repository.ErrBoardNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Create_AppendsToBoard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	column := &model.Column{BoardID: uuid.New(), Name: "Doing"}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`INSERT INTO "columns" .* ON CONFLICT \("id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.Create(context.Background(), column)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, column.ID)
	assert.Equal(t, 3, column.Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Create_ReplayOnSameBoard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	column := &model.Column{ID: uuid.New(), BoardID: uuid.New(), Name: "Doing"}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO "columns" .* ON CONFLICT \("id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE id = .* AND board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), column)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Create_IDTakenByAnotherBoard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	column := &model.Column{ID: uuid.New(), BoardID: uuid.New(), Name: "Doing"}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "columns" .* ON CONFLICT \("id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE id = .* AND board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), column)

	assert.ErrorIs(t, err, repository.ErrColumnNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Upsert(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewItemRepository(gormDB)

	item := &model.Item{ID: uuid.New(), BoardID: uuid.New(), ColumnID: uuid.New(), Title: "Write", Order: 2.5}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "items" .* ON CONFLICT \("id"\) DO UPDATE SET .* WHERE "items"."board_id" = excluded.board_id`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), item)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Upsert_ItemOfAnotherBoard(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewItemRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "items"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), &model.Item{ID: uuid.New(), BoardID: uuid.New(), ColumnID: uuid.New(), Title: "x", Order: 1})

	assert.ErrorIs(t, err, repository.ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Delete_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewItemRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "items" WHERE id = .* AND board_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, repository.ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Orders(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewItemRepository(gormDB)

	mock.ExpectQuery(`SELECT "sort_order" FROM "items" WHERE column_id = .* ORDER BY sort_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"sort_order"}).AddRow(1.0).AddRow(1.5).AddRow(2.0))

	orders, err := repo.Orders(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5, 2}, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Respace(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewItemRepository(gormDB)

	first, second := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "items" WHERE column_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(first.String()).AddRow(second.String()))
	mock.ExpectExec(`UPDATE "items" SET "sort_order"=.*`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "items" SET "sort_order"=.*`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Respace(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Move(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewItemRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "items" SET .*"column_id"=.*"sort_order"=.* WHERE id = .* AND board_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Move(context.Background(), uuid.New(), uuid.New(), uuid.New(), 2.5)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_Exists(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "columns" WHERE id = .* AND board_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.Exists(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_UpdateName_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "columns" SET "name"=.* WHERE id = .* AND board_id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateName(context.Background(), uuid.New(), uuid.New(), "Done")

	assert.ErrorIs(t, err, repository.ErrColumnNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
