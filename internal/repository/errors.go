package repository

import "errors"

// Common repository errors
var (
	// ErrAccountNotFound is returned when no account matches
	ErrAccountNotFound = errors.New("account not found")

	// ErrBoardNotFound is returned when a board does not exist or belongs to another account
	ErrBoardNotFound = errors.New("board not found")

	// ErrColumnNotFound is returned when a column is not part of the board
	ErrColumnNotFound = errors.New("column not found")

	// ErrItemNotFound is returned when an item is not part of the board
	ErrItemNotFound = errors.New("item not found")

	// ErrEmailTaken is returned when signing up with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")
)
