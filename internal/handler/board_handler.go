package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"trellix/internal/board"
	"trellix/internal/cache"
	"trellix/internal/middleware"
	"trellix/internal/model"
	"trellix/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultColor is used for boards created without a color.
const DefaultColor = "#e0e0e0"

type BoardHandler struct {
	boards    BoardStore
	columns   ColumnStore
	items     ItemStore
	snapshots *cache.Snapshots
	dedupe    *cache.Deduper
}

func NewBoardHandler(boards BoardStore, columns ColumnStore, items ItemStore, snapshots *cache.Snapshots, dedupe *cache.Deduper) *BoardHandler {
	return &BoardHandler{
		boards:    boards,
		columns:   columns,
		items:     items,
		snapshots: snapshots,
		dedupe:    dedupe,
	}
}

type CreateBoardRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Color string `json:"color" form:"color"`
}

type BoardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
}

func toBoardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Color:     b.Color,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

// List godoc
// @Summary   List the caller's boards
// @Tags      Boards
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  BoardResponse
// @Router    /boards [get]
func (h *BoardHandler) List(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	boards, err := h.boards.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		log.WithError(err).Error("list boards")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary   Create a board
// @Tags      Boards
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      CreateBoardRequest  true  "board"
// @Success   201   {object}  BoardResponse
// @Failure   400   {object}  map[string]string
// @Router    /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = DefaultColor
	}

	b := &model.Board{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Color:     color,
		AccountID: accountID,
	}
	if err := h.boards.Create(c.Request.Context(), b); err != nil {
		log.WithError(err).Error("create board")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	if wantsDocument(c) {
		c.Redirect(http.StatusSeeOther, "/boards/"+b.ID.String())
		return
	}
	c.JSON(http.StatusCreated, toBoardResponse(b))
}

// Get godoc
// @Summary   Authoritative snapshot of a board
// @Tags      Boards
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "board id"
// @Success   200  {object}  board.Snapshot
// @Failure   404  {object}  map[string]string
// @Router    /boards/{id} [get]
func (h *BoardHandler) Get(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c)
	if !ok {
		return
	}

	snap, err := h.snapshots.Get(c.Request.Context(), accountID.String(), boardID.String(),
		func(ctx context.Context) (board.Snapshot, error) {
			b, err := h.boards.GetOwned(ctx, boardID, accountID)
			if err != nil {
				return board.Snapshot{}, err
			}
			return toSnapshot(b), nil
		})
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		log.WithError(err).WithField("board", boardID).Error("load board")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// Delete godoc
// @Summary   Delete a board with its columns and cards
// @Tags      Boards
// @Security  BearerAuth
// @Param     id  path  string  true  "board id"
// @Success   204
// @Failure   404  {object}  map[string]string
// @Router    /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c)
	if !ok {
		return
	}

	if err := h.boards.Delete(c.Request.Context(), boardID, accountID); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		log.WithError(err).WithField("board", boardID).Error("delete board")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}
	h.snapshots.Evict(c.Request.Context(), accountID.String(), boardID.String())

	if wantsDocument(c) {
		c.Redirect(http.StatusSeeOther, "/boards")
		return
	}
	c.Status(http.StatusNoContent)
}

func requireAccount(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return id, ok
}

func boardParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID"})
		return uuid.Nil, false
	}
	return id, true
}

func toSnapshot(b *model.Board) board.Snapshot {
	snap := board.Snapshot{
		Board:   board.Board{ID: b.ID.String(), Name: b.Name, Color: b.Color},
		Columns: make([]board.Column, 0, len(b.Columns)),
		Items:   make([]board.Item, 0, len(b.Items)),
	}
	for _, col := range b.Columns {
		snap.Columns = append(snap.Columns, board.Column{
			ID:    col.ID.String(),
			Name:  col.Name,
			Order: col.Order,
		})
	}
	for _, it := range b.Items {
		snap.Items = append(snap.Items, board.Item{
			ID:       it.ID.String(),
			ColumnID: it.ColumnID.String(),
			Title:    it.Title,
			Content:  it.Content,
			Order:    it.Order,
		})
	}
	return snap
}
