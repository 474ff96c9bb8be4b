package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"trellix/internal/cache"
	"trellix/internal/model"
	"trellix/internal/mutation"
	"trellix/internal/ordering"
	"trellix/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// IdempotencyHeader names the request header that makes a mutation safe
// to resend.
const IdempotencyHeader = "Idempotency-Key"

// ids are the uuids a mutation refers to, parsed up front so that a
// malformed id is rejected before anything is written.
type ids struct {
	target uuid.UUID
	column uuid.UUID
}

// Action godoc
// @Summary   Apply an intent-tagged mutation to a board
// @Description  Accepts a form or JSON body with an "intent" field (createColumn, updateColumn, createItem, moveItem, updateBoardName, deleteCard) and the fields of that intent.
// @Tags      Boards
// @Accept    json
// @Accept    x-www-form-urlencoded
// @Produce   json
// @Security  BearerAuth
// @Param     id               path    string  true   "board id"
// @Param     Idempotency-Key  header  string  false  "makes a retry a no-op"
// @Success   200  {object}  map[string]interface{}
// @Success   303
// @Failure   400  {object}  map[string]string
// @Failure   404  {object}  map[string]string
// @Failure   409  {object}  map[string]string
// @Router    /boards/{id} [post]
func (h *BoardHandler) Action(c *gin.Context) {
	accountID, ok := requireAccount(c)
	if !ok {
		return
	}
	boardID, ok := boardParam(c)
	if !ok {
		return
	}

	fields, err := readFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	m, err := mutation.Parse(fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refs, err := parseIDs(m)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	owned, err := h.boards.Owns(ctx, boardID, accountID)
	if err != nil {
		log.WithError(err).WithField("board", boardID).Error("check board owner")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	key := c.GetHeader(IdempotencyHeader)
	if key != "" {
		state, err := h.dedupe.Begin(ctx, accountID.String(), key)
		switch {
		case err != nil:
			log.WithError(err).Warn("idempotency check failed")
			key = ""
		case state == cache.KeyPending:
			c.JSON(http.StatusConflict, gin.H{"error": "A request with this idempotency key is still in progress"})
			return
		case state == cache.KeyDone:
			c.JSON(http.StatusOK, gin.H{"ok": true, "duplicate": true})
			return
		}
	}

	if err := h.apply(ctx, accountID, boardID, m, refs); err != nil {
		if key != "" {
			if rerr := h.dedupe.Remove(ctx, accountID.String(), key); rerr != nil {
				log.WithError(rerr).Warn("release idempotency key")
			}
		}
		status, msg := actionError(err)
		if status == http.StatusInternalServerError {
			log.WithError(err).WithFields(log.Fields{"board": boardID, "intent": m.Intent}).Error("apply mutation")
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	if key != "" {
		if err := h.dedupe.Finish(ctx, accountID.String(), key); err != nil {
			log.WithError(err).Warn("mark idempotency key done")
		}
	}
	h.snapshots.Evict(ctx, accountID.String(), boardID.String())

	if wantsDocument(c) {
		c.Redirect(http.StatusSeeOther, "/boards/"+boardID.String())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": boardID.String()})
}

// apply performs the single write an intent maps to.
func (h *BoardHandler) apply(ctx context.Context, accountID, boardID uuid.UUID, m mutation.Mutation, refs ids) error {
	switch m.Intent {
	case mutation.CreateColumn:
		return h.columns.Create(ctx, &model.Column{ID: refs.target, BoardID: boardID, Name: m.Name})

	case mutation.UpdateColumn:
		return h.columns.UpdateName(ctx, refs.column, boardID, m.Name)

	case mutation.CreateItem, mutation.MoveItem:
		exists, err := h.columns.Exists(ctx, refs.column, boardID)
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrColumnNotFound
		}
		if m.Intent == mutation.MoveItem && m.Title == "" {
			err = h.items.Move(ctx, refs.target, boardID, refs.column, m.Order)
		} else {
			err = h.items.Upsert(ctx, &model.Item{
				ID:       refs.target,
				BoardID:  boardID,
				ColumnID: refs.column,
				Title:    m.Title,
				Content:  m.Content,
				Order:    m.Order,
			})
		}
		if err != nil {
			return err
		}
		h.respaceIfExhausted(ctx, refs.column)
		return nil

	case mutation.UpdateBoardName:
		return h.boards.UpdateName(ctx, boardID, accountID, m.Name)

	case mutation.DeleteCard:
		return h.items.Delete(ctx, refs.target, boardID)
	}
	return fmt.Errorf("%w: %q", mutation.ErrUnknownIntent, m.Intent)
}

// respaceIfExhausted renumbers a column once midpoint inserts have run out
// of float precision somewhere in it. Failure here leaves a valid, if
// crowded, column, so it is only logged.
func (h *BoardHandler) respaceIfExhausted(ctx context.Context, columnID uuid.UUID) {
	orders, err := h.items.Orders(ctx, columnID)
	if err != nil {
		log.WithError(err).WithField("column", columnID).Warn("read column orders")
		return
	}
	if !ordering.NeedsRespace(orders) {
		return
	}
	log.WithField("column", columnID).Info("respacing column")
	if err := h.items.Respace(ctx, columnID); err != nil {
		log.WithError(err).WithField("column", columnID).Warn("respace column")
	}
}

func readFields(c *gin.Context) (mutation.Fields, error) {
	switch c.ContentType() {
	case binding.MIMEJSON:
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, err
		}
		return mutation.FromJSON(body), nil
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return mutation.FromValues(form.Value), nil
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
		return mutation.FromValues(c.Request.PostForm), nil
	}
}

func parseIDs(m mutation.Mutation) (ids, error) {
	var refs ids
	var err error
	if m.ID != "" {
		if refs.target, err = uuid.Parse(m.ID); err != nil {
			return ids{}, fmt.Errorf("%w: id is not a uuid", mutation.ErrInvalid)
		}
	}
	if m.ColumnID != "" {
		if refs.column, err = uuid.Parse(m.ColumnID); err != nil {
			return ids{}, fmt.Errorf("%w: columnId is not a uuid", mutation.ErrInvalid)
		}
	}
	return refs, nil
}

func actionError(err error) (int, string) {
	switch {
	case errors.Is(err, mutation.ErrInvalid), errors.Is(err, mutation.ErrUnknownIntent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repository.ErrBoardNotFound):
		return http.StatusNotFound, "Board not found"
	case errors.Is(err, repository.ErrColumnNotFound):
		return http.StatusNotFound, "Column not found"
	case errors.Is(err, repository.ErrItemNotFound):
		return http.StatusNotFound, "Card not found"
	}
	return http.StatusInternalServerError, "Failed to apply mutation"
}
