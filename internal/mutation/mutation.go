// Package mutation defines the intent-tagged records exchanged between the
// board client and the action endpoint. The same record is held as a
// pending mutation on the client and parsed as a request on the server.
package mutation

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Intent names the operation a mutation performs.
type Intent string

const (
	CreateColumn    Intent = "createColumn"
	UpdateColumn    Intent = "updateColumn"
	CreateItem      Intent = "createItem"
	MoveItem        Intent = "moveItem"
	UpdateBoardName Intent = "updateBoardName"
	DeleteCard      Intent = "deleteCard"
)

// Field names on the wire.
const (
	FieldIntent   = "intent"
	FieldID       = "id"
	FieldItemID   = "itemId"
	FieldColumnID = "columnId"
	FieldBoardID  = "boardId"
	FieldOrder    = "order"
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldName     = "name"
)

var (
	// ErrInvalid is returned when a required field is missing or malformed.
	ErrInvalid = errors.New("invalid mutation")

	// ErrUnknownIntent is returned for an intent outside the vocabulary.
	ErrUnknownIntent = errors.New("unknown intent")
)

// Known reports whether i is part of the vocabulary.
func (i Intent) Known() bool {
	switch i {
	case CreateColumn, UpdateColumn, CreateItem, MoveItem, UpdateBoardName, DeleteCard:
		return true
	}
	return false
}

// Mutation is a single intent with the fields relevant to it. ID is the id
// of the record the intent targets: the item for item intents, the column
// for column intents and the board for updateBoardName.
type Mutation struct {
	Intent   Intent
	ID       string
	ColumnID string
	BoardID  string
	Title    string
	Content  *string
	Name     string
	Order    float64
}

// Key is the logical in-flight slot of the mutation. Two mutations with the
// same key target the same record, and the later one supersedes the
// earlier. Creating a column and renaming it occupy separate slots so a
// rename never hides a column that is still being created.
func (m Mutation) Key() string {
	switch m.Intent {
	case CreateItem, MoveItem, DeleteCard:
		return "item:" + m.ID
	case CreateColumn:
		return "newColumn:" + m.ID
	case UpdateColumn:
		return "column:" + m.ColumnID
	case UpdateBoardName:
		return "board:" + m.BoardID
	}
	return string(m.Intent) + ":" + m.ID
}

// Fields is the flat set of named fields a request carries.
type Fields map[string]string

// FromValues adapts a form body.
func FromValues(v url.Values) Fields {
	f := make(Fields, len(v))
	for k := range v {
		f[k] = v.Get(k)
	}
	return f
}

// FromJSON adapts a decoded JSON object. Numbers and booleans are kept in
// their textual form, nulls are dropped.
func FromJSON(obj map[string]any) Fields {
	f := make(Fields, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
		case string:
			f[k] = val
		case float64:
			f[k] = strconv.FormatFloat(val, 'g', -1, 64)
		case bool:
			f[k] = strconv.FormatBool(val)
		default:
			f[k] = fmt.Sprint(val)
		}
	}
	return f
}

// Values encodes the fields as a form body.
func (f Fields) Values() url.Values {
	v := make(url.Values, len(f))
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, f[k])
	}
	return v
}

func (f Fields) get(name string) string {
	return strings.TrimSpace(f[name])
}

// Parse validates f and builds the mutation it describes.
func Parse(f Fields) (Mutation, error) {
	intent := Intent(f.get(FieldIntent))
	if intent == "" {
		return Mutation{}, fmt.Errorf("%w: missing intent", ErrInvalid)
	}
	if !intent.Known() {
		return Mutation{}, fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}

	m := Mutation{
		Intent:   intent,
		ID:       f.get(FieldID),
		ColumnID: f.get(FieldColumnID),
		BoardID:  f.get(FieldBoardID),
		Title:    f.get(FieldTitle),
		Name:     f.get(FieldName),
	}
	if content, ok := f[FieldContent]; ok {
		m.Content = &content
	}

	switch intent {
	case CreateColumn:
		if m.Name == "" {
			return Mutation{}, missing(FieldName)
		}
	case UpdateColumn:
		if m.Name == "" || m.ColumnID == "" {
			return Mutation{}, fmt.Errorf("%w: missing name or columnId", ErrInvalid)
		}
	case CreateItem:
		if m.ID == "" {
			return Mutation{}, missing(FieldID)
		}
		if m.Title == "" || m.ColumnID == "" {
			return Mutation{}, fmt.Errorf("%w: missing title or columnId", ErrInvalid)
		}
		order, err := parseOrder(f)
		if err != nil {
			return Mutation{}, err
		}
		m.Order = order
	case MoveItem:
		if m.ID == "" {
			return Mutation{}, missing(FieldID)
		}
		if m.ColumnID == "" {
			return Mutation{}, missing(FieldColumnID)
		}
		order, err := parseOrder(f)
		if err != nil {
			return Mutation{}, err
		}
		m.Order = order
	case UpdateBoardName:
		if m.Name == "" {
			return Mutation{}, missing(FieldName)
		}
	case DeleteCard:
		if id := f.get(FieldItemID); id != "" {
			m.ID = id
		}
		if m.ID == "" {
			return Mutation{}, missing(FieldItemID)
		}
	}
	return m, nil
}

func parseOrder(f Fields) (float64, error) {
	raw := f.get(FieldOrder)
	if raw == "" {
		return 0, missing(FieldOrder)
	}
	order, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(order) || math.IsInf(order, 0) {
		return 0, fmt.Errorf("%w: order must be a finite number", ErrInvalid)
	}
	return order, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing %s", ErrInvalid, field)
}

// Fields encodes m as the flat field set Parse accepts.
func (m Mutation) Fields() Fields {
	f := Fields{FieldIntent: string(m.Intent)}
	set := func(name, value string) {
		if value != "" {
			f[name] = value
		}
	}
	switch m.Intent {
	case DeleteCard:
		set(FieldItemID, m.ID)
	default:
		set(FieldID, m.ID)
	}
	set(FieldColumnID, m.ColumnID)
	set(FieldBoardID, m.BoardID)
	set(FieldTitle, m.Title)
	set(FieldName, m.Name)
	if m.Content != nil {
		f[FieldContent] = *m.Content
	}
	if m.Intent == CreateItem || m.Intent == MoveItem {
		f[FieldOrder] = strconv.FormatFloat(m.Order, 'g', -1, 64)
	}
	return f
}
