// Package board holds the client-side picture of a kanban board: the
// authoritative snapshot served by the API, the set of mutations still in
// flight, and the view obtained by overlaying one on the other.
package board

// Board is the board header of a snapshot.
type Board struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Column is a lane of a board. Order is its rank among siblings.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Item is a card. Order is a dense real sort key within its column.
type Item struct {
	ID       string  `json:"id"`
	ColumnID string  `json:"columnId"`
	Title    string  `json:"title"`
	Content  *string `json:"content"`
	Order    float64 `json:"order"`
}

// Snapshot is the state of a board as last confirmed by the server.
type Snapshot struct {
	Board   Board    `json:"board"`
	Columns []Column `json:"columns"`
	Items   []Item   `json:"items"`
}

// ColumnView is a column together with its items in display order.
type ColumnView struct {
	Column
	Items []Item `json:"items"`
}

// View is what gets rendered.
type View struct {
	Board   Board        `json:"board"`
	Columns []ColumnView `json:"columns"`
}

// ItemsByColumn returns the ordered items of every column keyed by column id.
func (v View) ItemsByColumn() map[string][]Item {
	out := make(map[string][]Item, len(v.Columns))
	for _, c := range v.Columns {
		out[c.ID] = c.Items
	}
	return out
}

// Column returns the column view with the given id.
func (v View) Column(id string) (ColumnView, bool) {
	for _, c := range v.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnView{}, false
}

// Item finds a rendered item by id.
func (v View) Item(id string) (Item, bool) {
	for _, c := range v.Columns {
		for _, it := range c.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Orders returns the item orders of the column, ascending, leaving out
// the item skip. It is the sibling list a drop position is computed from.
func (c ColumnView) Orders(skip string) []float64 {
	out := make([]float64, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ID == skip {
			continue
		}
		out = append(out, it.Order)
	}
	return out
}
