package board

import (
	"cmp"
	"slices"

	"trellix/internal/mutation"
)

// Merge overlays pending on snap and returns the view to render. It has no
// side effects; pending is applied in slice order, so for mutations that
// target the same record the later one wins.
func Merge(snap Snapshot, pending []mutation.Mutation) View {
	view := View{Board: snap.Board}

	// Keep first-seen order so that equal sort keys fall back to arrival.
	itemsByID := make(map[string]Item, len(snap.Items)+len(pending))
	itemOrder := make([]string, 0, len(snap.Items)+len(pending))
	for _, it := range snap.Items {
		if _, seen := itemsByID[it.ID]; !seen {
			itemOrder = append(itemOrder, it.ID)
		}
		itemsByID[it.ID] = it
	}

	columns := slices.Clone(snap.Columns)
	slices.SortStableFunc(columns, func(a, b Column) int { return cmp.Compare(a.Order, b.Order) })
	columnIdx := make(map[string]int, len(columns))
	for i, c := range columns {
		columnIdx[c.ID] = i
	}

	deleted := make(map[string]bool)

	for _, m := range pending {
		switch m.Intent {
		case mutation.CreateItem, mutation.MoveItem:
			it, exists := itemsByID[m.ID]
			if !exists {
				it = Item{ID: m.ID}
				itemOrder = append(itemOrder, m.ID)
			}
			it.ColumnID = m.ColumnID
			it.Order = m.Order
			if m.Title != "" {
				it.Title = m.Title
			}
			if m.Content != nil {
				it.Content = m.Content
			}
			itemsByID[m.ID] = it
			delete(deleted, m.ID)
		case mutation.DeleteCard:
			deleted[m.ID] = true
		case mutation.CreateColumn:
			if i, ok := columnIdx[m.ID]; ok {
				columns[i].Name = m.Name
				continue
			}
			columnIdx[m.ID] = len(columns)
			columns = append(columns, Column{ID: m.ID, Name: m.Name, Order: len(columns) + 1})
		case mutation.UpdateColumn:
			if i, ok := columnIdx[m.ColumnID]; ok {
				columns[i].Name = m.Name
			}
		case mutation.UpdateBoardName:
			view.Board.Name = m.Name
		}
	}

	view.Columns = make([]ColumnView, len(columns))
	for i, c := range columns {
		view.Columns[i] = ColumnView{Column: c, Items: []Item{}}
	}
	for _, id := range itemOrder {
		if deleted[id] {
			continue
		}
		it := itemsByID[id]
		i, ok := columnIdx[it.ColumnID]
		if !ok {
			continue
		}
		view.Columns[i].Items = append(view.Columns[i].Items, it)
	}
	for i := range view.Columns {
		slices.SortStableFunc(view.Columns[i].Items, func(a, b Item) int {
			return cmp.Compare(a.Order, b.Order)
		})
	}
	return view
}
