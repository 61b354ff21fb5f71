package table

import "github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"

type ViewRow struct {
	ID       string            `json:"id"`
	Cells    map[string]string `json:"cells"`
	Selected bool              `json:"selected"`
	Item     domain.Row        `json:"item"`
}

type BulkBar struct {
	Visible bool `json:"visible"`
	Count   int  `json:"count"`
}

// View is everything the dashboard needs to draw one table page.
type View struct {
	Resource   string          `json:"resource"`
	Columns    []domain.Column `json:"columns"`
	Rows       []ViewRow       `json:"rows"`
	Filter     *Filter         `json:"filter,omitempty"`
	Pagination Controls        `json:"pagination"`
	Selected   []string        `json:"selected"`
	BulkBar    BulkBar         `json:"bulkBar"`
}

// Present builds the table view for one fetched page. The filter narrows
// the loaded rows only, pagination still reflects the server totals.
func Present(res domain.Resource, page domain.Page, f Filter, sel *Selection) View {
	if sel == nil {
		sel = NewSelection(Multi)
	}
	pager := NewPagerPages(page.Page, page.Limit, page.Total, page.TotalPages)
	rows := f.Apply(page.Items, res.Columns)

	v := View{
		Resource:   res.Name,
		Columns:    res.Columns,
		Rows:       make([]ViewRow, 0, len(rows)),
		Pagination: pager.Controls(),
		Selected:   sel.IDs(),
		BulkBar:    BulkBar{Visible: sel.Len() > 0, Count: sel.Len()},
	}
	if f.Active() {
		fc := f
		v.Filter = &fc
	}
	for _, r := range rows {
		id := r.ID(res.IDField)
		cells := make(map[string]string, len(res.Columns))
		for _, c := range res.Columns {
			cells[c.Key] = Cell(r, c)
		}
		v.Rows = append(v.Rows, ViewRow{ID: id, Cells: cells, Selected: sel.Has(id), Item: r})
	}
	return v
}
