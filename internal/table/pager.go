package table

// Pager is the page navigation control under a table: {list, page, pageSize, onPageChange}.
type Pager struct {
	Page     int
	PageSize int
	Total    int64
	// Pages is the page count reported by the backend; 0 derives it from Total.
	Pages int

	// OnPageChange fires only when the page actually moves.
	OnPageChange func(page int)
}

func NewPager(page, pageSize int, total int64) *Pager {
	return NewPagerPages(page, pageSize, total, 0)
}

// NewPagerPages is NewPager for a backend that reports its own page count.
func NewPagerPages(page, pageSize int, total int64, pages int) *Pager {
	p := &Pager{PageSize: pageSize, Total: total, Pages: pages}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	if p.Total < 0 {
		p.Total = 0
	}
	p.Page = p.Clamp(page)
	return p
}

// TotalPages is never below 1, an empty list still shows one page.
func (p *Pager) TotalPages() int {
	if p.Pages >= 1 {
		return p.Pages
	}
	if p.PageSize <= 0 || p.Total <= 0 {
		return 1
	}
	n := int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
	if n < 1 {
		return 1
	}
	return n
}

func (p *Pager) Clamp(page int) int {
	if page < 1 {
		return 1
	}
	if last := p.TotalPages(); page > last {
		return last
	}
	return page
}

func (p *Pager) HasNext() bool { return p.Page < p.TotalPages() }
func (p *Pager) HasPrev() bool { return p.Page > 1 }

func (p *Pager) Next() int  { return p.Go(p.Page + 1) }
func (p *Pager) Prev() int  { return p.Go(p.Page - 1) }
func (p *Pager) First() int { return p.Go(1) }
func (p *Pager) Last() int  { return p.Go(p.TotalPages()) }

// Go moves to page (clamped) and returns the page now shown.
func (p *Pager) Go(page int) int {
	page = p.Clamp(page)
	if page == p.Page {
		return page
	}
	p.Page = page
	if p.OnPageChange != nil {
		p.OnPageChange(page)
	}
	return page
}

// Controls is the serialisable state of the pagination bar.
type Controls struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
	PrevPage   int   `json:"prevPage"`
	NextPage   int   `json:"nextPage"`
}

func (p *Pager) Controls() Controls {
	return Controls{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
		HasPrev:    p.HasPrev(),
		HasNext:    p.HasNext(),
		PrevPage:   p.Clamp(p.Page - 1),
		NextPage:   p.Clamp(p.Page + 1),
	}
}
