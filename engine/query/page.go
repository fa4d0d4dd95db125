package query

// PageInfo describes where one page sits in a collection of Total records.
type PageInfo struct {
	Page    int
	PerPage int
	Total   int
	Pages   int
	HasPrev bool
	HasNext bool
	// First and Last are one-based record positions shown on the page; both
	// are zero when the page is empty.
	First int
	Last  int
}

// Info computes paging bookkeeping for total records.
func (p Pagination) Info(total int) PageInfo {
	info := PageInfo{Page: p.Page, PerPage: p.PerPage, Total: total}
	if p.PerPage <= 0 || total <= 0 {
		return info
	}
	info.Pages = (total + p.PerPage - 1) / p.PerPage
	info.HasPrev = p.Page > 0
	info.HasNext = p.Page+1 < info.Pages
	start := p.Page * p.PerPage
	if start < total {
		info.First = start + 1
		info.Last = min(start+p.PerPage, total)
	}
	return info
}

// Next returns the following page.
func (p Pagination) Next() Pagination {
	return Pagination{Page: p.Page + 1, PerPage: p.PerPage}
}
