package query

// Pagination carries optional limit/offset/order hints for repository listings.
type Pagination struct {
	Limit  *int
	Offset *int
	Order  string
	After  *uint
}

// LimitOrDefault returns the configured limit or fallback when unset.
func (p *Pagination) LimitOrDefault(fallback int) int {
	if p == nil || p.Limit == nil || *p.Limit <= 0 {
		return fallback
	}
	return *p.Limit
}

// OffsetOrZero returns the configured offset or zero when unset.
func (p *Pagination) OffsetOrZero() int {
	if p == nil || p.Offset == nil || *p.Offset < 0 {
		return 0
	}
	return *p.Offset
}
