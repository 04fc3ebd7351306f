// Package pagination provides offset-based paging helpers for list endpoints.
package pagination

// OffsetRequest represents an offset-based pagination request.
type OffsetRequest struct {
	Limit  int `json:"limit" query:"limit"`
	Offset int `json:"offset" query:"offset"`
}

// Normalize clamps the request onto valid bounds.
func (r *OffsetRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

// HasMore reports whether rows exist beyond the requested page.
func (r OffsetRequest) HasMore(total int64) bool {
	return int64(r.Offset+r.Limit) < total
}
