package types

// PaginatedResult is one page of provider results. Start equals the requested
// offset, End-Start equals len(Results) and End never exceeds Total.
type PaginatedResult[T any] struct {
	Results []T `json:"results"`
	Total   int `json:"total"`
	Start   int `json:"start"`
	End     int `json:"end"`
}

// HasMore reports whether another page exists past this one.
func (p *PaginatedResult[T]) HasMore() bool {
	return p.Total > p.End
}
