package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes the page of results returned to clients.
type Meta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
}

// Normalize clamps the page to >= 1 and the page size between 1 and MaxPageSize.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	norm := Normalize(p)
	return (norm.Page - 1) * norm.PageSize
}

// Limit returns the row limit for the normalized params.
func (p Params) Limit() int {
	return Normalize(p).PageSize
}

// NewMeta builds the page metadata for a total row count.
func NewMeta(p Params, total int64) Meta {
	norm := Normalize(p)
	pages := int(total) / norm.PageSize
	if int(total)%norm.PageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return Meta{
		Page:     norm.Page,
		PageSize: norm.PageSize,
		Total:    total,
		Pages:    pages,
	}
}
