// Package queries turns raw, possibly-missing listing parameters into a
// canonical ProductQuery and derives deterministic cache keys from it.
package queries

import (
	"strconv"
	"strings"
)

// SortField is one of the whitelisted product sort columns.
type SortField string

const (
	SortID    SortField = "id"
	SortName  SortField = "name"
	SortPrice SortField = "price"
)

// Column returns the database column for the field. The whitelist makes it
// safe to interpolate into an ORDER BY clause.
func (f SortField) Column() string {
	switch f {
	case SortName:
		return "name"
	case SortPrice:
		return "price"
	default:
		return "id"
	}
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// ListParams carries raw listing input as bound from the request.
// Zero/nil means the caller did not supply the parameter.
type ListParams struct {
	Page       int
	PageSize   int
	MinPrice   *float64
	MaxPrice   *float64
	CategoryID *uint
	SortBy     string
	Ascending  *bool
}

// ProductQuery is the fully-specified form of ListParams. Every field is
// present and in range after Normalize; nil price/category filters mean the
// filter is disabled, not "unknown".
type ProductQuery struct {
	Page       int
	PageSize   int
	MinPrice   *float64
	MaxPrice   *float64
	CategoryID *uint
	Sort       SortField
	Ascending  bool
}

// Normalize canonicalizes p. It never fails: out-of-range values degrade to
// defaults rather than erroring. maxPageSize caps PageSize; pass 0 to leave
// it uncapped.
func Normalize(p ListParams, maxPageSize int) ProductQuery {
	q := ProductQuery{
		Page:       p.Page,
		PageSize:   p.PageSize,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		CategoryID: p.CategoryID,
		Sort:       normalizeSort(p.SortBy),
		Ascending:  true,
	}

	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if maxPageSize > 0 && q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if p.Ascending != nil {
		q.Ascending = *p.Ascending
	}

	return q
}

func normalizeSort(raw string) SortField {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "name":
		return SortName
	case "price":
		return SortPrice
	default:
		// Unrecognized (including absent) sorts by id.
		return SortID
	}
}

// CacheKey derives a deterministic cache key for the query under the given
// namespace. The field order is a fixed schema; an empty segment encodes an
// absent filter and can never collide with a legal value.
func (q ProductQuery) CacheKey(namespace string) string {
	var b strings.Builder
	b.WriteString(namespace)

	b.WriteString(":page=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString(":size=")
	b.WriteString(strconv.Itoa(q.PageSize))
	b.WriteString(":min=")
	writePrice(&b, q.MinPrice)
	b.WriteString(":max=")
	writePrice(&b, q.MaxPrice)
	b.WriteString(":cat=")
	if q.CategoryID != nil {
		b.WriteString(strconv.FormatUint(uint64(*q.CategoryID), 10))
	}
	b.WriteString(":sort=")
	b.WriteString(string(q.Sort))
	b.WriteString(":asc=")
	b.WriteString(strconv.FormatBool(q.Ascending))

	return b.String()
}

func writePrice(b *strings.Builder, p *float64) {
	if p == nil {
		return
	}
	b.WriteString(strconv.FormatFloat(*p, 'f', -1, 64))
}
