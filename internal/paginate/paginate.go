package paginate

import (
	"cmp"
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Request is a page number plus size, normalised by Normalize.
type Request struct {
	Page  int
	Limit int
}

func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Slice pages an in-memory collection. A page past the end lands on the last page.
func Slice[T any](items []T, req Request) Page[T] {
	req = req.Normalize()
	total := len(items)
	req.Page = Landing(req.Page, TotalPages(total, req.Limit))
	start := min((req.Page-1)*req.Limit, total)
	end := min(start+req.Limit, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{
		Items:      out,
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// FetchPage loads one page from a server that paginates.
type FetchPage[T any] func(ctx context.Context, req Request) (Page[T], error)

type Paginator[T any] struct {
	fetch FetchPage[T]
	limit int
}

func New[T any](fetch FetchPage[T], limit int) *Paginator[T] {
	return &Paginator[T]{fetch: fetch, limit: Request{Limit: limit}.Normalize().Limit}
}

func (p *Paginator[T]) Limit() int {
	return p.limit
}

// Page fetches page. When the server reports fewer pages than asked for, the last page is
// fetched instead.
func (p *Paginator[T]) Page(ctx context.Context, page int) (Page[T], error) {
	req := Request{Page: page, Limit: p.limit}.Normalize()
	res, err := p.fetch(ctx, req)
	if err != nil {
		return Page[T]{}, err
	}
	if last := Landing(req.Page, res.TotalPages); last != req.Page && res.TotalPages > 0 {
		req.Page = last
		if res, err = p.fetch(ctx, req); err != nil {
			return Page[T]{}, err
		}
	}
	if res.Page == 0 {
		res.Page = req.Page
	}
	if res.Limit == 0 {
		res.Limit = req.Limit
	}
	if res.TotalPages == 0 {
		res.TotalPages = TotalPages(res.Total, res.Limit)
	}
	return res, nil
}

// Filter keeps items where any field returned by fields contains query, case-insensitively.
// An empty query keeps everything.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), query) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Where keeps items matching keep.
func Where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Sort orders items by key without touching the input.
func Sort[T any, K cmp.Ordered](items []T, key func(T) K, desc bool) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if desc {
			return -c
		}
		return c
	})
	return out
}

// Query is a list request as the portal receives it: paging plus free-text search and a
// status filter.
type Query struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (q Query) Request() Request {
	return Request{Page: q.Page, Limit: q.Limit}.Normalize()
}

// Values encodes q for the backend and for cache keys.
func (q Query) Values() url.Values {
	req := q.Request()
	v := url.Values{}
	v.Set("page", strconv.Itoa(req.Page))
	v.Set("limit", strconv.Itoa(req.Limit))
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		v.Set("status", s)
	}
	return v
}
