package shared

import (
	"net/http"
	"strconv"
	"strings"

	"hrhub/internal/paginate"
)

// ParseListQuery reads page, limit, q and status from the URL. Bad numbers fall back to
// the defaults.
func ParseListQuery(r *http.Request) paginate.Query {
	values := r.URL.Query()
	q := paginate.Query{
		Search: strings.TrimSpace(values.Get("q")),
		Status: strings.TrimSpace(values.Get("status")),
	}
	if raw := values.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			q.Page = v
		}
	}
	if raw := values.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			q.Limit = v
		}
	}
	req := q.Request()
	q.Page, q.Limit = req.Page, req.Limit
	return q
}

// List is a page plus its rendered page buttons.
type List[T any] struct {
	paginate.Page[T]
	View paginate.View `json:"view"`
}

func NewList[T any](page paginate.Page[T]) List[T] {
	if page.Items == nil {
		page.Items = []T{}
	}
	return List[T]{Page: page, View: page.View()}
}
