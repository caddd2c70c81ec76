package apiclient

import (
	"context"
	"strings"

	"hrhub/internal/paginate"
)

// Lister describes how a collection is searched when the backend hands it back whole.
type Lister[T any] struct {
	Path   string
	Fields func(T) []string
	Status func(T) string
}

// List fetches one page. A response with a meta block is server-paginated and used as is,
// falling back to the last page when q asks past the end. Without one the backend sent the
// full collection, which is filtered and paged in memory.
func List[T any](ctx context.Context, c *Conn, l Lister[T], q paginate.Query) (paginate.Page[T], error) {
	var whole []T
	unpaged := false
	pager := paginate.New(func(ctx context.Context, req paginate.Request) (paginate.Page[T], error) {
		query := q
		query.Page, query.Limit = req.Page, req.Limit
		var items []T
		meta, err := c.GetPage(ctx, l.Path, query.Values(), &items)
		if err != nil {
			return paginate.Page[T]{}, err
		}
		if meta.TotalPages == 0 && meta.Total == 0 {
			whole, unpaged = items, true
			return paginate.Page[T]{}, nil
		}
		if items == nil {
			items = []T{}
		}
		return paginate.Page[T]{
			Items:      items,
			Page:       meta.Page,
			Limit:      meta.Limit,
			Total:      meta.Total,
			TotalPages: meta.TotalPages,
		}, nil
	}, q.Limit)

	page, err := pager.Page(ctx, q.Page)
	if err != nil || !unpaged {
		return page, err
	}

	if l.Fields != nil {
		whole = paginate.Filter(whole, q.Search, l.Fields)
	}
	if status := strings.TrimSpace(q.Status); status != "" && l.Status != nil {
		whole = paginate.Where(whole, func(item T) bool { return strings.EqualFold(l.Status(item), status) })
	}
	return paginate.Slice(whole, q.Request()), nil
}
