package summaries

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type StoreAPI interface {
	List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Summary], error)
	Get(ctx context.Context, sess apiclient.Session, id string) (Summary, error)
	Acknowledge(ctx context.Context, sess apiclient.Session, id string) (Summary, error)
}
