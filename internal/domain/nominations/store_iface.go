package nominations

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type StoreAPI interface {
	List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Nomination], error)
	Get(ctx context.Context, sess apiclient.Session, id string) (Nomination, error)
	Create(ctx context.Context, sess apiclient.Session, in NominateInput) (Nomination, error)
	SetStatus(ctx context.Context, sess apiclient.Session, id string, status Status) (Nomination, error)
}
