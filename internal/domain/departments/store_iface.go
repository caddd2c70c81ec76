package departments

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type StoreAPI interface {
	List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Department], error)
	Get(ctx context.Context, sess apiclient.Session, id string) (Department, error)
	Create(ctx context.Context, sess apiclient.Session, in Input) (Department, error)
	Update(ctx context.Context, sess apiclient.Session, id string, in Input) (Department, error)
	Delete(ctx context.Context, sess apiclient.Session, id string) error
	AddMembers(ctx context.Context, sess apiclient.Session, id string, memberIDs []string) (Department, error)
	RemoveMember(ctx context.Context, sess apiclient.Session, id, memberID string) error
}
