package notifications

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type StoreAPI interface {
	RegisterDevice(ctx context.Context, sess apiclient.Session, token string) error
	Unread(ctx context.Context, sess apiclient.Session, limit int) ([]Notification, error)
	List(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Notification], error)
	MarkRead(ctx context.Context, sess apiclient.Session, id string) error
}
