package profile

import (
	"context"

	"hrhub/internal/apiclient"
)

type StoreAPI interface {
	Get(ctx context.Context, sess apiclient.Session) (Identity, error)
	Update(ctx context.Context, sess apiclient.Session, body any) (Identity, error)
	ChangePassword(ctx context.Context, sess apiclient.Session, current, next string) error
}
