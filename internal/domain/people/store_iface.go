package people

import (
	"context"

	"hrhub/internal/apiclient"
	"hrhub/internal/paginate"
)

type StoreAPI interface {
	ListUsers(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[User], error)
	GetUser(ctx context.Context, sess apiclient.Session, id string) (User, error)
	CreateUser(ctx context.Context, sess apiclient.Session, in UserInput) (User, error)
	UpdateUser(ctx context.Context, sess apiclient.Session, id string, in UserInput) (User, error)
	DeleteUser(ctx context.Context, sess apiclient.Session, id string) error

	ListAdmins(ctx context.Context, sess apiclient.Session, q paginate.Query) (paginate.Page[Admin], error)
	GetAdmin(ctx context.Context, sess apiclient.Session, id string) (Admin, error)
	CreateAdmin(ctx context.Context, sess apiclient.Session, in AdminInput) (Admin, error)
	UpdateAdmin(ctx context.Context, sess apiclient.Session, id string, in AdminInput) (Admin, error)
	DeleteAdmin(ctx context.Context, sess apiclient.Session, id string) error
}
