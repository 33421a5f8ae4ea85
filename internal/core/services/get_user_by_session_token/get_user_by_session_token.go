package getuserbysessiontoken

import (
	"context"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"inboxflow/internal/core/services/auth"
)

type Input struct {
	auth.Credentials
	User user.User
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

type Result struct {
	User user.User
}

type service struct{}

// New returns the signed-in user; it must be wrapped with auth.WithAuthentication.
func New() services.Service[Input, Result] {
	return &service{}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	return Result{User: input.User}, nil
}
