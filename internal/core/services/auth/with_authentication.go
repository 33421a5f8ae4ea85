package auth

import (
	"context"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
)

type Input interface {
	GetSessionToken() c.Optional[user.SessionToken]
	WithAuthenticatedUser(u user.User) Input
}

// Credentials is embedded into inputs of services that require a signed-in user.
type Credentials struct {
	SessionToken c.Optional[user.SessionToken]
}

func NewCredentials(token user.SessionToken, isPresent bool) Credentials {
	return Credentials{SessionToken: c.NewOptional(token, isPresent)}
}

func (cr Credentials) GetSessionToken() c.Optional[user.SessionToken] {
	return cr.SessionToken
}

type service[T Input, S any] struct {
	authenticator *Authenticator
	inner         services.Service[T, S]
}

func WithAuthentication[T Input, S any](
	authenticator *Authenticator,
	inner services.Service[T, S],
) services.Service[T, S] {
	if authenticator == nil {
		panic(e.NewNilArgumentError("authenticator"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		authenticator: authenticator,
		inner:         inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	u, err := s.authenticator.Authenticate(ctx, input.GetSessionToken())
	if err != nil {
		return result, err
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u).(T))
}
