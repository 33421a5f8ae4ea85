package logout

import (
	"context"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
)

type Input struct {
	Token c.Optional[user.SessionToken]
}

type Result struct{}

type service struct {
	log               logging.Logger
	sessionRepository user.SessionRepository
}

func New(
	log logging.Logger,
	sessionRepository user.SessionRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	return &service{
		log:               log,
		sessionRepository: sessionRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if !input.Token.IsPresent || input.Token.Value == "" {
		return result, user.ErrNoSession
	}
	userID, err := s.sessionRepository.Delete(ctx, input.Token.Value)
	if errors.Is(err, user.ErrSessionDoesNotExist) {
		return result, user.ErrInvalidSession
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	s.log.Info(ctx, "Session has been revoked.", logging.Entry("userID", userID))
	return result, nil
}
