package deleteexpired

import (
	"context"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"time"
)

type Input struct{}

type Result struct {
	DeletedPasswordResets int64
	DeletedSessions       int64
}

type service struct {
	log                     logging.Logger
	passwordResetRepository user.PasswordResetRepository
	sessionRepository       user.SessionRepository
	now                     func() time.Time
}

// New removes expired password reset tokens and sessions.
func New(
	log logging.Logger,
	passwordResetRepository user.PasswordResetRepository,
	sessionRepository user.SessionRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if passwordResetRepository == nil {
		panic(e.NewNilArgumentError("passwordResetRepository"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:                     log,
		passwordResetRepository: passwordResetRepository,
		sessionRepository:       sessionRepository,
		now:                     now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	now := s.now()
	result.DeletedPasswordResets, err = s.passwordResetRepository.DeleteExpired(ctx, now)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	result.DeletedSessions, err = s.sessionRepository.DeleteExpired(ctx, now)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	if result.DeletedPasswordResets > 0 || result.DeletedSessions > 0 {
		s.log.Info(
			ctx,
			"Expired credentials deleted.",
			logging.Entry("passwordResets", result.DeletedPasswordResets),
			logging.Entry("sessions", result.DeletedSessions),
		)
	}
	return result, nil
}
