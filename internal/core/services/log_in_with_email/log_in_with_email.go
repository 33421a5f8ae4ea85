package loginwithemail

import (
	"context"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"inboxflow/internal/core/services/auth"
)

type Input struct {
	Email    c.Email
	Password user.RawPassword
}

func (i Input) GetRateLimitKey() string {
	return "log-in-with-email::" + string(i.Email)
}

type Result struct {
	User    user.User
	Session user.Session
}

type service struct {
	log               logging.Logger
	userRepository    user.UserRepository
	sessionRepository user.SessionRepository
	passwordHasher    user.PasswordHasher
	authenticator     *auth.Authenticator
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	sessionRepository user.SessionRepository,
	passwordHasher user.PasswordHasher,
	authenticator *auth.Authenticator,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if authenticator == nil {
		panic(e.NewNilArgumentError("authenticator"))
	}
	return &service{
		log:               log,
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		passwordHasher:    passwordHasher,
		authenticator:     authenticator,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Minimize risk for timing attacks
		s.passwordHasher.HashPassword(input.Password)
		return result, user.ErrInvalidCredentials
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", input.Email))
		return result, err
	}
	if !s.passwordHasher.ValidatePassword(input.Password, u.PasswordHash) {
		return result, user.ErrInvalidCredentials
	}

	session, err := s.authenticator.Establish(ctx, s.sessionRepository, u.ID)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create session for user.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully authenticated, session created.",
		logging.Entry("userID", u.ID),
	)
	return Result{User: u, Session: session}, nil
}
