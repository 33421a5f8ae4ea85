package signupwithemail

import (
	"context"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	uow "inboxflow/internal/core/domain/unit_of_work"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"inboxflow/internal/core/services/auth"
	"time"
)

type Input struct {
	Email    c.Email
	Username user.Username
	Name     string
	Password user.RawPassword
}

type Result struct {
	User    user.User
	Session user.Session
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	passwordHasher user.PasswordHasher
	passwordPolicy user.PasswordPolicy
	authenticator  *auth.Authenticator
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	passwordPolicy user.PasswordPolicy,
	authenticator *auth.Authenticator,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if authenticator == nil {
		panic(e.NewNilArgumentError("authenticator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		passwordHasher: passwordHasher,
		passwordPolicy: passwordPolicy,
		authenticator:  authenticator,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if err := s.passwordPolicy.Validate(input.Password); err != nil {
		return result, err
	}
	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", input.Email))
		return result, err
	}
	defer uow.Rollback(ctx)

	createdUser, err := uow.Users().Create(ctx, user.CreateUserInput{
		Email:        input.Email,
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, user.ErrEmailAlreadyExists) || errors.Is(err, user.ErrUsernameAlreadyExists) {
		s.log.Info(
			ctx,
			"User with the email or username already exists.",
			logging.Entry("email", input.Email),
			logging.Entry("username", input.Username),
			logging.Entry("err", err),
		)
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", input.Email))
		return result, err
	}

	session, err := s.authenticator.Establish(ctx, uow.Sessions(), createdUser.ID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", createdUser.ID))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", createdUser.ID))
		return result, err
	}

	s.log.Info(ctx, "New user has been created.", logging.Entry("userID", createdUser.ID))
	return Result{User: createdUser, Session: session}, nil
}
