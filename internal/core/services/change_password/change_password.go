package changepassword

import (
	"context"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"inboxflow/internal/core/services/auth"
)

type Input struct {
	auth.Credentials
	CurrentPassword user.RawPassword
	NewPassword     user.RawPassword
	User            user.User
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

type Result struct{}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	passwordPolicy user.PasswordPolicy
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	passwordPolicy user.PasswordPolicy,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	return &service{
		log:            log,
		passwordHasher: passwordHasher,
		userRepository: userRepository,
		passwordPolicy: passwordPolicy,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	isCurrentPasswordValid := s.passwordHasher.ValidatePassword(
		input.CurrentPassword,
		input.User.PasswordHash,
	)
	if !isCurrentPasswordValid {
		return result, user.ErrInvalidCredentials
	}
	if err := s.passwordPolicy.Validate(input.NewPassword); err != nil {
		return result, err
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	if err := s.userRepository.SetPassword(ctx, input.User.ID, newPasswordHash); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}

	s.log.Info(ctx, "Password has been changed.", logging.Entry("userID", input.User.ID))
	return Result{}, nil
}
