package updateuser

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
	auth.Credentials
	UserID   user.ID
	Email    c.Optional[c.Email]
	Username c.Optional[user.Username]
	Name     c.Optional[string]
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.UserID = u.ID
	return i
}

type Result struct {
	User user.User
}

type service struct {
	log        logging.Logger
	unitOfWork uow.UnitOfWork
	now        func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		unitOfWork: unitOfWork,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	defer uow.Rollback(ctx)

	var previousEmail c.Email
	if input.Email.IsPresent {
		current, err := uow.Users().GetByID(ctx, input.UserID)
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
			return result, err
		}
		previousEmail = current.Email
	}

	updatedUser, err := uow.Users().Update(
		ctx,
		user.UpdateUserInput{
			ID:       input.UserID,
			Email:    input.Email,
			Username: input.Username,
			Name:     input.Name,
		},
	)
	if errors.Is(err, user.ErrEmailAlreadyExists) || errors.Is(err, user.ErrUsernameAlreadyExists) {
		s.log.Info(
			ctx,
			"Could not update user, email or username is taken.",
			logging.Entry("userID", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		return result, err
	}

	// Reset links already mailed to the old address must stop working.
	invalidated := int64(0)
	if input.Email.IsPresent && updatedUser.Email != previousEmail {
		invalidated, err = uow.PasswordResets().InvalidateActive(ctx, updatedUser.ID, s.now())
		if err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("userID", updatedUser.ID))
			return result, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", updatedUser.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully updated.",
		logging.Entry("userID", updatedUser.ID),
		logging.Entry("invalidatedResets", invalidated),
	)
	result.User = updatedUser
	return result, nil
}
