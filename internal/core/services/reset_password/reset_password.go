package resetpassword

import (
	"context"
	"errors"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	uow "inboxflow/internal/core/domain/unit_of_work"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"time"
)

type Input struct {
	Token       user.PasswordResetToken
	NewPassword user.RawPassword
}

type Result struct {
	UserID          user.ID
	RevokedSessions int64
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	passwordHasher user.PasswordHasher
	passwordPolicy user.PasswordPolicy
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordHasher user.PasswordHasher,
	passwordPolicy user.PasswordPolicy,
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
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		passwordHasher: passwordHasher,
		passwordPolicy: passwordPolicy,
		now:            now,
	}
}

func isTokenError(err error) bool {
	return errors.Is(err, user.ErrPasswordResetTokenNotFound) ||
		errors.Is(err, user.ErrPasswordResetTokenAlreadyUsed) ||
		errors.Is(err, user.ErrPasswordResetTokenExpired)
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrPasswordResetTokenNotFound
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	defer uow.Rollback(ctx)

	reset, err := uow.PasswordResets().GetByTokenForUpdate(ctx, input.Token)
	if errors.Is(err, user.ErrPasswordResetTokenNotFound) {
		s.log.Info(ctx, "Password reset token not found.")
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	now := s.now()
	if err := reset.CheckUsable(now); err != nil {
		s.log.Info(
			ctx,
			"Password reset token can not be used.",
			logging.Entry("userID", reset.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}
	if err := s.passwordPolicy.Validate(input.NewPassword); err != nil {
		return result, err
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	err = uow.PasswordResets().MarkConsumed(ctx, input.Token, now)
	if isTokenError(err) {
		s.log.Info(
			ctx,
			"Password reset token has been consumed concurrently.",
			logging.Entry("userID", reset.UserID),
		)
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", reset.UserID))
		return result, err
	}

	if err := uow.Users().SetPassword(ctx, reset.UserID, passwordHash); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", reset.UserID))
		return result, err
	}
	revoked, err := uow.Sessions().DeleteByUserID(ctx, reset.UserID)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", reset.UserID))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", reset.UserID))
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", reset.UserID),
		logging.Entry("revokedSessions", revoked),
	)
	return Result{UserID: reset.UserID, RevokedSessions: revoked}, nil
}
