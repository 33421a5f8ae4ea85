package sendpasswordresettoken

import (
	"context"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	uow "inboxflow/internal/core/domain/unit_of_work"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"time"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return "send-password-reset-token::" + string(i.Email)
}

// Result holds the issued token. IsIssued is false if no user has the email.
type Result struct {
	User     user.User
	Reset    user.PasswordReset
	IsIssued bool
}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	tokenGenerator user.PasswordResetTokenGenerator
	tokenTTL       time.Duration
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	tokenGenerator user.PasswordResetTokenGenerator,
	tokenTTL time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		tokenGenerator: tokenGenerator,
		tokenTTL:       tokenTTL,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByEmailForUpdate(ctx, input.Email)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email, skipping.")
		return result, nil
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	now := s.now()
	invalidated, err := uow.PasswordResets().InvalidateActive(ctx, u.ID, now)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	reset, err := uow.PasswordResets().Create(ctx, user.CreatePasswordResetInput{
		UserID:    u.ID,
		Token:     s.tokenGenerator.GeneratePasswordResetToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("userID", u.ID),
		logging.Entry("invalidated", invalidated),
		logging.Entry("expiresAt", reset.ExpiresAt),
	)
	return Result{User: u, Reset: reset, IsIssued: true}, nil
}
