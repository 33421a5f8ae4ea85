package sendpasswordresettoken

import (
	"context"
	"errors"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"time"
)

type serviceWithTokenSending struct {
	log     logging.Logger
	sender  user.PasswordResetTokenSender
	timeout time.Duration
	inner   services.Service[Input, Result]
}

// NewWithTokenSending delivers the issued token after the inner service has committed it.
// A delivery failure leaves the token persisted and is reported as ErrPasswordResetTokenNotDelivered.
func NewWithTokenSending(
	log logging.Logger,
	sender user.PasswordResetTokenSender,
	timeout time.Duration,
	inner services.Service[Input, Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithTokenSending{
		log:     log,
		sender:  sender,
		timeout: timeout,
		inner:   inner,
	}
}

func (s *serviceWithTokenSending) Run(ctx context.Context, input Input) (result Result, err error) {
	result, err = s.inner.Run(ctx, input)
	if err != nil {
		return result, err
	}
	if !result.IsIssued {
		return result, nil
	}

	sendCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err = s.sender.SendPasswordResetToken(sendCtx, result.User, result.Reset.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", result.User.ID),
			logging.Entry("err", err),
		)
		return result, errors.Join(user.ErrPasswordResetTokenNotDelivered, err)
	}

	s.log.Info(
		ctx,
		"Password reset token has been sent to the user.",
		logging.Entry("userID", result.User.ID),
	)
	return result, nil
}
