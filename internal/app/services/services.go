package services

import (
	"inboxflow/internal/app/deps"
	drl "inboxflow/internal/core/domain/rate_limiter"
	"inboxflow/internal/core/services"
	"inboxflow/internal/core/services/auth"
	changepassword "inboxflow/internal/core/services/change_password"
	deleteexpired "inboxflow/internal/core/services/delete_expired"
	getuserbysessiontoken "inboxflow/internal/core/services/get_user_by_session_token"
	loginwithemail "inboxflow/internal/core/services/log_in_with_email"
	logout "inboxflow/internal/core/services/log_out"
	ratelimiting "inboxflow/internal/core/services/rate_limiting"
	resetpassword "inboxflow/internal/core/services/reset_password"
	sendpasswordresettoken "inboxflow/internal/core/services/send_password_reset_token"
	signupwithemail "inboxflow/internal/core/services/sign_up_with_email"
	updateuser "inboxflow/internal/core/services/update_user"
)

type Services struct {
	SignUpWithEmail        services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail         services.Service[loginwithemail.Input, loginwithemail.Result]
	LogOut                 services.Service[logout.Input, logout.Result]
	GetUserBySessionToken  services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
	UpdateUser             services.Service[updateuser.Input, updateuser.Result]
	ChangePassword         services.Service[changepassword.Input, changepassword.Result]
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]

	DeleteExpired services.Service[deleteexpired.Input, deleteexpired.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.PasswordPolicy,
		deps.Authenticator,
		deps.Now,
	)
	s.LogInWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: deps.Config.RateLimitLoginPerHour},
		loginwithemail.New(
			deps.Logger,
			deps.UserRepository,
			deps.SessionRepository,
			deps.PasswordHasher,
			deps.Authenticator,
		),
	)
	s.LogOut = logout.New(
		deps.Logger,
		deps.SessionRepository,
	)
	s.GetUserBySessionToken = auth.WithAuthentication(
		deps.Authenticator,
		getuserbysessiontoken.New(),
	)
	s.UpdateUser = auth.WithAuthentication(
		deps.Authenticator,
		updateuser.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.Now,
		),
	)
	s.ChangePassword = auth.WithAuthentication(
		deps.Authenticator,
		changepassword.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.PasswordPolicy,
		),
	)
	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: deps.Config.RateLimitPasswordResetPerHour},
		sendpasswordresettoken.NewWithTokenSending(
			deps.Logger,
			deps.PasswordResetTokenSender,
			deps.Config.NotificationTimeout,
			sendpasswordresettoken.New(
				deps.Logger,
				deps.UnitOfWork,
				deps.TokenGenerator,
				deps.Config.PasswordResetTTL,
				deps.Now,
			),
		),
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.PasswordPolicy,
		deps.Now,
	)

	s.DeleteExpired = deleteexpired.New(
		deps.Logger,
		deps.PasswordResetRepository,
		deps.SessionRepository,
		deps.Now,
	)

	return s
}
