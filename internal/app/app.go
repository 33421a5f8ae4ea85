package app

import (
	"fmt"
	"inboxflow/internal/app/deps"
	"inboxflow/internal/app/services"
	"inboxflow/internal/http/handlers/auth"
	changepassword "inboxflow/internal/http/handlers/auth/change_password"
	loginwithemail "inboxflow/internal/http/handlers/auth/log_in_with_email"
	logout "inboxflow/internal/http/handlers/auth/log_out"
	"inboxflow/internal/http/handlers/auth/me"
	resetpassword "inboxflow/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "inboxflow/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "inboxflow/internal/http/handlers/auth/sign_up_with_email"
	"inboxflow/internal/http/handlers/tracing"
	updateuser "inboxflow/internal/http/handlers/user/update_user"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	cookie := auth.NewSessionCookie(
		deps.Config.SessionCookieName,
		deps.Config.SessionCookieSecure,
		deps.Now,
	)
	return &http.Server{
		Handler:           NewRouter(deps.Config.AllowedOrigins, cookie, s),
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(allowedOrigins []string, cookie auth.SessionCookie, s *services.Services) http.Handler {
	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/register", signupwithemail.New(s.SignUpWithEmail, cookie))
	authRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail, cookie))
	authRouter.Method(http.MethodPost, "/logout", logout.New(s.LogOut, cookie))
	authRouter.Method(http.MethodGet, "/me", me.New(s.GetUserBySessionToken, cookie))
	authRouter.Method(http.MethodPut, "/me", updateuser.New(s.UpdateUser, cookie))
	authRouter.Method(http.MethodPut, "/password", changepassword.New(s.ChangePassword, cookie))
	authRouter.Method(http.MethodPost, "/forgot-password", sendpasswordresettoken.New(s.SendPasswordResetToken))
	authRouter.Method(http.MethodPost, "/reset-password", resetpassword.New(s.ResetPassword))

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", tracing.TRACE_ID_HEADER},
		ExposedHeaders:   []string{tracing.TRACE_ID_HEADER},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Use(tracing.SetTraceIDToContext)
	router.Mount("/api/auth", authRouter)

	return router
}
