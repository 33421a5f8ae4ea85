package auth

import (
	"context"
	"errors"
	c "inboxflow/internal/core/domain/common"
	e "inboxflow/internal/core/domain/errors"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	"time"
)

// Authenticator resolves session credentials to users and issues new sessions.
type Authenticator struct {
	log               logging.Logger
	sessionRepository user.SessionRepository
	userRepository    user.UserRepository
	tokenGenerator    user.SessionTokenGenerator
	sessionTTL        time.Duration
	now               func() time.Time
}

func NewAuthenticator(
	log logging.Logger,
	sessionRepository user.SessionRepository,
	userRepository user.UserRepository,
	tokenGenerator user.SessionTokenGenerator,
	sessionTTL time.Duration,
	now func() time.Time,
) *Authenticator {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Authenticator{
		log:               log,
		sessionRepository: sessionRepository,
		userRepository:    userRepository,
		tokenGenerator:    tokenGenerator,
		sessionTTL:        sessionTTL,
		now:               now,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, token c.Optional[user.SessionToken]) (u user.User, err error) {
	if !token.IsPresent || token.Value == "" {
		return u, user.ErrNoSession
	}
	session, err := a.sessionRepository.GetByToken(ctx, token.Value)
	if errors.Is(err, user.ErrSessionDoesNotExist) {
		return u, user.ErrInvalidSession
	}
	if err != nil {
		logging.Error(ctx, a.log, err)
		return u, err
	}
	if session.IsExpired(a.now()) {
		return u, user.ErrExpiredSession
	}

	u, err = a.userRepository.GetByID(ctx, session.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		a.log.Warning(ctx, "Session refers to a missing user.", logging.Entry("userID", session.UserID))
		return u, user.ErrInvalidSession
	}
	if err != nil {
		logging.Error(ctx, a.log, err, logging.Entry("userID", session.UserID))
		return u, err
	}
	return u, nil
}

// Establish creates a new session for the user in the given repository,
// so it can take part in an already started unit of work.
func (a *Authenticator) Establish(
	ctx context.Context,
	sessionRepository user.SessionRepository,
	userID user.ID,
) (user.Session, error) {
	now := a.now()
	return sessionRepository.Create(ctx, user.CreateSessionInput{
		UserID:    userID,
		Token:     a.tokenGenerator.GenerateSessionToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(a.sessionTTL),
	})
}
