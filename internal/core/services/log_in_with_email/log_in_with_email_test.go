package loginwithemail

import (
	"context"
	c "inboxflow/internal/core/domain/common"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"inboxflow/internal/core/services/auth"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = c.Email("alice@example.com")
	PASSWORD      = user.RawPassword("test-password")
	SESSION_TOKEN = "test-session-token"
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	UserRepository    *user.FakeUserRepository
	SessionRepository *user.FakeSessionRepository
	PasswordHasher    *user.FakePasswordHasher
	Service           services.Service[Input, Result]
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.UserRepository = user.NewFakeUserRepository()
	s.SessionRepository = user.NewFakeSessionRepository()
	s.PasswordHasher = user.NewFakePasswordHasher()
	now := func() time.Time { return NOW }
	s.Service = New(
		s.Logger,
		s.UserRepository,
		s.SessionRepository,
		s.PasswordHasher,
		auth.NewAuthenticator(
			s.Logger,
			s.SessionRepository,
			s.UserRepository,
			user.NewFakeTokenGenerator(SESSION_TOKEN),
			time.Hour,
			now,
		),
	)

	hash, err := s.PasswordHasher.HashPassword(PASSWORD)
	s.Require().NoError(err)
	_, err = s.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		Username:     user.Username("alice"),
		Name:         "Alice",
		PasswordHash: hash,
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)
}

func TestLogInWithEmailService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	result, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: PASSWORD})

	s.Require().NoError(err)
	s.Equal(EMAIL, result.User.Email)
	s.Equal(user.SessionToken(SESSION_TOKEN), result.Session.Token)
	s.Equal(result.User.ID, result.Session.UserID)
	s.Equal(1, s.SessionRepository.Count())
}

func (s *testSuite) TestInvalidCredentials() {
	cases := []struct {
		id       string
		email    c.Email
		password user.RawPassword
	}{
		{id: "wrong-password", email: EMAIL, password: user.RawPassword("wrong-password")},
		{id: "unknown-email", email: c.Email("bob@example.com"), password: PASSWORD},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.Service.Run(
				context.Background(),
				Input{Email: testcase.email, Password: testcase.password},
			)
			s.ErrorIs(err, user.ErrInvalidCredentials)
			s.Equal(0, s.SessionRepository.Count())
		})
	}
}

func (s *testSuite) TestRateLimitKeyIsPerEmail() {
	s.Equal("log-in-with-email::alice@example.com", Input{Email: EMAIL}.GetRateLimitKey())
}

func (s *testSuite) TestSessionStoreError() {
	s.SessionRepository.ReturnError = true
	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: PASSWORD})

	s.Error(err)
	s.NotErrorIs(err, user.ErrInvalidCredentials)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}
