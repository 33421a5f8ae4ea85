package logout

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
	EMAIL         = "test@test.test"
	PASSWORD_HASH = "test-password-hash"
	SESSION_TOKEN = "test-session-token"
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	UserRepository    *user.FakeUserRepository
	SessionRepository *user.FakeSessionRepository
	Authenticator     *auth.Authenticator
	Service           services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.SessionRepository = user.NewFakeSessionRepository()
	suite.Authenticator = auth.NewAuthenticator(
		suite.Logger,
		suite.SessionRepository,
		suite.UserRepository,
		user.NewFakeTokenGenerator(SESSION_TOKEN),
		time.Hour,
		func() time.Time { return NOW },
	)
	suite.Service = New(
		suite.Logger,
		suite.SessionRepository,
	)
}

func TestLogOutService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	s.createUserAndSession()

	_, err := s.Service.Run(
		context.Background(),
		Input{Token: c.NewOptional(user.SessionToken(SESSION_TOKEN), true)},
	)
	s.Nil(err)

	_, err = s.Authenticator.Authenticate(
		context.Background(),
		c.NewOptional(user.SessionToken(SESSION_TOKEN), true),
	)
	s.ErrorIs(err, user.ErrInvalidSession)
}

func (s *testSuite) TestErrorReturnedIfSessionTokenInvalid() {
	s.createUserAndSession()

	_, err := s.Service.Run(
		context.Background(),
		Input{Token: c.NewOptional(user.SessionToken("invalid-session-token"), true)},
	)
	s.ErrorIs(err, user.ErrInvalidSession)
	s.Equal(1, s.SessionRepository.Count())
}

func (s *testSuite) TestErrorReturnedIfSessionTokenAbsent() {
	s.createUserAndSession()

	_, err := s.Service.Run(context.Background(), Input{})
	s.ErrorIs(err, user.ErrNoSession)
	s.Equal(1, s.SessionRepository.Count())
}

func (s *testSuite) TestRevokingTwiceFails() {
	s.createUserAndSession()
	input := Input{Token: c.NewOptional(user.SessionToken(SESSION_TOKEN), true)}

	_, err := s.Service.Run(context.Background(), input)
	s.Require().NoError(err)
	_, err = s.Service.Run(context.Background(), input)
	s.ErrorIs(err, user.ErrInvalidSession)
}

func (s *testSuite) createUserAndSession() user.User {
	s.T().Helper()
	u, err := s.UserRepository.Create(
		context.Background(),
		user.CreateUserInput{
			Email:        c.NewEmail(EMAIL),
			Username:     user.Username("test"),
			PasswordHash: user.PasswordHash(PASSWORD_HASH),
			CreatedAt:    NOW,
		},
	)
	if err != nil {
		s.FailNow(err.Error())
	}

	_, err = s.Authenticator.Establish(context.Background(), s.SessionRepository, u.ID)
	if err != nil {
		s.FailNow(err.Error())
	}
	s.Equal(1, s.SessionRepository.Count())
	return u
}
