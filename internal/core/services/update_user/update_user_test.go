package updateuser

import (
	"context"
	c "inboxflow/internal/core/domain/common"
	"inboxflow/internal/core/domain/logging"
	uow "inboxflow/internal/core/domain/unit_of_work"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UnitOfWork     *uow.FakeUnitOfWork
	UserRepository *user.FakeUserRepository
	Resets         *user.FakePasswordResetRepository
	Now            time.Time
	Service        services.Service[Input, Result]
	Alice          user.User
	Bob            user.User
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.UnitOfWork = uow.NewFakeUnitOfWork()
	s.UserRepository = s.UnitOfWork.Context.UserRepository
	s.Resets = s.UnitOfWork.Context.PasswordResetRepository
	s.Now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Service = New(s.Logger, s.UnitOfWork, func() time.Time { return s.Now })
	s.Alice = s.createUser("alice@example.com", "alice")
	s.Bob = s.createUser("bob@example.com", "bob")
}

func TestUpdateUserService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createUser(email string, username string) user.User {
	u, err := s.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewEmail(email),
		Username:     user.Username(username),
		Name:         username,
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    time.Now().UTC(),
	})
	s.Require().NoError(err)
	return u
}

func (s *testSuite) TestOnlyPresentFieldsUpdated() {
	result, err := s.Service.Run(context.Background(), Input{
		UserID: s.Alice.ID,
		Name:   c.NewOptional("Alice Liddell", true),
	})

	s.Require().NoError(err)
	s.Equal("Alice Liddell", result.User.Name)
	s.Equal(s.Alice.Email, result.User.Email)
	s.Equal(s.Alice.Username, result.User.Username)
	s.Equal(s.Alice.PasswordHash, result.User.PasswordHash)
}

func (s *testSuite) TestEmailAndUsernameUpdated() {
	result, err := s.Service.Run(context.Background(), Input{
		UserID:   s.Alice.ID,
		Email:    c.NewOptional(c.NewEmail("alice@wonderland.org"), true),
		Username: c.NewOptional(user.Username("liddell"), true),
	})

	s.Require().NoError(err)
	s.Equal(c.Email("alice@wonderland.org"), result.User.Email)
	s.Equal(user.Username("liddell"), result.User.Username)
}

func (s *testSuite) issueReset(u user.User) {
	_, err := s.Resets.Create(context.Background(), user.CreatePasswordResetInput{
		UserID:    u.ID,
		Token:     user.PasswordResetToken("token-" + string(u.Username)),
		CreatedAt: s.Now,
		ExpiresAt: s.Now.Add(time.Hour),
	})
	s.Require().NoError(err)
}

func (s *testSuite) TestEmailChangeInvalidatesResetTokens() {
	s.issueReset(s.Alice)
	s.issueReset(s.Bob)

	_, err := s.Service.Run(context.Background(), Input{
		UserID: s.Alice.ID,
		Email:  c.NewOptional(c.NewEmail("alice@wonderland.org"), true),
	})

	s.Require().NoError(err)
	s.True(s.UnitOfWork.Context.WasCommitCalled)
	s.Equal(0, s.Resets.ActiveCount(s.Alice.ID, s.Now))
	s.Equal(1, s.Resets.ActiveCount(s.Bob.ID, s.Now))
}

func (s *testSuite) TestResetTokensKeptWhenEmailUnchanged() {
	s.issueReset(s.Alice)

	cases := []struct {
		id    string
		input Input
	}{
		{id: "name-only", input: Input{UserID: s.Alice.ID, Name: c.NewOptional("Alice Liddell", true)}},
		{id: "same-email", input: Input{UserID: s.Alice.ID, Email: c.NewOptional(c.NewEmail("Alice@Example.com"), true)}},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.Service.Run(context.Background(), testcase.input)
			s.Require().NoError(err)
			s.Equal(1, s.Resets.ActiveCount(s.Alice.ID, s.Now))
		})
	}
}

func (s *testSuite) TestInvalidationErrorRollsBack() {
	s.issueReset(s.Alice)
	s.Resets.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{
		UserID: s.Alice.ID,
		Email:  c.NewOptional(c.NewEmail("alice@wonderland.org"), true),
	})

	s.Error(err)
	s.False(s.UnitOfWork.Context.WasCommitCalled)
	s.True(s.UnitOfWork.Context.WasRollbackCalled)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}

func (s *testSuite) TestConflicts() {
	cases := []struct {
		id    string
		input Input
		err   error
	}{
		{
			id:    "email",
			input: Input{UserID: s.Alice.ID, Email: c.NewOptional(s.Bob.Email, true)},
			err:   user.ErrEmailAlreadyExists,
		},
		{
			id:    "username",
			input: Input{UserID: s.Alice.ID, Username: c.NewOptional(s.Bob.Username, true)},
			err:   user.ErrUsernameAlreadyExists,
		},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.Service.Run(context.Background(), testcase.input)
			s.ErrorIs(err, testcase.err)

			u, err := s.UserRepository.GetByID(context.Background(), s.Alice.ID)
			s.Require().NoError(err)
			s.Equal(s.Alice, u)
		})
	}
}

func (s *testSuite) TestStoreErrorLogged() {
	s.UserRepository.ReturnError = true
	_, err := s.Service.Run(context.Background(), Input{
		UserID: s.Alice.ID,
		Name:   c.NewOptional("x", true),
	})

	s.Error(err)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}
