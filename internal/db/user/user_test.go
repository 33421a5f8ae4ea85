package user

import (
	"context"
	"errors"
	c "inboxflow/internal/core/domain/common"
	"inboxflow/internal/core/domain/user"
	"inboxflow/internal/db"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL         = "test@test.test"
	USERNAME      = "test"
	PASSWORD_HASH = "test-password-hash"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestCreateSuccess() {
	input := user.CreateUserInput{
		Email:        c.NewEmail(EMAIL),
		Username:     user.Username(USERNAME),
		Name:         "Test",
		PasswordHash: user.PasswordHash(PASSWORD_HASH),
		CreatedAt:    NOW,
	}
	u, err := suite.repo.Create(context.Background(), input)

	assert := suite.Require()
	assert.Nil(err)
	assert.NotEqual(user.ID(0), u.ID)
	assert.Equal(input.Email, u.Email)
	assert.Equal(input.Username, u.Username)
	assert.Equal(input.Name, u.Name)
	assert.Equal(input.PasswordHash, u.PasswordHash)
	assert.True(input.CreatedAt.Equal(u.CreatedAt))
}

func (suite *testSuite) TestConflicts() {
	suite.createUser()

	cases := []struct {
		id    string
		input user.CreateUserInput
		err   error
	}{
		{
			id: "email",
			input: user.CreateUserInput{
				Email:        c.Email("TEST@test.test"),
				Username:     user.Username("other"),
				PasswordHash: user.PasswordHash(PASSWORD_HASH),
				CreatedAt:    NOW,
			},
			err: user.ErrEmailAlreadyExists,
		},
		{
			id: "username",
			input: user.CreateUserInput{
				Email:        c.NewEmail("other@test.test"),
				Username:     user.Username(USERNAME),
				PasswordHash: user.PasswordHash(PASSWORD_HASH),
				CreatedAt:    NOW,
			},
			err: user.ErrUsernameAlreadyExists,
		},
	}
	for _, testcase := range cases {
		suite.Run(testcase.id, func() {
			_, err := suite.repo.Create(context.Background(), testcase.input)
			suite.ErrorIs(err, testcase.err)
		})
	}
}

func (s *testSuite) TestGetByEmailIsCaseInsensitive() {
	created := s.createUser()

	u, err := s.repo.GetByEmail(context.Background(), c.Email("Test@Test.Test"))
	s.Require().NoError(err)
	s.Equal(created.ID, u.ID)

	_, err = s.repo.GetByEmail(context.Background(), c.Email("unknown@test.test"))
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestUpdate() {
	created := s.createUser()

	updated, err := s.repo.Update(context.Background(), user.UpdateUserInput{
		ID:   created.ID,
		Name: c.NewOptional("New Name", true),
	})
	s.Require().NoError(err)
	s.Equal("New Name", updated.Name)
	s.Equal(created.Email, updated.Email)
	s.Equal(created.Username, updated.Username)

	updated, err = s.repo.Update(context.Background(), user.UpdateUserInput{
		ID:       created.ID,
		Email:    c.NewOptional(c.NewEmail("new@test.test"), true),
		Username: c.NewOptional(user.Username("new"), true),
	})
	s.Require().NoError(err)
	s.Equal(c.Email("new@test.test"), updated.Email)
	s.Equal(user.Username("new"), updated.Username)
	s.Equal("New Name", updated.Name)
}

func (s *testSuite) TestUpdateConflict() {
	created := s.createUser()
	other, err := s.repo.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewEmail("other@test.test"),
		Username:     user.Username("other"),
		PasswordHash: user.PasswordHash(PASSWORD_HASH),
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)

	_, err = s.repo.Update(context.Background(), user.UpdateUserInput{
		ID:    created.ID,
		Email: c.NewOptional(other.Email, true),
	})
	s.ErrorIs(err, user.ErrEmailAlreadyExists)

	_, err = s.repo.Update(context.Background(), user.UpdateUserInput{
		ID:   user.ID(111222333),
		Name: c.NewOptional("x", true),
	})
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestSetPassword() {
	u := s.createUser()

	newPassword := user.PasswordHash("new-password-hash")
	err := s.repo.SetPassword(context.Background(), u.ID, newPassword)
	s.Nil(err)
	userAfterUpdate := s.getUserByID(u.ID)
	s.Equal(newPassword, userAfterUpdate.PasswordHash)
}

func (s *testSuite) TestSetPasswordReturnsErrorIfUserDoesNotExist() {
	u := s.createUser()

	newPassword := user.PasswordHash("new-password-hash")
	err := s.repo.SetPassword(context.Background(), user.ID(111222333), newPassword)
	s.True(errors.Is(err, user.ErrUserDoesNotExist))

	userAfterUpdate := s.getUserByID(u.ID)
	s.Equal(u, userAfterUpdate)
}

func (s *testSuite) createUser() user.User {
	s.T().Helper()
	return createUser(s.T(), s.repo)
}

func (s *testSuite) getUserByID(id user.ID) user.User {
	s.T().Helper()
	u, err := s.repo.GetByID(context.Background(), id)
	if err != nil {
		s.FailNowf("could not get user by ID", "id: %v, err: %v", id, err)
	}
	return u
}

func createUser(t *testing.T, repo *PgxUserRepository) user.User {
	t.Helper()
	u, err := repo.Create(
		context.Background(),
		user.CreateUserInput{
			Email:        c.NewEmail(EMAIL),
			Username:     user.Username(USERNAME),
			PasswordHash: user.PasswordHash(PASSWORD_HASH),
			CreatedAt:    NOW,
		},
	)
	if err != nil {
		t.Fatalf("could not create user: %v", err)
	}
	return u
}
