package me

import (
	"context"
	c "inboxflow/internal/core/domain/common"
	"inboxflow/internal/core/domain/logging"
	"inboxflow/internal/core/domain/user"
	authservice "inboxflow/internal/core/services/auth"
	service "inboxflow/internal/core/services/get_user_by_session_token"
	"inboxflow/internal/http/handlers/auth"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	Users    *user.FakeUserRepository
	Sessions *user.FakeSessionRepository
	Now      time.Time
	Handler  *Handler
}

func (s *testSuite) SetupTest() {
	s.Users = user.NewFakeUserRepository()
	s.Sessions = user.NewFakeSessionRepository()
	s.Now = time.Now().UTC()
	now := func() time.Time { return s.Now }
	authenticator := authservice.NewAuthenticator(
		logging.NewFakeLogger(),
		s.Sessions,
		s.Users,
		user.NewFakeTokenGenerator("session-token"),
		time.Hour,
		now,
	)
	s.Handler = New(
		authservice.WithAuthentication(authenticator, service.New()),
		auth.NewSessionCookie("session", false, now),
	)

	u, err := s.Users.Create(context.Background(), user.CreateUserInput{
		Email:        c.NewEmail("alice@example.com"),
		Username:     user.Username("alice"),
		Name:         "Alice",
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    s.Now,
	})
	s.Require().NoError(err)
	_, err = authenticator.Establish(context.Background(), s.Sessions, u.ID)
	s.Require().NoError(err)
}

func TestMeHandler(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) serve(token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	rw := httptest.NewRecorder()
	s.Handler.ServeHTTP(rw, r)
	return rw
}

func (s *testSuite) TestCurrentUserRendered() {
	rw := s.serve("session-token")

	s.Equal(http.StatusOK, rw.Code)
	s.JSONEq(
		`{"user": {"id": "1", "email": "alice@example.com", "username": "alice", "name": "Alice"}}`,
		rw.Body.String(),
	)
}

func (s *testSuite) TestUnauthenticated() {
	cases := []struct {
		id      string
		token   string
		shift   time.Duration
		message string
	}{
		{id: "no-session", message: "authentication required"},
		{id: "unknown", token: "unknown", message: "invalid session"},
		{id: "expired", token: "session-token", shift: 2 * time.Hour, message: "session has expired"},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			now := s.Now
			s.Now = s.Now.Add(testcase.shift)
			defer func() { s.Now = now }()

			rw := s.serve(testcase.token)

			s.Equal(http.StatusUnauthorized, rw.Code)
			s.JSONEq(`{"message": "`+testcase.message+`"}`, rw.Body.String())
		})
	}
}

func (s *testSuite) TestStoreError() {
	s.Sessions.ReturnError = true
	rw := s.serve("session-token")

	s.Equal(http.StatusInternalServerError, rw.Code)
}
