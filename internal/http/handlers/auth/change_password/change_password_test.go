package changepassword

import (
	"context"
	c "inboxflow/internal/core/domain/common"
	"inboxflow/internal/core/domain/user"
	changepassword "inboxflow/internal/core/services/change_password"
	"inboxflow/internal/http/handlers/auth"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubService struct {
	input changepassword.Input
	err   error
}

func (s *stubService) Run(ctx context.Context, input changepassword.Input) (changepassword.Result, error) {
	s.input = input
	return changepassword.Result{}, s.err
}

func serve(stub *stubService, body string) *httptest.ResponseRecorder {
	handler := New(stub, auth.NewSessionCookie("session", false, time.Now))
	r := httptest.NewRequest(http.MethodPut, "/api/auth/password", strings.NewReader(body))
	r.Header.Set("Authorization", "Bearer session-token")
	rw := httptest.NewRecorder()
	handler.ServeHTTP(rw, r)
	return rw
}

func TestPasswordChanged(t *testing.T) {
	stub := &stubService{}
	rw := serve(stub, `{"current_password": "old-password", "new_password": "new-password"}`)

	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{"message": "password changed"}`, rw.Body.String())
	require.Equal(t, user.RawPassword("old-password"), stub.input.CurrentPassword)
	require.Equal(t, user.RawPassword("new-password"), stub.input.NewPassword)
	require.Equal(t, c.NewOptional(user.SessionToken("session-token"), true), stub.input.GetSessionToken())
}

func TestErrors(t *testing.T) {
	weak := user.NewPasswordPolicy(8).Validate(user.RawPassword("short"))
	require.Error(t, weak)

	cases := []struct {
		id     string
		body   string
		err    error
		status int
	}{
		{id: "malformed", body: `{`, status: http.StatusBadRequest},
		{id: "missing-current", body: `{"new_password": "new-password"}`, status: http.StatusBadRequest},
		{id: "unauthenticated", body: `{"current_password": "a", "new_password": "b"}`, err: user.ErrExpiredSession, status: http.StatusUnauthorized},
		{id: "invalid-current", body: `{"current_password": "a", "new_password": "b"}`, err: user.ErrInvalidCredentials, status: http.StatusBadRequest},
		{id: "weak", body: `{"current_password": "a", "new_password": "b"}`, err: weak, status: http.StatusBadRequest},
		{id: "internal", body: `{"current_password": "a", "new_password": "b"}`, err: context.DeadlineExceeded, status: http.StatusInternalServerError},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			rw := serve(&stubService{err: testcase.err}, testcase.body)
			require.Equal(t, testcase.status, rw.Code)
		})
	}
}
