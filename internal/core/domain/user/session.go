package user

import "time"

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type Session struct {
	Token     SessionToken
	UserID    ID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type SessionTokenGenerator interface {
	GenerateSessionToken() SessionToken
}
