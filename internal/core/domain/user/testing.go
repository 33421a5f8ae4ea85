package user

import (
	"context"
	"crypto/md5"
	"fmt"
	c "inboxflow/internal/core/domain/common"
	"io"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

// FakeTokenGenerator returns the configured tokens in order and then
// falls back to numbered tokens.
type FakeTokenGenerator struct {
	Tokens []string
	count  int
	lock   sync.Mutex
}

func NewFakeTokenGenerator(tokens ...string) *FakeTokenGenerator {
	return &FakeTokenGenerator{Tokens: tokens}
}

func (g *FakeTokenGenerator) next() string {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.count++
	if g.count <= len(g.Tokens) {
		return g.Tokens[g.count-1]
	}
	return fmt.Sprintf("test-token-%d", g.count)
}

func (g *FakeTokenGenerator) GenerateSessionToken() SessionToken {
	return SessionToken(g.next())
}

func (g *FakeTokenGenerator) GeneratePasswordResetToken() PasswordResetToken {
	return PasswordResetToken(g.next())
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input.Email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		if u.Username == input.Username {
			return u, ErrUsernameAlreadyExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %v", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmailForUpdate(ctx context.Context, email c.Email) (User, error) {
	return r.GetByEmail(ctx, email)
}

func (r *FakeUserRepository) Update(ctx context.Context, input UpdateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not update user %d", input.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, other := range r.Users {
		if other.ID == input.ID {
			continue
		}
		if input.Email.IsPresent && other.Email == input.Email.Value {
			return u, ErrEmailAlreadyExists
		}
		if input.Username.IsPresent && other.Username == input.Username.Value {
			return u, ErrUsernameAlreadyExists
		}
	}
	for ix, u := range r.Users {
		if u.ID == input.ID {
			if input.Email.IsPresent {
				r.Users[ix].Email = input.Email.Value
			}
			if input.Username.IsPresent {
				r.Users[ix].Username = input.Username.Value
			}
			if input.Name.IsPresent {
				r.Users[ix].Name = input.Name.Value
			}
			return r.Users[ix], nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakeSessionRepository struct {
	Sessions    map[SessionToken]Session
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeSessionRepository() *FakeSessionRepository {
	return &FakeSessionRepository{Sessions: make(map[SessionToken]Session)}
}

func (r *FakeSessionRepository) Create(ctx context.Context, input CreateSessionInput) (s Session, err error) {
	if r.ReturnError {
		return s, fmt.Errorf("could not create session for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	s = Session{
		Token:     input.Token,
		UserID:    input.UserID,
		CreatedAt: input.CreatedAt,
		ExpiresAt: input.ExpiresAt,
	}
	r.Sessions[input.Token] = s
	return s, nil
}

func (r *FakeSessionRepository) GetByToken(ctx context.Context, token SessionToken) (s Session, err error) {
	if r.ReturnError {
		return s, fmt.Errorf("could not get session")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	s, ok := r.Sessions[token]
	if !ok {
		return s, ErrSessionDoesNotExist
	}
	return s, nil
}

func (r *FakeSessionRepository) Delete(ctx context.Context, token SessionToken) (ID, error) {
	if r.ReturnError {
		return ID(0), fmt.Errorf("could not delete session")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	s, ok := r.Sessions[token]
	if !ok {
		return ID(0), ErrSessionDoesNotExist
	}
	delete(r.Sessions, token)
	return s.UserID, nil
}

func (r *FakeSessionRepository) DeleteByUserID(ctx context.Context, userID ID) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete sessions of user %d", userID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	count := int64(0)
	for token, s := range r.Sessions {
		if s.UserID == userID {
			delete(r.Sessions, token)
			count++
		}
	}
	return count, nil
}

func (r *FakeSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete expired sessions")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	count := int64(0)
	for token, s := range r.Sessions {
		if s.IsExpired(now) {
			delete(r.Sessions, token)
			count++
		}
	}
	return count, nil
}

func (r *FakeSessionRepository) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.Sessions)
}

type FakePasswordResetRepository struct {
	Resets      []PasswordReset
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetRepository() *FakePasswordResetRepository {
	return &FakePasswordResetRepository{}
}

func (r *FakePasswordResetRepository) Create(
	ctx context.Context,
	input CreatePasswordResetInput,
) (p PasswordReset, err error) {
	if r.ReturnError {
		return p, fmt.Errorf("could not create password reset for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Resets {
		if existing.UserID == input.UserID && !existing.IsConsumed() {
			return p, fmt.Errorf("user %d already has an unconsumed password reset token", input.UserID)
		}
	}
	p = PasswordReset{
		Token:     input.Token,
		UserID:    input.UserID,
		CreatedAt: input.CreatedAt,
		ExpiresAt: input.ExpiresAt,
	}
	r.Resets = append(r.Resets, p)
	return p, nil
}

func (r *FakePasswordResetRepository) GetByTokenForUpdate(
	ctx context.Context,
	token PasswordResetToken,
) (p PasswordReset, err error) {
	if r.ReturnError {
		return p, fmt.Errorf("could not get password reset")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, p := range r.Resets {
		if p.Token == token {
			return p, nil
		}
	}
	return p, ErrPasswordResetTokenNotFound
}

func (r *FakePasswordResetRepository) MarkConsumed(ctx context.Context, token PasswordResetToken, at time.Time) error {
	if r.ReturnError {
		return fmt.Errorf("could not mark password reset as consumed")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, p := range r.Resets {
		if p.Token != token {
			continue
		}
		if p.IsConsumed() {
			return ErrPasswordResetTokenAlreadyUsed
		}
		r.Resets[ix].ConsumedAt = c.NewOptional(at, true)
		return nil
	}
	return ErrPasswordResetTokenNotFound
}

func (r *FakePasswordResetRepository) InvalidateActive(ctx context.Context, userID ID, at time.Time) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not invalidate password resets of user %d", userID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	count := int64(0)
	for ix, p := range r.Resets {
		if p.UserID == userID && !p.IsConsumed() {
			r.Resets[ix].ConsumedAt = c.NewOptional(at, true)
			count++
		}
	}
	return count, nil
}

func (r *FakePasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete expired password resets")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := r.Resets[:0]
	count := int64(0)
	for _, p := range r.Resets {
		if p.IsExpired(now) {
			count++
			continue
		}
		kept = append(kept, p)
	}
	r.Resets = kept
	return count, nil
}

func (r *FakePasswordResetRepository) ActiveCount(userID ID, now time.Time) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	count := 0
	for _, p := range r.Resets {
		if p.UserID == userID && p.IsActive(now) {
			count++
		}
	}
	return count
}

type FakePasswordResetTokenSender struct {
	Sent        []PasswordResetToken
	SentTo      []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	user User,
	token PasswordResetToken,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, token)
	s.SentTo = append(s.SentTo, user)
	return nil
}

func (s *FakePasswordResetTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}
