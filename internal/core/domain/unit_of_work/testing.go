package uow

import (
	"context"
	"fmt"
	"inboxflow/internal/core/domain/user"
	"sync"
)

type FakeUnitOfWorkContext struct {
	UserRepository          *user.FakeUserRepository
	SessionRepository       *user.FakeSessionRepository
	PasswordResetRepository *user.FakePasswordResetRepository
	WasRollbackCalled       bool
	WasCommitCalled         bool
	lock                    sync.Mutex
}

func NewFakeUnitOfWorkContext(
	userRepository *user.FakeUserRepository,
	sessionRepository *user.FakeSessionRepository,
	passwordResetRepository *user.FakePasswordResetRepository,
) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository:          userRepository,
		SessionRepository:       sessionRepository,
		PasswordResetRepository: passwordResetRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.WasCommitCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

func (c *FakeUnitOfWorkContext) Sessions() user.SessionRepository {
	return c.SessionRepository
}

func (c *FakeUnitOfWorkContext) PasswordResets() user.PasswordResetRepository {
	return c.PasswordResetRepository
}

type FakeUnitOfWork struct {
	Context     *FakeUnitOfWorkContext
	ReturnError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(
			user.NewFakeUserRepository(),
			user.NewFakeSessionRepository(),
			user.NewFakePasswordResetRepository(),
		),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnError {
		return nil, fmt.Errorf("could not begin unit of work")
	}
	return u.Context, nil
}
