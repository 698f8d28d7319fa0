package testutil

import (
	"sync"
	"time"

	"github.com/photoshare/api/internal/model"
)

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewUser builds an account with an email login.
func NewUser(email, role string, active bool, hashedPassword string) *model.User {
	return &model.User{
		Email:          &email,
		HashedPassword: hashedPassword,
		Role:           role,
		IsActive:       active,
		RegisteredAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
