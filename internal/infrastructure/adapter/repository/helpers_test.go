package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/logger"
)

// fakeClock is a settable clock safe for concurrent use
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	tdb     *database.TestDBManager
	clock   *fakeClock
	credits *CreditRepository
	users   *UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := newFakeClock(time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()
	tdb := database.NewTestDBManager(t, log, clock)
	mapper := tdb.Manager.ErrorMapper()

	return &testEnv{
		tdb:     tdb,
		clock:   clock,
		credits: NewCreditRepository(tdb.DB(), clock, log, mapper, database.DefaultRetryConfig()),
		users:   NewUserRepository(tdb.DB(), log, mapper),
	}
}
