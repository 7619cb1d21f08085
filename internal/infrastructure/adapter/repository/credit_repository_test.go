package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/model"
)

func TestCreditRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("should lazily create a zero row once", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 42)

		first, err := env.credits.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(0), first.Credits)
		assert.True(t, first.LastUpdated.Equal(env.clock.Now()))

		env.clock.Advance(time.Minute)
		second, err := env.credits.Get(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(0), second.Credits)
		assert.True(t, second.LastUpdated.Equal(first.LastUpdated), "read must not touch last_updated")
		assert.Equal(t, int64(1), env.tdb.CountCredits(t))
	})

	t.Run("should fail for unknown user without creating a row", func(t *testing.T) {
		env := newTestEnv(t)

		credit, err := env.credits.Get(ctx, 999)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
		assert.Nil(t, credit)
		assert.Equal(t, int64(0), env.tdb.CountCredits(t))
	})
}

func TestCreditRepository_Ensure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.tdb.CreateTestUser(t, 1)
	env.tdb.SetCredits(t, 1, 30)

	require.NoError(t, env.credits.Ensure(ctx, 1))
	require.NoError(t, env.credits.Ensure(ctx, 1))

	credit, err := env.credits.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(30), credit.Credits, "ensure must not overwrite an existing row")

	assert.ErrorIs(t, env.credits.Ensure(ctx, 2), errs.ErrUserNotFound)
}

func TestCreditRepository_Scenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.tdb.CreateTestUser(t, 42)

	credit, err := env.credits.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credit.Credits)

	env.clock.Advance(time.Second)
	credit, err = env.credits.Add(ctx, 42, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), credit.Credits)
	assert.True(t, credit.LastUpdated.Equal(env.clock.Now()))
	stamped := credit.LastUpdated

	env.clock.Advance(time.Second)
	credit, err = env.credits.Deduct(ctx, 42, 10)
	assert.Nil(t, credit)
	require.ErrorIs(t, err, errs.ErrInsufficientBalance)
	var ibe *errs.InsufficientBalanceError
	require.True(t, errors.As(err, &ibe))
	assert.Equal(t, int64(7), ibe.Available)
	assert.Equal(t, int64(10), ibe.Amount)

	credit, err = env.credits.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(7), credit.Credits)
	assert.True(t, credit.LastUpdated.Equal(stamped), "failed deduct must not change the row")
}

func TestCreditRepository_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject non-positive amounts", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)

		for _, amount := range []int64{0, -5} {
			_, err := env.credits.Add(ctx, 1, amount)
			assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		}
		assert.Equal(t, int64(0), env.tdb.CountCredits(t))
	})

	t.Run("should create row for user seen for the first time", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)

		credit, err := env.credits.Add(ctx, 1, 3)

		require.NoError(t, err)
		assert.Equal(t, int64(3), credit.Credits)
	})

	t.Run("should fail for unknown user", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.credits.Add(ctx, 5, 3)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestCreditRepository_Deduct(t *testing.T) {
	ctx := context.Background()

	t.Run("should allow deducting the whole balance", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)
		env.tdb.SetCredits(t, 1, 8)

		credit, err := env.credits.Deduct(ctx, 1, 8)

		require.NoError(t, err)
		assert.Equal(t, int64(0), credit.Credits)
	})

	t.Run("should reject invalid amount", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)

		_, err := env.credits.Deduct(ctx, 1, 0)

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("should fail for unknown user", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.credits.Deduct(ctx, 1, 1)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestCreditRepository_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("should zero the balance", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)
		env.tdb.SetCredits(t, 1, 99)

		env.clock.Advance(time.Hour)
		credit, err := env.credits.Reset(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(0), credit.Credits)
		assert.True(t, credit.LastUpdated.Equal(env.clock.Now()))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)
		env.tdb.SetCredits(t, 1, 12)

		first, err := env.credits.Reset(ctx, 1)
		require.NoError(t, err)
		second, err := env.credits.Reset(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, first.Credits, second.Credits)
		assert.Equal(t, int64(0), second.Credits)
		assert.Equal(t, int64(1), env.tdb.CountCredits(t))
	})

	t.Run("should fail for unknown user", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.credits.Reset(ctx, 2)

		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestCreditRepository_DeductThenAddRestoresBalance(t *testing.T) {
	ctx := context.Background()

	for _, amount := range []int64{1, 7, 20} {
		t.Run(fmt.Sprintf("amount %d", amount), func(t *testing.T) {
			env := newTestEnv(t)
			env.tdb.CreateTestUser(t, 1)
			env.tdb.SetCredits(t, 1, 20)

			_, err := env.credits.Deduct(ctx, 1, amount)
			require.NoError(t, err)
			credit, err := env.credits.Add(ctx, 1, amount)
			require.NoError(t, err)

			assert.Equal(t, int64(20), credit.Credits)
		})
	}
}

func TestCreditRepository_AddToAll(t *testing.T) {
	ctx := context.Background()

	t.Run("should touch only existing rows", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1) // A
		env.tdb.CreateTestUser(t, 2) // B
		env.tdb.CreateTestUser(t, 3) // C, never referenced
		env.tdb.SetCredits(t, 1, 10)
		env.tdb.SetCredits(t, 2, 0)

		env.clock.Advance(time.Hour)
		rows, err := env.credits.AddToAll(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, int64(2), rows)
		assert.Equal(t, int64(2), env.tdb.CountCredits(t), "no row may be created for C")

		a, err := env.credits.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(15), a.Credits)
		assert.True(t, a.LastUpdated.Equal(env.clock.Now()))

		b, err := env.credits.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), b.Credits)
	})

	t.Run("should report zero rows on empty ledger", func(t *testing.T) {
		env := newTestEnv(t)

		rows, err := env.credits.AddToAll(ctx, 5)

		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
	})

	t.Run("should accept zero delta", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)
		env.tdb.SetCredits(t, 1, 10)

		env.clock.Advance(time.Hour)
		rows, err := env.credits.AddToAll(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		credit, err := env.credits.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), credit.Credits)
		assert.True(t, credit.LastUpdated.Equal(env.clock.Now()))
	})

	t.Run("should apply negative delta when every row covers it", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)
		env.tdb.SetCredits(t, 1, 10)

		rows, err := env.credits.AddToAll(ctx, -3)

		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		credit, err := env.credits.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(7), credit.Credits)
	})

	t.Run("should reject negative delta that would overdraw a row", func(t *testing.T) {
		env := newTestEnv(t)
		env.tdb.CreateTestUser(t, 1)
		env.tdb.CreateTestUser(t, 2)
		env.tdb.SetCredits(t, 1, 10)
		env.tdb.SetCredits(t, 2, 2)

		rows, err := env.credits.AddToAll(ctx, -3)

		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
		assert.Zero(t, rows)

		a, err := env.credits.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), a.Credits, "the sweep is all or nothing")
		b, err := env.credits.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), b.Credits)
	})
}

// The in-memory SQLite pool holds one connection, so these writers are
// serialized by the pool. Row-lock contention is covered by the Postgres
// tests under the integration build tag.
func TestCreditRepository_ConcurrentAdds(t *testing.T) {
	for _, n := range []int{2, 10, 100} {
		t.Run(fmt.Sprintf("%d writers", n), func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv(t)
			env.tdb.CreateTestUser(t, 7)

			var wg sync.WaitGroup
			errCh := make(chan error, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := env.credits.Add(ctx, 7, 1); err != nil {
						errCh <- err
					}
				}()
			}
			wg.Wait()
			close(errCh)

			for err := range errCh {
				require.NoError(t, err)
			}

			credit, err := env.credits.Get(ctx, 7)
			require.NoError(t, err)
			assert.Equal(t, int64(n), credit.Credits)
		})
	}
}

func TestCreditRepository_BonusConcurrentWithAdd(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.tdb.CreateTestUser(t, 1)
	env.tdb.SetCredits(t, 1, 10)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := env.credits.AddToAll(ctx, 5)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := env.credits.Add(ctx, 1, 3)
		assert.NoError(t, err)
	}()
	wg.Wait()

	credit, err := env.credits.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(18), credit.Credits)
}

func TestCreditRepository_DeductNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.tdb.CreateTestUser(t, 1)
	env.tdb.SetCredits(t, 1, 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.credits.Deduct(ctx, 1, 1)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	credit, err := env.credits.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credit.Credits)
}

func TestCreditRepository_Schema(t *testing.T) {
	env := newTestEnv(t)
	env.tdb.CreateTestUser(t, 1)
	env.tdb.SetCredits(t, 1, 4)

	t.Run("check constraint rejects negative credits", func(t *testing.T) {
		err := env.tdb.DB().Exec("UPDATE credits SET credits = -1 WHERE user_id = ?", 1).Error
		assert.Error(t, err)
	})

	t.Run("users exist without a credit row", func(t *testing.T) {
		env.tdb.CreateTestUser(t, 2)
		exists, err := env.users.Exists(context.Background(), 2)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, int64(1), env.tdb.CountCredits(t))
	})

	t.Run("credit row requires an existing user", func(t *testing.T) {
		row := model.Credit{UserID: 99, LastUpdated: env.clock.Now()}
		err := env.tdb.DB().Create(&row).Error
		require.Error(t, err)
		assert.True(t, env.tdb.Manager.ErrorMapper().IsForeignKeyViolation(err))
	})

	t.Run("credit row is removed with its user", func(t *testing.T) {
		require.NoError(t, env.tdb.DB().Where("user_id = ?", 1).Delete(&model.User{}).Error)
		assert.Equal(t, int64(0), env.tdb.CountCredits(t))

		exists, err := env.users.Exists(context.Background(), 2)
		require.NoError(t, err)
		assert.True(t, exists, "deleting a credit owner leaves other users alone")
	})
}
