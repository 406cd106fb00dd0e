package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type countingChecker struct {
	inner CredentialChecker
	calls int
}

func (c *countingChecker) Check(ctx context.Context, email, password string) (*Account, error) {
	c.calls++
	return c.inner.Check(ctx, email, password)
}

func newDirectory(t *testing.T) *StaffDirectory {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewStaffDirectory(Account{Email: "a@b.com", Role: RoleStaff, PasswordHash: string(hash)})
}

func TestLoginGuard_LockoutSkipsPasswordCheck(t *testing.T) {
	checker := &countingChecker{inner: newDirectory(t)}
	tracker, _ := newTestTracker()
	guard := NewLoginGuard(tracker, checker)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := guard.Login(ctx, "a@b.com", "wrong", "1.2.3.4")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, 5, checker.calls)

	_, err := guard.Login(ctx, "a@b.com", "s3cret", "1.2.3.4")
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, 5, checker.calls, "locked attempt must not reach the checker")
}

func TestLoginGuard_SuccessClearsRecord(t *testing.T) {
	tracker, _ := newTestTracker()
	guard := NewLoginGuard(tracker, newDirectory(t))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = guard.Login(ctx, "a@b.com", "wrong", "1.2.3.4")
	}
	acc, err := guard.Login(ctx, "a@b.com", "s3cret", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, acc.Role)

	_, err = guard.Login(ctx, "a@b.com", "wrong", "1.2.3.4")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, tracker.IsBlocked("a@b.com", "1.2.3.4"))
}

type failingChecker struct{}

func (failingChecker) Check(ctx context.Context, email, password string) (*Account, error) {
	return nil, errors.New("directory unavailable")
}

func TestLoginGuard_BackendErrorIsNotAFailure(t *testing.T) {
	tracker, _ := newTestTracker()
	guard := NewLoginGuard(tracker, failingChecker{})

	for i := 0; i < 10; i++ {
		_, err := guard.Login(context.Background(), "a@b.com", "x", "1.2.3.4")
		assert.EqualError(t, err, "directory unavailable")
	}
	assert.False(t, tracker.IsBlocked("a@b.com", "1.2.3.4"))
}

func TestParseStaffAccounts(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	dir, err := ParseStaffAccounts("Chef@Shop.com:staff:" + string(hash) + ", ")
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Len())

	acc, err := dir.Check(context.Background(), "chef@shop.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, acc.Role)

	_, err = dir.Check(context.Background(), "nobody@shop.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = ParseStaffAccounts("broken-entry")
	assert.Error(t, err)
}
