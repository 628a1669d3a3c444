package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/classreg/internal/dependencies/mocks"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/testutil"
)

func newTestService(t *testing.T, password string) (*Service, *mocks.MockClock) {
	t.Helper()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	svc, err := New(Config{
		Password:   password,
		Secret:     []byte("test-secret"),
		BcryptCost: bcrypt.MinCost,
	}, clk, testutil.NopLogger())
	require.NoError(t, err)
	return svc, clk
}

func TestLoginAndValidate(t *testing.T) {
	svc, clk := newTestService(t, "hunter2")

	token, expires, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(12*time.Hour), expires)

	assert.NoError(t, svc.Validate(token))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t, "hunter2")

	_, _, err := svc.Login("hunter3")
	assert.ErrorIs(t, err, model.ErrInvalidPassword)
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	svc, _ := newTestService(t, "")

	_, _, err := svc.Login("")
	assert.ErrorIs(t, err, model.ErrInvalidPassword)
}

func TestTokenExpires(t *testing.T) {
	svc, clk := newTestService(t, "hunter2")
	token, _, err := svc.Login("hunter2")
	require.NoError(t, err)

	clk.Advance(11 * time.Hour)
	assert.NoError(t, svc.Validate(token))

	clk.Advance(2 * time.Hour)
	assert.ErrorIs(t, svc.Validate(token), model.ErrInvalidToken)
}

func TestTokenFromAnotherSecretRejected(t *testing.T) {
	svc, clk := newTestService(t, "hunter2")
	other, err := New(Config{Password: "hunter2", Secret: []byte("other"), BcryptCost: bcrypt.MinCost}, clk, testutil.NopLogger())
	require.NoError(t, err)

	token, _, err := other.Login("hunter2")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Validate(token), model.ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc, _ := newTestService(t, "hunter2")

	assert.ErrorIs(t, svc.Validate(""), model.ErrInvalidToken)
	assert.ErrorIs(t, svc.Validate("not.a.jwt"), model.ErrInvalidToken)
}
