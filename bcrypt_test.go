package sessiongate_test

import (
	"testing"

	sessiongate "github.com/goliatone/go-sessiongate"
	"github.com/stretchr/testify/assert"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := sessiongate.HashPassword("Passw0rd!")
	assert.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", hash)

	assert.NoError(t, sessiongate.ComparePasswordAndHash("Passw0rd!", hash))
	assert.ErrorIs(t,
		sessiongate.ComparePasswordAndHash("passw0rd!", hash),
		sessiongate.ErrMismatchedHashAndPassword,
	)
}

func TestHashPasswordRejectsEmptyString(t *testing.T) {
	_, err := sessiongate.HashPassword("")
	assert.ErrorIs(t, err, sessiongate.ErrNoEmptyString)
}

func TestComparePasswordAndHashGarbageHash(t *testing.T) {
	err := sessiongate.ComparePasswordAndHash("Passw0rd!", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, sessiongate.ErrMismatchedHashAndPassword)
}
