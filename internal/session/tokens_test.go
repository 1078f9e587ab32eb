package session

import (
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount() *models.Account {
	return &models.Account{ID: uuid.New(), Email: "donor@example.com", Role: models.RoleDonor}
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	a := testAccount()

	raw, issued, err := m.Issue(a)
	require.NoError(t, err)

	parsed, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, a.ID, parsed.UserID)
	assert.Equal(t, a.Email, parsed.Email)
	assert.Equal(t, models.RoleDonor, parsed.Role)
	assert.Equal(t, issued.JTI, parsed.JTI)
	assert.WithinDuration(t, issued.ExpiresAt, parsed.ExpiresAt, time.Second)
}

func TestEachTokenGetsItsOwnJTI(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	a := testAccount()

	_, first, err := m.Issue(a)
	require.NoError(t, err)
	_, second, err := m.Issue(a)
	require.NoError(t, err)
	assert.NotEqual(t, first.JTI, second.JTI)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, _, err := NewManager("one", time.Hour).Issue(testAccount())
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, _, err := m.Issue(testAccount())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
