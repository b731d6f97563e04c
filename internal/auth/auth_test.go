package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/activity-planner/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "activity_planner_app", time.Hour)
	token, err := issuer.Issue("ben@x.com", model.RoleUser)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "ben@x.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "activity_planner_app", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "activity_planner_app", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Issue("ben@x.com", model.RoleUser)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenIssuer("one", "activity_planner_app", time.Hour).Issue("ben@x.com", model.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", "activity_planner_app", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongIssuer(t *testing.T) {
	t.Parallel()

	token, err := NewTokenIssuer("secret", "someone_else", time.Hour).Issue("ben@x.com", model.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", "activity_planner_app", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		Email: "ben@x.com",
		Role:  model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "activity_planner_app",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", "activity_planner_app", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret", "activity_planner_app", time.Hour)
	token, err := issuer.Issue("ben@x.com", model.Role("root"))
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("secret", "activity_planner_app", time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("itsAsecret")
	require.NoError(t, err)
	assert.NotEqual(t, "itsAsecret", hash)

	assert.NoError(t, h.Compare(hash, "itsAsecret"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)

	_, err = h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 10, NewBcryptHasher(10).cost)
}
