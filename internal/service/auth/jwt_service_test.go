package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	s := svc.(*hmacJWTService)
	s.timeFunc = func() time.Time { return now }
	return s
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, fixedTime)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateToken_UniqueWithinSameSecond(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	userID := uuid.New()

	first, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokensDoNotExpire(t *testing.T) {
	t.Parallel()

	issued := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := newTestService(t, issued)
	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	later := newTestService(t, issued.AddDate(5, 0, 0))
	_, err = later.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	other, err := NewJWTService(config.AuthConfig{JWTSecret: "wrong-secret-that-is-long-enough-for-testing"})
	require.NoError(t, err)
	wrongSig, err := other.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{UserID: uuid.New()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtCustomClaims{UserID: uuid.New()}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	valid, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"empty":           "",
		"garbage":         "not-a-jwt",
		"wrong signature": wrongSig,
		"alg none":        noneToken,
		"other hmac alg":  hs512,
		"missing user id": noUser,
		"tampered":        tampered,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
