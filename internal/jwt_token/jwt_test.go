package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/requestcontext"
)

const signingKey = "test-signing-key"

var jwtService = NewJWTService(signingKey, "candilib")

func sign(t *testing.T, key string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims(level string, expiresIn time.Duration) Claims {
	return Claims{
		Email: "candidat@example.fr",
		Level: level,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "candilib",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func Test_ValidateToken_Valid(t *testing.T) {
	in := validClaims("candidat", time.Hour)
	claims, err := jwtService.ValidateToken(sign(t, signingKey, in))
	require.NoError(t, err)

	p := claims.Principal()
	assert.Equal(t, in.Subject, p.Subject)
	assert.Equal(t, requestcontext.LevelCandidate, p.Level)
	assert.Equal(t, "candidat@example.fr", p.Email)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token := sign(t, signingKey, validClaims("admin", -time.Hour))

	_, err := jwtService.ValidateToken(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	de, _ := dErrors.As(err)
	assert.Equal(t, "token has expired", de.Message)
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	_, err := jwtService.ValidateToken(sign(t, "other-key", validClaims("admin", time.Hour)))
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_UnknownLevel(t *testing.T) {
	_, err := jwtService.ValidateToken(sign(t, signingKey, validClaims("repartiteur", time.Hour)))
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	claims := validClaims("admin", time.Hour)
	claims.Issuer = "elsewhere"
	_, err := jwtService.ValidateToken(sign(t, signingKey, claims))
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_Adapter(t *testing.T) {
	p, err := NewJWTServiceAdapter(jwtService).ValidateToken(sign(t, signingKey, validClaims("admin", time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, requestcontext.LevelAdmin, p.Level)
}
