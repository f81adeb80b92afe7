// Package jwttoken validates the bearer tokens issued by the Candilib
// authentication front. Issuance happens elsewhere; this service only checks
// signatures, expiry and the access level claim.
package jwttoken

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/requestcontext"
)

// Claims represents the JWT claims carried by Candilib access tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	Level string `json:"level"`
	jwt.RegisteredClaims
}

// JWTService validates HMAC-signed tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	switch requestcontext.Level(claims.Level) {
	case requestcontext.LevelCandidate, requestcontext.LevelAdmin:
	default:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown access level")
	}

	return claims, nil
}

// Principal converts validated claims into the request principal.
func (c *Claims) Principal() requestcontext.Principal {
	return requestcontext.Principal{
		Subject: c.Subject,
		Email:   c.Email,
		Level:   requestcontext.Level(c.Level),
	}
}
