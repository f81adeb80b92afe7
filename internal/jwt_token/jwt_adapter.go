package jwttoken

import (
	authmw "candilib/pkg/platform/middleware/auth"
	"candilib/pkg/requestcontext"
)

// JWTServiceAdapter exposes JWTService through the middleware validator
// interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (requestcontext.Principal, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return requestcontext.Principal{}, err
	}
	return claims.Principal(), nil
}

var _ authmw.TokenValidator = (*JWTServiceAdapter)(nil)
