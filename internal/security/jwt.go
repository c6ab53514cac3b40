package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shamimfewd/job-provider-server/internal/common"
)

type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *JWTProvider) Generate(email string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, common.NewError(common.CodeInternal, "failed to sign token", err)
	}
	return token, expiresAt, nil
}

func (p *JWTProvider) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.NewError(common.CodeUnauthorized, "invalid token", err)
	}
	if !token.Valid {
		return nil, common.NewError(common.CodeUnauthorized, "invalid token", nil)
	}
	if claims.Email == "" && claims.Subject != "" {
		claims.Email = claims.Subject
	}
	return claims, nil
}
