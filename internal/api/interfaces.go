package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type JWTServiceI interface {
	GenerateToken(profile *entity.Profile) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
