package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// User - пользователь, выданный внешним провайдером авторизации
type User struct {
	ID   string
	Name string
}

// UserClaims - claims access токена. ID пользователя хранится в RegisteredClaims.ID
type UserClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
