package domain

import "github.com/golang-jwt/jwt/v5"

// Claims são as informações do token de acesso da API de operação
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
