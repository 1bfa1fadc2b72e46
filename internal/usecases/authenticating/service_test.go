package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/conversion-audit/internal/config"
	"github.com/vfg2006/conversion-audit/internal/domain"
)

func newTestService(secret string) *Service {
	return NewService(&config.Config{Auth: config.Auth{Secret: secret}})
}

func TestService_ValidateToken(t *testing.T) {
	service := newTestService("segredo")

	t.Run("Token válido", func(t *testing.T) {
		token, err := service.GenerateToken("ops", "admin", time.Hour)
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, "ops", claims.Subject)
	})

	t.Run("Token expirado", func(t *testing.T) {
		token, err := service.GenerateToken("ops", "admin", -time.Minute)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Segredo diferente", func(t *testing.T) {
		token, err := newTestService("outro").GenerateToken("ops", "admin", time.Hour)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Token sem perfil", func(t *testing.T) {
		token, err := service.GenerateToken("ops", "", time.Hour)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingRole)
	})

	t.Run("Algoritmo não HMAC", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, domain.Claims{Role: "admin"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Sem segredo configurado", func(t *testing.T) {
		_, err := newTestService("").ValidateToken("qualquer")
		assert.ErrorIs(t, err, ErrNoSecret)
	})
}
