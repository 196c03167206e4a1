package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-campus-api/internal/models"
	appErrors "github.com/noah-isme/smart-campus-api/pkg/errors"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims(role models.UserRole) models.JWTClaims {
	return models.JWTClaims{
		UserID:        "stu-1",
		Role:          role,
		InstitutionID: "inst-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "campus-identity",
			Audience:  jwt.ClaimStrings{"smart-campus"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateToken(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "campus-identity", Audience: []string{"smart-campus"}})

	claims, err := svc.ValidateToken(signToken(t, "s3cret", baseClaims(models.RoleStudent)))
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "inst-1", claims.InstitutionID)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "campus-identity", Audience: []string{"smart-campus"}})

	expired := baseClaims(models.RoleTeacher)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := baseClaims(models.RoleTeacher)
	wrongIssuer.Issuer = "someone-else"

	badRole := baseClaims("JANITOR")

	cases := map[string]string{
		"wrong secret": signToken(t, "other", baseClaims(models.RoleAdmin)),
		"expired":      signToken(t, "s3cret", expired),
		"wrong issuer": signToken(t, "s3cret", wrongIssuer),
		"bad role":     signToken(t, "s3cret", badRole),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}
