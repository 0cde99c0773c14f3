// Package middleware provides Gin middleware for auth, logging, and error handling.
package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/ay-man-sup/personal-finance-tracker/internal/errors"
)

const (
	// ContextUserIDKey is the Gin context key holding the authenticated user ID.
	ContextUserIDKey = "user_id"

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenIssuer = "finance-tracker-api"
)

// JWTClaims are the custom claims carried by both token types.
type JWTClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-insecure-secret"
	}
	return []byte(secret)
}

// GenerateAccessToken issues a short-lived access token.
func GenerateAccessToken(userID uint, email string) (string, error) {
	return generateToken(userID, email, "access", accessTokenTTL)
}

// GenerateRefreshToken issues a long-lived refresh token.
func GenerateRefreshToken(userID uint, email string) (string, error) {
	return generateToken(userID, email, "refresh", refreshTokenTTL)
}

func generateToken(userID uint, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateAccessToken parses and verifies an access token.
func ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	return validateToken(tokenString, "access")
}

// ValidateRefreshToken parses and verifies a refresh token.
func ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return validateToken(tokenString, "refresh")
}

func validateToken(tokenString, expectedType string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.TokenType != expectedType {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// HashToken returns the hex SHA-256 of a token, used to store refresh tokens
// without keeping the raw value.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// AuthMiddleware rejects requests without a valid Bearer access token and
// stores the user ID in the context for handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}

		claims, err := ValidateAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthorized})
}
