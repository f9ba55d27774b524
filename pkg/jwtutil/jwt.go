package jwtutil

import (
	"time"

	"github.com/FadhilPratama/cvstm-babat-admin/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	secret          = []byte("defaultsecretkey")
	expirationHours = 24
)

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	Email  string `json:"email"`
	UserID uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// Initialize configures the signing key and token lifetime
func Initialize(jwtConfig *config.JWTConfig) {
	secret = []byte(jwtConfig.SigningKey)
	if jwtConfig.ExpirationHours > 0 {
		expirationHours = jwtConfig.ExpirationHours
	}
}

// GenerateToken creates a signed JWT token for the given user
func GenerateToken(email string, userID uint) (string, error) {
	claims := UserClaims{
		Email:  email,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
