package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const operatorRole = "operator"

// AuthService guards the admin surface with a single shared operator secret.
// Only its bcrypt hash is kept in memory.
type AuthService struct {
	secretHash []byte
	jwtSecret  []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(operatorSecret, jwtSecret string) (*AuthService, error) {
	if operatorSecret == "" {
		return nil, errors.New("operator secret is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(operatorSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash operator secret: %w", err)
	}
	return &AuthService{
		secretHash: hash,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   12 * time.Hour,
		now:        time.Now,
	}, nil
}

func (s *AuthService) Login(secret string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.secretHash, []byte(secret)); err != nil {
		return "", &AuthenticationError{Reason: "invalid operator secret"}
	}
	return s.GenerateToken()
}

func (s *AuthService) GenerateToken() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"role": operatorRole,
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return &AuthenticationError{Reason: "invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return &AuthenticationError{Reason: "invalid claims"}
	}
	if role, _ := claims["role"].(string); role != operatorRole {
		return &AuthenticationError{Reason: "not an operator token"}
	}
	return nil
}
