// Package auth is the identity provider for both the REST surface and
// the websocket handshake: password hashing plus JWT issue/verify.
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"supperchat/backend/internal/models"
)

// ErrInvalidToken covers missing, malformed, expired and badly signed
// tokens alike. Callers only care that the credential failed.
var ErrInvalidToken = errors.New("invalid or expired token")

const tokenLifetime = 72 * time.Hour

// Service issues and verifies bearer tokens signed with HS256.
type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// HashPassword returns the bcrypt hash stored on the user row.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func (s *Service) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken creates a signed token carrying the identity claims the
// socket layer needs.
func (s *Service) IssueToken(identity models.Identity) (string, error) {
	claims := jwt.MapClaims{
		"id":       identity.UserID,
		"username": identity.Username,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
		"iss":      "supperchat-backend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a bearer token and returns the identity it carries.
func (s *Service) Verify(tokenString string) (models.Identity, error) {
	if tokenString == "" {
		return models.Identity{}, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, ErrInvalidToken
	}

	userID, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if userID == "" {
		return models.Identity{}, ErrInvalidToken
	}
	if username == "" {
		username = "Unknown"
	}

	return models.Identity{UserID: userID, Username: username}, nil
}
