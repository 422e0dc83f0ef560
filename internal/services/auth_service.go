package services

import (
	"context"
	"fmt"
	"time"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"caltrack-backend-go/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a login username is unknown, so response
// time stays constant and usernames cannot be enumerated by timing.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

type tokenClaims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies access tokens. The rest of the system only
// ever sees the authenticated user id it extracts.
type AuthService struct {
	users  *repository.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl}
}

// Register creates an account with a hashed password and returns its id.
func (s *AuthService) Register(ctx context.Context, username, password string) (uint, error) {
	if username == "" || password == "" {
		return 0, apperrors.NewValidationError("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Username:   username,
		Password:   string(hash),
		AIProvider: domain.ProviderGemini,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, lookupErr := s.users.FindByUsername(ctx, username)

	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(password))

	if lookupErr != nil || compareErr != nil {
		return "", apperrors.New(apperrors.ErrorTypePermission, "INVALID_CREDENTIALS", "Invalid credentials")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return signed, nil
}

// VerifyToken validates a token and returns the user id it carries.
func (s *AuthService) VerifyToken(tokenStr string) (uint, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.New(apperrors.ErrorTypePermission, "INVALID_TOKEN", "Invalid token")
	}
	return claims.UserID, nil
}
