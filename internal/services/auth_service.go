package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tiendapesca/internal/apperrors"
	"tiendapesca/internal/models"
	"tiendapesca/internal/repositories"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the payload for obtaining a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles registration, credential checks and token issuance.
// Tokens are HS256 JWTs carrying the user id and an expiry.
type AuthService struct {
	users    repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), tokenTTL: tokenTTL}
}

// Register creates a new USER account with a bcrypt-hashed password.
func (s *AuthService) Register(req RegisterRequest) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.CodeValidation, "email is already registered")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create user", err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed token. Wrong email and
// wrong password produce the same error so accounts cannot be enumerated.
func (s *AuthService) Login(req LoginRequest) (string, error) {
	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.New(apperrors.CodeValidation, "invalid email or password")
		}
		return "", apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", apperrors.New(apperrors.CodeValidation, "invalid email or password")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "failed to sign token", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token and returns the user it names.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.New(apperrors.CodeAuth, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.New(apperrors.CodeAuth, "invalid token claims")
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, apperrors.New(apperrors.CodeAuth, "invalid token claims")
	}

	user, err := s.users.GetByID(uint(rawID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeAuth, "user no longer exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	return user, nil
}
