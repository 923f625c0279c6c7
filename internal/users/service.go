package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = time.Hour

// Service implements account registration and authentication.
type Service struct {
	Repo      Repo
	JWTSecret []byte
}

// NewService constructs a Service.
func NewService(repo Repo, jwtSecret string) *Service {
	return &Service{Repo: repo, JWTSecret: []byte(jwtSecret)}
}

// SignUpInput captures a registration request.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Age      *int
	Gender   *string
}

// SignUp registers a new account. A duplicate email returns ErrEmailTaken.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return User{}, fmt.Errorf("email and password are required")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Age:          in.Age,
		Gender:       in.Gender,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies credentials and mints a one-hour JWT. An unknown email and
// a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return User{}, "", fmt.Errorf("sign token: %w", err)
	}
	return user, signed, nil
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	return s.Repo.GetByID(ctx, userID)
}
