// Package services holds the business rules behind the HTTP controllers.
// Every failure meant for the client is returned as *apperr.Error.
package services

import (
	"context"
	"errors"
	"strings"

	"learnhub/apperr"
	"learnhub/logger"
	"learnhub/metrics"
	"learnhub/models"
	"learnhub/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

type AuthService struct {
	users     repository.UserRepository
	tokens    TokenIssuer
	saltRound int
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer, saltRound int, log *logger.Logger, m *metrics.Metrics) *AuthService {
	if saltRound < bcrypt.MinCost || saltRound > bcrypt.MaxCost {
		saltRound = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, saltRound: saltRound, log: log, metrics: m}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Type     models.Role
}

type LoginResult struct {
	Token string
	User  models.User
}

// NormalizeEmail is applied on both register and login.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	email := NormalizeEmail(in.Email)

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return apperr.Internal("Failed to process your request!", err)
	}
	if existing != nil {
		return apperr.Conflict("user_exists", "User already exists")
	}

	// Hash Password
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.saltRound)
	if err != nil {
		return apperr.Internal("Failed to process your request!", err)
	}

	role := in.Type
	if role == "" {
		role = models.RoleStudent
	}
	user := &models.User{
		ID:       models.NewID(),
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hashed),
		Type:     role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("user_exists", "User already exists")
		}
		return apperr.Internal("Failed to register user!", err)
	}

	s.metrics.IncRegistration()
	s.log.Info("user registered", "userId", user.ID, "type", user.Type)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, apperr.Internal("Failed to process your request!", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user_not_found", "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.BadRequest("invalid_credentials", "Invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to generate token!", err)
	}
	return &LoginResult{Token: token, User: user.Sanitized()}, nil
}
