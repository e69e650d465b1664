package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/lhpaul/finadmin/internal/admin/domain/model"
	"github.com/lhpaul/finadmin/internal/repository"
	"github.com/lhpaul/finadmin/internal/shared/errors"
	"github.com/lhpaul/finadmin/internal/shared/execlog"
	"github.com/lhpaul/finadmin/internal/shared/logger"
)

// Service registers users and exchanges credentials for access tokens.
type Service struct {
	users  *repository.Repository[model.User]
	tokens *TokenManager
	log    logger.Logger
}

func NewService(users *repository.Repository[model.User], tokens *TokenManager, log logger.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log.WithComponent("auth")}
}

// Register creates a user with a bcrypt-hashed password and returns its id.
// An existing user with the same email fails with CONFLICT.
func (s *Service) Register(ctx context.Context, email, password string, role model.UserRole, companyID string) (string, error) {
	if len(password) < 8 {
		return "", errors.NewValidationError("password must be at least 8 characters")
	}
	el := execlog.NewStepLogger(s.log, "auth.register")

	existing, err := s.users.List(ctx, el, repository.Query{"email": repository.Equal(email)}, nil)
	if err != nil {
		return "", err
	}
	if len(existing) > 0 {
		return "", errors.NewConflictError("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.NewInternalError("hashing password").WithCause(err)
	}
	user := model.User{Email: email, PasswordHash: string(hash), Role: role, CompanyID: companyID}
	if err := user.Validate(); err != nil {
		return "", err
	}
	id, err := s.users.Create(ctx, el, user, nil)
	if err != nil {
		return "", err
	}
	s.log.WithFields(map[string]interface{}{"user_id": id}).Info("user registered")
	return id, nil
}

// Login verifies the credentials and issues an access token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	el := execlog.NewStepLogger(s.log, "auth.login")

	users, err := s.users.List(ctx, el, repository.Query{"email": repository.Equal(email)}, nil)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", errors.NewUnauthorizedError("invalid credentials")
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Data.PasswordHash), []byte(password)); err != nil {
		return "", errors.NewUnauthorizedError("invalid credentials")
	}
	return s.tokens.Issue(user.ID, user.Data)
}

// Validate checks an access token and returns its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	return s.tokens.Validate(tokenString)
}
