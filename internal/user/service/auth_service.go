package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"surgsim-platform/backend/internal/security"
	"surgsim-platform/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the HTTP handler maps them to statuses.
var (
	ErrUserAlreadyExists  = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthResult holds the outcome of a successful login: a fresh token plus the
// user it identifies.
type AuthResult struct {
	Token    string
	UserID   string
	Username string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

// AuthService implements registration and password login with token issuance.
type AuthService struct {
	userRepo UserRepo
	hasher   *security.Hasher
	tokens   *security.TokenProvider
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(userRepo UserRepo, hasher *security.Hasher, tokens *security.TokenProvider) *AuthService {
	return &AuthService{userRepo: userRepo, hasher: hasher, tokens: tokens}
}

// Register creates a user with the given username and password. New users get
// role SURGEON; the AI identity is provisioned by the seed command.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Role:         domain.RoleSurgeon,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterSystemUser creates a user with an explicit role if the username is
// free; it is a no-op when the user already exists. Used by cmd/seed.
func (s *AuthService) RegisterSystemUser(ctx context.Context, username, password string, role domain.Role) error {
	username = strings.TrimSpace(username)
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return err
	}
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Role:         role,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return err
	}
	return s.userRepo.Create(ctx, user)
}

// Login authenticates with username/password and issues a fresh token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}
