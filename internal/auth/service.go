package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/user"
)

type ServiceAPI interface {
	Register(dto user.CreateUserDTO) (*AuthResponse, error)
	Login(dto LoginDTO) (*AuthResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolvePrincipal(userID int64) (*internal.Principal, error)
}

type Service struct {
	identity IdentityAPI
	tokens   TokenGeneratorAPI
	logger   *slog.Logger
}

func NewService(identity IdentityAPI, tokens TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		identity: identity,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates the identity and issues a session token for it.
func (s *Service) Register(dto user.CreateUserDTO) (*AuthResponse, error) {
	u, err := s.identity.Create(dto)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{User: u, AccessToken: token}, nil
}

// Login verifies credentials and issues a token. Every failure mode (unknown
// email, wrong password, lookup error) collapses to the same generic
// credentials error.
func (s *Service) Login(dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.identity.FindByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login lookup failed", "email", dto.Email)
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login password mismatch", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}

	return &AuthResponse{
		User: LoginUserView{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
		AccessToken: token,
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// ResolvePrincipal loads the caller's current permission set from the store.
// The token payload is only trusted for identity, never for permissions.
func (s *Service) ResolvePrincipal(userID int64) (*internal.Principal, error) {
	u, err := s.identity.FindOneWithPermissions(userID)
	if err != nil {
		return nil, err
	}
	return &internal.Principal{
		ID:          u.ID,
		Email:       u.Email,
		Permissions: u.Permissions,
	}, nil
}
