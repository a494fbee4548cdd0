package user

import (
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("user not found")

type RepositoryAPI interface {
	Insert(u *User) error
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	EmailExists(email string, excludingID int64) (bool, error)
	GetRolePermissions(roleID int64) ([]string, error)
	Update(id int64, patch Patch) error
	Search(search string, limit, offset int) ([]*User, error)
	CountSearch(search string) (int64, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create registers a new identity. The email uniqueness pre-check produces
// the 409; the unique index on users.email closes the race window behind it.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(dto.Email, 0)
	if err != nil {
		s.logger.Error("failed to check email uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if taken {
		return nil, internal.NewConflictError("email already exists", internal.ErrCodeEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Phone:        dto.Phone,
		RoleID:       dto.RoleID,
		FactoryID:    dto.FactoryID,
		PasswordHash: string(hash),
	}
	if err := s.repo.Insert(u); err != nil {
		s.logger.Error("failed to insert user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "email", u.Email)

	// Timestamps stay nil: the generated values are not re-fetched after
	// insert, and the hash never leaves the service.
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, nil
}

// FindByEmail returns the full record including the password hash. It exists
// for credential verification and must not be exposed over the boundary.
func (s *Service) FindByEmail(email string) (*User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	return u, nil
}

func (s *Service) FindOne(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
		}
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	u.PasswordHash = ""
	return u, nil
}

// FindOneWithPermissions resolves the user's permission tags through its
// role. Only active role-permission links contribute; a role with no links
// yields an empty set, not an error.
func (s *Service) FindOneWithPermissions(id int64) (*User, error) {
	u, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	permissions, err := s.repo.GetRolePermissions(u.RoleID)
	if err != nil {
		s.logger.Error("failed to resolve permissions", "error", err, "user_id", id, "role_id", u.RoleID)
		return nil, internal.NewInternalError("failed to resolve permissions", err)
	}
	if permissions == nil {
		permissions = []string{}
	}
	u.Permissions = permissions
	return u, nil
}

// Update applies only the supplied fields. With nothing supplied the current
// record is returned without issuing a write.
func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	patch := Patch{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
	}

	if dto.Email != nil {
		taken, err := s.repo.EmailExists(*dto.Email, id)
		if err != nil {
			return nil, internal.NewInternalError("failed to check email uniqueness", err)
		}
		if taken {
			return nil, internal.NewConflictError("email already in use", internal.ErrCodeEmailTaken)
		}
		patch.Email = dto.Email
	}

	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		hashed := string(hash)
		patch.PasswordHash = &hashed
	}

	if patch.Empty() {
		return existing, nil
	}

	if err := s.repo.Update(id, patch); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	return s.FindOne(id)
}

// FindAll pages over a case-insensitive substring match across email and
// names. An empty page reports not found, even for valid pages past the end.
func (s *Service) FindAll(q ListQuery) (*Page, error) {
	q = q.Normalized()

	total, err := s.repo.CountSearch(q.Search)
	if err != nil {
		s.logger.Error("failed to count users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	users, err := s.repo.Search(q.Search, q.Limit, q.Offset())
	if err != nil {
		s.logger.Error("failed to search users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	if len(users) == 0 {
		return nil, internal.NewNotFoundError("No users found", internal.ErrCodeEmptyResultPage)
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return &Page{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		Users:       users,
	}, nil
}
