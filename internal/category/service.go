package category

import (
	"errors"
	"log/slog"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("category not found")

type RepositoryAPI interface {
	Insert(c *Category) error
	GetByID(id int64) (*Category, error)
	Update(id int64, patch Patch) error
	Delete(id int64) (int64, error)
	// AssignOwner sets the owner only when none is assigned yet and reports
	// the number of rows changed.
	AssignOwner(id, facultyID int64) (int64, error)
	Search(search string, limit, offset int) ([]*Category, error)
	CountSearch(search string) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Category{Title: dto.Title}
	if err := s.repo.Insert(c); err != nil {
		s.logger.Error("failed to insert category", "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", c.ID, "title", c.Title)
	return c, nil
}

// FindAll pages over a case-insensitive substring match on title. An empty
// page reports not found, even for valid pages past the end.
func (s *Service) FindAll(q ListQuery) (*Page, error) {
	q = q.Normalized()

	total, err := s.repo.CountSearch(q.Search)
	if err != nil {
		s.logger.Error("failed to count categories", "error", err)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	categories, err := s.repo.Search(q.Search, q.Limit, q.Offset())
	if err != nil {
		s.logger.Error("failed to search categories", "error", err)
		return nil, internal.NewInternalError("failed to list categories", err)
	}
	if len(categories) == 0 {
		return nil, internal.NewNotFoundError("No categories found", internal.ErrCodeEmptyResultPage)
	}

	return &Page{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		Categories:  categories,
	}, nil
}

func (s *Service) FindOne(id int64) (*Category, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
		}
		return nil, internal.NewInternalError("failed to look up category", err)
	}
	return c, nil
}

// Update applies only the supplied fields. With nothing supplied the current
// record is returned without issuing a write.
func (s *Service) Update(id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.FindOne(id)
	if err != nil {
		return nil, err
	}

	patch := Patch{Title: dto.Title, FacultyID: dto.FacultyID}
	if patch.Empty() {
		return existing, nil
	}

	if err := s.repo.Update(id, patch); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to update category", err)
	}

	return s.FindOne(id)
}

func (s *Service) Remove(id int64) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return internal.NewInternalError("failed to delete category", err)
	}
	if deleted == 0 {
		return internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}

// Assign sets the category owner once. The conditional update only matches
// rows with no owner, so two concurrent assignments cannot both win.
func (s *Service) Assign(id int64, dto AssignDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.FindOne(id); err != nil {
		return nil, err
	}

	changed, err := s.repo.AssignOwner(id, dto.FacultyID)
	if err != nil {
		s.logger.Error("failed to assign category owner", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to assign category owner", err)
	}
	if changed == 0 {
		return nil, internal.NewConflictError("category already has an owner assigned", internal.ErrCodeOwnerAssigned)
	}

	s.logger.Info("category owner assigned", "category_id", id, "faculty_id", dto.FacultyID)
	return s.FindOne(id)
}
