package complaint

import (
	"errors"
	"log/slog"

	internal "github.com/ramishka-devx/inquiry-system-api/internal"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("complain not found")

type RepositoryAPI interface {
	Insert(c *Complaint) error
	// GetDetail joins the submitter name and category title; activities are
	// loaded separately.
	GetDetail(id int64) (*Detail, error)
	GetActivities(complainID int64) ([]*Activity, error)
	InsertActivity(a *Activity) error
	// HasCategoryOwnership reports whether the user's role is linked to the
	// category through the ownership table.
	HasCategoryOwnership(userID, categoryID int64) (bool, error)
	Search(search string, ownerID *int64, limit, offset int) ([]*Complaint, error)
	CountSearch(search string, ownerID *int64) (int64, error)
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

// Create files a complaint owned by the acting user. The returned record
// echoes the input with the generated id; the database timestamp is not
// re-fetched.
func (s *Service) Create(actingUserID int64, dto CreateComplainDTO) (*Complaint, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Complaint{
		UserID:      actingUserID,
		CategoryID:  dto.CategoryID,
		Subject:     dto.Subject,
		Description: dto.Description,
		Priority:    dto.Priority,
	}
	if err := s.repo.Insert(c); err != nil {
		s.logger.Error("failed to insert complain", "error", err, "user_id", actingUserID)
		return nil, internal.NewInternalError("failed to create complain", err)
	}

	s.logger.Info("complain created", "complain_id", c.ID, "user_id", actingUserID)
	return c, nil
}

// FindAll pages over a substring match across subject, description and
// priority. A non-nil ownerID restricts the listing to that user's own
// complaints. An empty page reports not found.
func (s *Service) FindAll(q ListQuery, ownerID *int64) (*Page, error) {
	q = q.Normalized()

	total, err := s.repo.CountSearch(q.Search, ownerID)
	if err != nil {
		s.logger.Error("failed to count complains", "error", err)
		return nil, internal.NewInternalError("failed to list complains", err)
	}
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	complains, err := s.repo.Search(q.Search, ownerID, q.Limit, q.Offset())
	if err != nil {
		s.logger.Error("failed to search complains", "error", err)
		return nil, internal.NewInternalError("failed to list complains", err)
	}
	if len(complains) == 0 {
		return nil, internal.NewNotFoundError("No complains found", internal.ErrCodeEmptyResultPage)
	}

	return &Page{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		Complains:   complains,
	}, nil
}

// FindOne returns the complaint joined with its submitter and category plus
// the chronological activity log.
func (s *Service) FindOne(id int64) (*Detail, error) {
	detail, err := s.repo.GetDetail(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("complain not found", internal.ErrCodeComplainNotFound)
		}
		return nil, internal.NewInternalError("failed to look up complain", err)
	}

	activities, err := s.repo.GetActivities(id)
	if err != nil {
		s.logger.Error("failed to load activities", "error", err, "complain_id", id)
		return nil, internal.NewInternalError("failed to load activities", err)
	}
	if activities == nil {
		activities = []*Activity{}
	}
	detail.Activities = activities
	return detail, nil
}

// CreateActivity appends a status update. Only users whose role owns the
// complaint's category may record one; anyone else gets a conflict, matching
// the ownership-link semantics rather than a plain permission failure.
func (s *Service) CreateActivity(actingUserID, complainID int64, dto ActivityDTO) (*Activity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetDetail(complainID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("complain not found", internal.ErrCodeComplainNotFound)
		}
		return nil, internal.NewInternalError("failed to look up complain", err)
	}

	authorized, err := s.repo.HasCategoryOwnership(actingUserID, detail.CategoryID)
	if err != nil {
		s.logger.Error("failed to check category ownership", "error", err, "user_id", actingUserID)
		return nil, internal.NewInternalError("failed to create activity", err)
	}
	if !authorized {
		return nil, internal.NewConflictError("you are not authorized to create activity for this complain", internal.ErrCodeNotCategoryOwner)
	}

	a := &Activity{
		UserID:      actingUserID,
		ComplainID:  complainID,
		Description: dto.Description,
		Status:      dto.Status,
	}
	if err := s.repo.InsertActivity(a); err != nil {
		s.logger.Error("failed to insert activity", "error", err, "complain_id", complainID)
		return nil, internal.NewInternalError("failed to create activity", err)
	}

	s.logger.Info("activity created", "activity_id", a.ID, "complain_id", complainID, "status", a.Status)
	return a, nil
}
