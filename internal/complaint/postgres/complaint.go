package postgres

import (
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ramishka-devx/inquiry-system-api/internal/complaint"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) complaint.RepositoryAPI {
	return &Repository{db: db}
}

const complainColumns = `complain_id, user_id, category_id, subject, description, priority, created_at`

func (r *Repository) Insert(c *complaint.Complaint) error {
	query := `INSERT INTO complains (user_id, category_id, subject, description, priority)
	          VALUES (?, ?, ?, ?, ?) RETURNING complain_id`
	row := r.db.Raw(query, c.UserID, c.CategoryID, c.Subject, c.Description, c.Priority).Row()
	return row.Scan(&c.ID)
}

func (r *Repository) GetDetail(id int64) (*complaint.Detail, error) {
	query := `SELECT c.complain_id, c.user_id, c.category_id, c.subject, c.description, c.priority, c.created_at,
	                 u.first_name, u.last_name, ctr.title
	          FROM complains c
	          JOIN users u ON u.user_id = c.user_id
	          JOIN categories ctr ON ctr.category_id = c.category_id
	          WHERE c.complain_id = ?`
	row := r.db.Raw(query, id).Row()

	var d complaint.Detail
	var createdAt sql.NullTime
	err := row.Scan(&d.ID, &d.UserID, &d.CategoryID, &d.Subject, &d.Description, &d.Priority, &createdAt,
		&d.FirstName, &d.LastName, &d.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, complaint.ErrNotFound
		}
		return nil, err
	}
	d.CreatedAt = nullTimePtr(createdAt)
	return &d, nil
}

func (r *Repository) GetActivities(complainID int64) ([]*complaint.Activity, error) {
	query := `SELECT activity_id, user_id, complain_id, description, status, created_at
	          FROM activities
	          WHERE complain_id = ?
	          ORDER BY activity_id`
	rows, err := r.db.Raw(query, complainID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*complaint.Activity
	for rows.Next() {
		var a complaint.Activity
		var createdAt sql.NullTime
		if err := rows.Scan(&a.ID, &a.UserID, &a.ComplainID, &a.Description, &a.Status, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = nullTimePtr(createdAt)
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}

func (r *Repository) InsertActivity(a *complaint.Activity) error {
	query := `INSERT INTO activities (user_id, complain_id, description, status)
	          VALUES (?, ?, ?, ?) RETURNING activity_id`
	row := r.db.Raw(query, a.UserID, a.ComplainID, a.Description, a.Status).Row()
	return row.Scan(&a.ID)
}

func (r *Repository) HasCategoryOwnership(userID, categoryID int64) (bool, error) {
	query := `SELECT COUNT(*)
	          FROM category_incharge ci
	          JOIN users u ON u.role_id = ci.role_id
	          WHERE u.user_id = ? AND ci.category_id = ?`
	var count int64
	row := r.db.Raw(query, userID, categoryID).Row()
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Search(search string, ownerID *int64, limit, offset int) ([]*complaint.Complaint, error) {
	pattern := "%" + search + "%"
	query := `SELECT ` + complainColumns + `
	          FROM complains
	          WHERE (LOWER(subject) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(priority) LIKE LOWER(?))`
	params := []interface{}{pattern, pattern, pattern}

	if ownerID != nil {
		query += ` AND user_id = ?`
		params = append(params, *ownerID)
	}
	query += ` ORDER BY complain_id LIMIT ? OFFSET ?`
	params = append(params, limit, offset)

	rows, err := r.db.Raw(query, params...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complains []*complaint.Complaint
	for rows.Next() {
		var c complaint.Complaint
		var createdAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.UserID, &c.CategoryID, &c.Subject, &c.Description, &c.Priority, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = nullTimePtr(createdAt)
		complains = append(complains, &c)
	}
	return complains, rows.Err()
}

func (r *Repository) CountSearch(search string, ownerID *int64) (int64, error) {
	pattern := "%" + search + "%"
	query := `SELECT COUNT(*) FROM complains
	          WHERE (LOWER(subject) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(priority) LIKE LOWER(?))`
	params := []interface{}{pattern, pattern, pattern}

	if ownerID != nil {
		query += ` AND user_id = ?`
		params = append(params, *ownerID)
	}

	var count int64
	row := r.db.Raw(query, params...).Row()
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
