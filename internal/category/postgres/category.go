package postgres

import (
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ramishka-devx/inquiry-system-api/internal/category"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) category.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) Insert(c *category.Category) error {
	query := `INSERT INTO categories (title) VALUES (?) RETURNING category_id`
	row := r.db.Raw(query, c.Title).Row()
	return row.Scan(&c.ID)
}

func (r *Repository) GetByID(id int64) (*category.Category, error) {
	row := r.db.Raw(`SELECT category_id, title, faculty_id FROM categories WHERE category_id = ?`, id).Row()

	var c category.Category
	var facultyID sql.NullInt64
	if err := row.Scan(&c.ID, &c.Title, &facultyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, err
	}
	if facultyID.Valid {
		c.FacultyID = &facultyID.Int64
	}
	return &c, nil
}

func (r *Repository) Update(id int64, patch category.Patch) error {
	sets := make([]string, 0, 2)
	params := make([]interface{}, 0, 3)

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		params = append(params, *patch.Title)
	}
	if patch.FacultyID != nil {
		sets = append(sets, "faculty_id = ?")
		params = append(params, *patch.FacultyID)
	}
	if len(sets) == 0 {
		return nil
	}

	params = append(params, id)
	query := "UPDATE categories SET " + strings.Join(sets, ", ") + " WHERE category_id = ?"
	return r.db.Exec(query, params...).Error
}

func (r *Repository) Delete(id int64) (int64, error) {
	result := r.db.Exec(`DELETE FROM categories WHERE category_id = ?`, id)
	return result.RowsAffected, result.Error
}

// AssignOwner only matches a row that has no owner yet, so the single
// assignment invariant holds even under concurrent requests.
func (r *Repository) AssignOwner(id, facultyID int64) (int64, error) {
	result := r.db.Exec(`UPDATE categories SET faculty_id = ? WHERE category_id = ? AND faculty_id IS NULL`, facultyID, id)
	return result.RowsAffected, result.Error
}

func (r *Repository) Search(search string, limit, offset int) ([]*category.Category, error) {
	pattern := "%" + search + "%"
	query := `SELECT category_id, title, faculty_id
	          FROM categories
	          WHERE LOWER(title) LIKE LOWER(?)
	          ORDER BY category_id
	          LIMIT ? OFFSET ?`
	rows, err := r.db.Raw(query, pattern, limit, offset).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		var c category.Category
		var facultyID sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Title, &facultyID); err != nil {
			return nil, err
		}
		if facultyID.Valid {
			c.FacultyID = &facultyID.Int64
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *Repository) CountSearch(search string) (int64, error) {
	pattern := "%" + search + "%"
	var count int64
	row := r.db.Raw(`SELECT COUNT(*) FROM categories WHERE LOWER(title) LIKE LOWER(?)`, pattern).Row()
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
