package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ramishka-devx/inquiry-system-api/internal/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) user.RepositoryAPI {
	return &Repository{db: db}
}

const userColumns = `user_id, email, first_name, last_name, phone, role_id, factory_id, created_at, updated_at`

type userRow struct {
	phone     sql.NullString
	factoryID sql.NullInt64
	createdAt sql.NullTime
	updatedAt sql.NullTime
}

func (ur *userRow) apply(u *user.User) {
	u.Phone = ur.phone.String
	u.FactoryID = ur.factoryID.Int64
	u.CreatedAt = nullTimePtr(ur.createdAt)
	u.UpdatedAt = nullTimePtr(ur.updatedAt)
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (r *Repository) Insert(u *user.User) error {
	query := `INSERT INTO users (first_name, last_name, email, password_hash, phone, role_id, factory_id)
	          VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING user_id`
	row := r.db.Raw(query, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.RoleID, u.FactoryID).Row()
	return row.Scan(&u.ID)
}

func (r *Repository) GetByID(id int64) (*user.User, error) {
	row := r.db.Raw(`SELECT `+userColumns+` FROM users WHERE user_id = ?`, id).Row()

	var u user.User
	var extra userRow
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &extra.phone, &u.RoleID, &extra.factoryID, &extra.createdAt, &extra.updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	extra.apply(&u)
	return &u, nil
}

func (r *Repository) GetByEmail(email string) (*user.User, error) {
	row := r.db.Raw(`SELECT `+userColumns+`, password_hash FROM users WHERE email = ? LIMIT 1`, email).Row()

	var u user.User
	var extra userRow
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &extra.phone, &u.RoleID, &extra.factoryID, &extra.createdAt, &extra.updatedAt, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	extra.apply(&u)
	return &u, nil
}

func (r *Repository) EmailExists(email string, excludingID int64) (bool, error) {
	var count int64
	row := r.db.Raw(`SELECT COUNT(*) FROM users WHERE email = ? AND user_id != ?`, email, excludingID).Row()
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) GetRolePermissions(roleID int64) ([]string, error) {
	query := `SELECT DISTINCT p.title
	          FROM permissions p
	          JOIN role_permissions rp ON rp.permission_id = p.permission_id
	          WHERE rp.role_id = ? AND rp.status = 1`
	rows, err := r.db.Raw(query, roleID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		permissions = append(permissions, title)
	}
	return permissions, rows.Err()
}

func (r *Repository) Update(id int64, patch user.Patch) error {
	sets := make([]string, 0, 4)
	params := make([]interface{}, 0, 5)

	if patch.Email != nil {
		sets = append(sets, "email = ?")
		params = append(params, *patch.Email)
	}
	if patch.FirstName != nil {
		sets = append(sets, "first_name = ?")
		params = append(params, *patch.FirstName)
	}
	if patch.LastName != nil {
		sets = append(sets, "last_name = ?")
		params = append(params, *patch.LastName)
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		params = append(params, *patch.PasswordHash)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	params = append(params, id)

	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
	return r.db.Exec(query, params...).Error
}

func (r *Repository) Search(search string, limit, offset int) ([]*user.User, error) {
	pattern := "%" + search + "%"
	query := `SELECT ` + userColumns + `
	          FROM users
	          WHERE LOWER(email) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)
	          ORDER BY user_id
	          LIMIT ? OFFSET ?`
	rows, err := r.db.Raw(query, pattern, pattern, pattern, limit, offset).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u user.User
		var extra userRow
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &extra.phone, &u.RoleID, &extra.factoryID, &extra.createdAt, &extra.updatedAt); err != nil {
			return nil, err
		}
		extra.apply(&u)
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *Repository) CountSearch(search string) (int64, error) {
	pattern := "%" + search + "%"
	query := `SELECT COUNT(*) FROM users
	          WHERE LOWER(email) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)`
	var count int64
	row := r.db.Raw(query, pattern, pattern, pattern).Row()
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
