package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Business represents a registered business. Each business belongs to a
// single owner (users.id) and the (user_id, name) pair is unique per
// owner — enforced with a pre-insert probe, not a DB constraint, so the
// check-then-insert sequence can race under concurrent identical
// submissions. Accepted limitation.
type Business struct {
	ID          uint64
	UserID      uint64
	Name        string
	Description string
	Category    string
	Country     string
	City        string
	CreatedAt   string
	UpdatedAt   string
}

// SearchFilter holds the optional public listing filters. Query is a
// case-insensitive substring match on name; the rest are case-insensitive
// exact matches. Empty fields are skipped and present ones compose
// conjunctively.
type SearchFilter struct {
	Query    string
	Category string
	City     string
	Country  string
}

// BusinessRepo encapsulates all database queries related to businesses.
type BusinessRepo struct {
	db *sql.DB
}

func NewBusinessRepo(db *sql.DB) *BusinessRepo {
	return &BusinessRepo{db: db}
}

const businessCols = "id, user_id, name, description, category, country, city, created_at, updated_at"

func scanBusiness(row *sql.Row) (*Business, error) {
	var b Business
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Category,
		&b.Country, &b.City, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new business. On success the ID field is populated
// with the auto-generated value.
func (r *BusinessRepo) Create(ctx context.Context, b *Business) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO businesses (user_id, name, description, category, country, city) VALUES (?,?,?,?,?,?)",
		b.UserID, b.Name, b.Description, b.Category, b.Country, b.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a business by its ID regardless of owner.
func (r *BusinessRepo) GetByID(ctx context.Context, id uint64) (*Business, error) {
	return scanBusiness(r.db.QueryRowContext(ctx,
		"SELECT "+businessCols+" FROM businesses WHERE id = ?", id))
}

// GetByIDAndOwner fetches a business by id but only if it belongs to the
// given owner. A business owned by someone else yields the same
// ErrBusinessNotFound as a missing one.
func (r *BusinessRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Business, error) {
	return scanBusiness(r.db.QueryRowContext(ctx,
		"SELECT "+businessCols+" FROM businesses WHERE id = ? AND user_id = ?", id, ownerID))
}

// ListByOwner returns all businesses for a specific owner ordered by id.
func (r *BusinessRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Business, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+businessCols+" FROM businesses WHERE user_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	return collectBusinesses(rows)
}

// Search returns businesses matching the filter, all of them when the
// filter is empty. Matching is done in SQL with LOWER() so stored case
// never matters.
func (r *BusinessRepo) Search(ctx context.Context, f SearchFilter) ([]*Business, error) {
	where := []string{}
	args := []any{}

	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q)+"%")
	}
	if v := strings.TrimSpace(f.Category); v != "" {
		where = append(where, "LOWER(category) = ?")
		args = append(args, strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.City); v != "" {
		where = append(where, "LOWER(city) = ?")
		args = append(args, strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.Country); v != "" {
		where = append(where, "LOWER(country) = ?")
		args = append(args, strings.ToLower(v))
	}

	q := "SELECT " + businessCols + " FROM businesses"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectBusinesses(rows)
}

// NameTakenByOwner reports whether the owner already has another business
// with exactly this name. excludeID skips the business's own row on
// update; pass 0 when registering.
func (r *BusinessRepo) NameTakenByOwner(ctx context.Context, ownerID uint64, name string, excludeID uint64) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM businesses WHERE user_id = ? AND name = ? AND id <> ? LIMIT 1",
		ownerID, name, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update rewrites the mutable fields of a business owned by ownerID.
// sql.ErrNoRows is returned when nothing was affected (not found or not
// owned); callers normally resolve ownership first.
func (r *BusinessRepo) Update(ctx context.Context, b *Business) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE businesses
		 SET name = ?, description = ?, category = ?, country = ?, city = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		b.Name, b.Description, b.Category, b.Country, b.City, b.ID, b.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a business row. Review cascade is the review
// repository's job and runs before this on the deletion path.
func (r *BusinessRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM businesses WHERE id = ?", id)
	return err
}

func collectBusinesses(rows *sql.Rows) ([]*Business, error) {
	defer rows.Close()
	out := []*Business{}
	for rows.Next() {
		b := new(Business)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Description, &b.Category,
			&b.Country, &b.City, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
