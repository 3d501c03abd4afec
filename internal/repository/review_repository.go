package repository

import (
	"context"
	"database/sql"
)

// Review is a comment left by a user on a business. Reviews are immutable
// once written; they only disappear when their business is deleted.
type Review struct {
	ID          uint64
	BusinessID  uint64
	UserID      uint64
	Description string
	CreatedAt   string
}

type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create inserts a review and populates its ID.
func (r *ReviewRepo) Create(ctx context.Context, rev *Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (business_id, user_id, description) VALUES (?,?,?)",
		rev.BusinessID, rev.UserID, rev.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return nil
}

// ListByBusiness returns the reviews of a business in chronological
// order. An empty slice is a normal result, not an error.
func (r *ReviewRepo) ListByBusiness(ctx context.Context, businessID uint64) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, business_id, user_id, description, created_at FROM reviews WHERE business_id = ? ORDER BY created_at, id",
		businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Review{}
	for rows.Next() {
		rev := new(Review)
		if err := rows.Scan(&rev.ID, &rev.BusinessID, &rev.UserID, &rev.Description, &rev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByBusiness bulk-deletes every review of a business. Invoked by
// the business deletion path before the business row itself goes.
func (r *ReviewRepo) DeleteByBusiness(ctx context.Context, businessID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE business_id = ?", businessID)
	return err
}
