package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adboards/adboards-api/internal/model"
)

// ErrComplaintNotFound is returned when a complaint id does not resolve.
var ErrComplaintNotFound = errors.New("complaint not found")

// ComplaintRepo persists complaints filed against ads.
type ComplaintRepo struct{ DB *sql.DB }

func NewComplaintRepo(db *sql.DB) *ComplaintRepo { return &ComplaintRepo{DB: db} }

// Create inserts a complaint and populates the generated ID. A dangling ad
// reference maps to ErrAdNotFound.
func (r *ComplaintRepo) Create(ctx context.Context, c *model.Complaint) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO complaints (person_id, ad_id, text, date) VALUES (?,?,?,?)",
		c.PersonID, c.AdID, c.Text, c.Date)
	if err != nil {
		if isFKViolation(err) {
			return ErrAdNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// List returns all complaints newest first. Admin-only surface.
func (r *ComplaintRepo) List(ctx context.Context) ([]*model.Complaint, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, person_id, ad_id, text, date FROM complaints ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Complaint
	for rows.Next() {
		c := new(model.Complaint)
		if err := rows.Scan(&c.ID, &c.PersonID, &c.AdID, &c.Text, &c.Date); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a complaint by id.
func (r *ComplaintRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM complaints WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrComplaintNotFound
	}
	return nil
}
