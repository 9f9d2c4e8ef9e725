package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adboards/adboards-api/internal/model"
)

// ErrAdNotFound is returned when an ad cannot be found in the DB.
var ErrAdNotFound = errors.New("ad not found")

// AdRepo encapsulates all database queries related to ads and the category
// and ad-type reference tables.
type AdRepo struct{ DB *sql.DB }

func NewAdRepo(db *sql.DB) *AdRepo { return &AdRepo{DB: db} }

// adSelect joins the reference tables so every read returns display names
// alongside the raw foreign keys.
const adSelect = `SELECT a.id, a.price, a.name, a.description, a.city, a.posted_date,
       a.category_id, a.person_id, a.ad_type_id, a.photo_name,
       c.name, t.name, p.name
  FROM ads a
  JOIN categories c ON c.id = a.category_id
  JOIN ad_types  t ON t.id = a.ad_type_id
  JOIN people    p ON p.id = a.person_id`

func scanAd(row rowScanner, a *model.Ad) error {
	return row.Scan(&a.ID, &a.Price, &a.Name, &a.Description, &a.City, &a.PostedDate,
		&a.CategoryID, &a.PersonID, &a.AdTypeID, &a.PhotoName,
		&a.CategoryName, &a.AdTypeName, &a.PersonName)
}

// Create inserts a new ad. PersonID must already be set from the verified
// claims of the creating request. A dangling category or ad-type reference
// maps to ErrConflict. On success the joined display names are populated
// with a follow-up select.
func (r *AdRepo) Create(ctx context.Context, a *model.Ad) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO ads (price, name, description, city, posted_date, category_id, person_id, ad_type_id, photo_name)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		a.Price, a.Name, a.Description, a.City, a.PostedDate, a.CategoryID, a.PersonID, a.AdTypeID, a.PhotoName)
	if err != nil {
		if isFKViolation(err) || isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	created, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

// GetByID fetches a single ad with joined reference names.
func (r *AdRepo) GetByID(ctx context.Context, id uint64) (*model.Ad, error) {
	var a model.Ad
	err := scanAd(r.DB.QueryRowContext(ctx, adSelect+" WHERE a.id = ?", id), &a)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all ads newest first. Public browsing surface.
func (r *AdRepo) List(ctx context.Context) ([]*model.Ad, error) {
	return r.queryAds(ctx, adSelect+" ORDER BY a.id DESC")
}

// ListByPerson returns the ads owned by a person, newest first.
func (r *AdRepo) ListByPerson(ctx context.Context, personID uint64) ([]*model.Ad, error) {
	return r.queryAds(ctx, adSelect+" WHERE a.person_id = ? ORDER BY a.id DESC", personID)
}

// ListFavorites returns the ads a person has marked as favorites.
func (r *AdRepo) ListFavorites(ctx context.Context, personID uint64) ([]*model.Ad, error) {
	return r.queryAds(ctx,
		adSelect+" JOIN favorites f ON f.ad_id = a.id WHERE f.person_id = ? ORDER BY a.id DESC",
		personID)
}

func (r *AdRepo) queryAds(ctx context.Context, q string, args ...any) ([]*model.Ad, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Ad
	for rows.Next() {
		a := new(model.Ad)
		if err := scanAd(rows, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable columns of an ad. person_id and posted_date
// are deliberately not part of the statement: ownership is immutable after
// creation. A dangling reference maps to ErrConflict.
func (r *AdRepo) Update(ctx context.Context, a *model.Ad) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE ads SET price=?, name=?, description=?, city=?, category_id=?, ad_type_id=?
		 WHERE id=?`,
		a.Price, a.Name, a.Description, a.City, a.CategoryID, a.AdTypeID, a.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	_, _ = res.RowsAffected() // no-op updates are fine; existence was checked by the caller
	return nil
}

// UpdatePhoto stores the object key of a newly saved ad photo.
func (r *AdRepo) UpdatePhoto(ctx context.Context, id uint64, photoName string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE ads SET photo_name=? WHERE id=?", photoName, id)
	return err
}

// Delete removes an ad together with the favorites and complaints that
// reference it, inside a transaction. ErrAdNotFound is returned when the
// ad no longer exists.
func (r *AdRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM favorites WHERE ad_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM complaints WHERE ad_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM ads WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrAdNotFound
		return err
	}
	return nil
}

// ListCategories returns the category reference rows ordered by id.
func (r *AdRepo) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c := new(model.Category)
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListAdTypes returns the ad-type reference rows ordered by id.
func (r *AdRepo) ListAdTypes(ctx context.Context) ([]*model.AdType, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM ad_types ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.AdType
	for rows.Next() {
		t := new(model.AdType)
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
