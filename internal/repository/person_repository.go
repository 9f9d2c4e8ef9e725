package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/adboards/adboards-api/internal/model"
)

var (
	// ErrPersonNotFound is returned when a person cannot be found.
	ErrPersonNotFound = errors.New("person not found")
	// ErrLoginExists is returned when registration hits the unique login index.
	ErrLoginExists = errors.New("login already exists")
)

// PersonRepo encapsulates all database queries on the `people` table.
type PersonRepo struct{ DB *sql.DB }

func NewPersonRepo(db *sql.DB) *PersonRepo { return &PersonRepo{DB: db} }

const personCols = "id, login, password_hash, name, city, birthday, phone, email, right_id, photo_name, created_at, updated_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanPerson(row rowScanner, p *model.Person) error {
	return row.Scan(&p.ID, &p.Login, &p.PasswordHash, &p.Name, &p.City, &p.Birthday,
		&p.Phone, &p.Email, &p.RightID, &p.PhotoName, &p.CreatedAt, &p.UpdatedAt)
}

// Create inserts a person and populates the generated ID. The login is
// normalized before the insert; a duplicate login maps to ErrLoginExists.
func (r *PersonRepo) Create(ctx context.Context, p *model.Person) error {
	p.Login = strings.TrimSpace(p.Login)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO people (login, password_hash, name, city, birthday, phone, email, right_id, photo_name)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Login, p.PasswordHash, p.Name, p.City, p.Birthday, p.Phone, p.Email, p.RightID, p.PhotoName)
	if err != nil {
		if isDuplicate(err) {
			return ErrLoginExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a person by id, mapping sql.ErrNoRows to ErrPersonNotFound.
func (r *PersonRepo) GetByID(ctx context.Context, id uint64) (*model.Person, error) {
	var p model.Person
	err := scanPerson(r.DB.QueryRowContext(ctx,
		"SELECT "+personCols+" FROM people WHERE id=? LIMIT 1", id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByLogin fetches a person by normalized login.
func (r *PersonRepo) GetByLogin(ctx context.Context, login string) (*model.Person, error) {
	var p model.Person
	err := scanPerson(r.DB.QueryRowContext(ctx,
		"SELECT "+personCols+" FROM people WHERE login=? LIMIT 1", strings.TrimSpace(login)), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all people ordered by id. Admin-only surface.
func (r *PersonRepo) List(ctx context.Context) ([]*model.Person, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+personCols+" FROM people ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Person
	for rows.Next() {
		p := new(model.Person)
		if err := scanPerson(rows, p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of registered people.
func (r *PersonRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM people").Scan(&n)
	return n, err
}

// UpdateProfile persists the mutable profile columns of p. A duplicate on
// the unique email index maps to ErrConflict.
func (r *PersonRepo) UpdateProfile(ctx context.Context, p *model.Person) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE people SET name=?, city=?, birthday=?, phone=?, email=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		p.Name, p.City, p.Birthday, p.Phone, p.Email, p.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also 0 on a no-op update; treat it as success only
		// when the row still exists.
		var one int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM people WHERE id=?", p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPersonNotFound
			}
			return err
		}
	}
	return nil
}

// UpdatePhoto stores the object key of a newly saved profile photo.
func (r *PersonRepo) UpdatePhoto(ctx context.Context, id uint64, photoName string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE people SET photo_name=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", photoName, id)
	return err
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *PersonRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE people SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", hash, id)
	return err
}

// DeleteByLogin removes a person and every dependent record: their
// favorites, their complaints, favorites and complaints referencing their
// ads, their reset tokens and their ads. The deletion runs in a single
// transaction. ErrPersonNotFound is returned when the login does not exist.
func (r *PersonRepo) DeleteByLogin(ctx context.Context, login string) error {
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

	var id uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM people WHERE login=?", strings.TrimSpace(login)).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrPersonNotFound
		}
		return err
	}
	// Favorites and complaints placed by this person.
	if _, err = tx.ExecContext(ctx, "DELETE FROM favorites WHERE person_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM complaints WHERE person_id=?", id); err != nil {
		return err
	}
	// Favorites and complaints referencing ads owned by this person.
	if _, err = tx.ExecContext(ctx,
		`DELETE f FROM favorites f JOIN ads a ON a.id = f.ad_id WHERE a.person_id=?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE c FROM complaints c JOIN ads a ON a.id = c.ad_id WHERE a.person_id=?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reset_tokens WHERE person_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM ads WHERE person_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM people WHERE id=?", id); err != nil {
		return err
	}
	return nil
}
