package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/repository"
	"github.com/adboards/adboards-api/internal/storage"
)

// PersonHandler serves profile operations. Self-scoped operations (Me,
// Update, UpdatePhoto) always act on the record selected by the caller's
// verified claims — no path parameter can point them at someone else, so
// ownership is implicit. Admin-scoped operations are guarded at routing
// time by the AdminOnly policy.
type PersonHandler struct {
	People *repository.PersonRepo
	Photos *storage.PhotoStore
}

func NewPersonHandler(people *repository.PersonRepo, photos *storage.PhotoStore) *PersonHandler {
	return &PersonHandler{People: people, Photos: photos}
}

type updatePersonReq struct {
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Birthday *string `json:"birthday"` // YYYY-MM-DD, optional
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// Me returns the caller's own record.
func (h *PersonHandler) Me(c echo.Context) error {
	claims := getClaims(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.People.GetByID(ctx, claims.PersonID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Update modifies the caller's own profile. Name and City are always
// written; Birthday, Phone and Email only when present in the body.
func (h *PersonHandler) Update(c echo.Context) error {
	claims := getClaims(c)

	var req updatePersonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.People.GetByID(ctx, claims.PersonID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	p.Name = req.Name
	p.City = req.City
	if req.Birthday != nil {
		b, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid birthday"})
		}
		p.Birthday = b
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Email != nil {
		p.Email = *req.Email
	}

	if err := h.People.UpdateProfile(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting profile data"})
		case errors.Is(err, repository.ErrPersonNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePhoto replaces the caller's profile photo. A request without a
// file resets the photo to the default image.
func (h *PersonHandler) UpdatePhoto(c echo.Context) error {
	claims := getClaims(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.People.GetByID(ctx, claims.PersonID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	name := storage.DefaultPersonPhoto
	if fh, err := c.FormFile("photo"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable photo"})
		}
		defer src.Close()
		name, err = h.Photos.SavePersonPhoto(ctx, src, fh.Size, fh.Header.Get("Content-Type"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store photo failed"})
		}
	}

	old := p.PhotoName
	if err := h.People.UpdatePhoto(ctx, p.ID, name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update photo failed"})
	}
	_ = h.Photos.Remove(ctx, old) // best effort, the row no longer references it
	p.PhotoName = name
	return c.JSON(http.StatusOK, p)
}

// List returns every registered person. Admin only; an empty table is
// reported as not found rather than an empty list.
func (h *PersonHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	people, err := h.People.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(people) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no people"})
	}
	return c.JSON(http.StatusOK, people)
}

// Count returns the number of registered people. Admin only.
func (h *PersonHandler) Count(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.People.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if n == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no people"})
	}
	return c.JSON(http.StatusOK, n)
}

// Delete removes a person by login, cascading to everything they own.
// Admin only.
func (h *PersonHandler) Delete(c echo.Context) error {
	login := strings.TrimSpace(c.QueryParam("login"))
	if login == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.People.DeleteByLogin(ctx, login); err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
