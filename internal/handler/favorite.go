package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/repository"
)

// FavoriteHandler manages the caller's favorite markings. Every operation is
// scoped to the authenticated person; there is no admin override and no way
// to touch another person's favorites.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
}

func NewFavoriteHandler(favorites *repository.FavoriteRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: favorites}
}

func favAdID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("adId"), 10, 64)
}

// IsFavorite reports whether the ad is among the caller's favorites. A
// missing marking is reported as a bad request rather than a boolean false,
// matching what API clients already expect.
func (h *FavoriteHandler) IsFavorite(c echo.Context) error {
	claims := getClaims(c)

	id, err := favAdID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Favorites.Exists(ctx, claims.PersonID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "not a favorite"})
	}
	return c.JSON(http.StatusOK, echo.Map{"isFavorite": true})
}

// Add marks an ad as a favorite of the caller. Marking the same ad twice is
// a bad request; marking a missing ad is not found.
func (h *FavoriteHandler) Add(c echo.Context) error {
	claims := getClaims(c)

	id, err := favAdID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Favorites.Create(ctx, claims.PersonID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrFavoriteExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "already a favorite"})
		case errors.Is(err, repository.ErrAdNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
		}
	}
	return c.NoContent(http.StatusCreated)
}

// Delete removes an ad from the caller's favorites.
func (h *FavoriteHandler) Delete(c echo.Context) error {
	claims := getClaims(c)

	id, err := favAdID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Favorites.Delete(ctx, claims.PersonID, id); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not a favorite"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
