package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/middleware"
	"github.com/adboards/adboards-api/internal/model"
	"github.com/adboards/adboards-api/internal/repository"
	"github.com/adboards/adboards-api/internal/storage"
)

// AdHandler serves the ad catalogue. Reads are public; every mutation runs
// behind JWT auth and, for existing ads, the ownership gate.
type AdHandler struct {
	Ads       *repository.AdRepo
	Favorites *repository.FavoriteRepo
	Photos    *storage.PhotoStore
}

func NewAdHandler(ads *repository.AdRepo, favorites *repository.FavoriteRepo, photos *storage.PhotoStore) *AdHandler {
	return &AdHandler{Ads: ads, Favorites: favorites, Photos: photos}
}

type createAdReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	City        string `json:"city"`
	CategoryID  uint64 `json:"categoryId"`
	AdTypeID    uint64 `json:"adTypeId"`
}

type updateAdReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	City        *string `json:"city"`
	CategoryID  *uint64 `json:"categoryId"`
	AdTypeID    *uint64 `json:"adTypeId"`
}

func adID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// Get returns a single ad. When the request carries a valid token the
// isFavorite flag reflects the caller's favorites; anonymous callers always
// see it false.
func (h *AdHandler) Get(c echo.Context) error {
	id, err := adID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ad, err := h.Ads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAdNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if claims := middleware.ClaimsFrom(c); claims != nil {
		fav, err := h.Favorites.Exists(ctx, claims.PersonID, ad.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		ad.IsFavorite = fav
	}
	return c.JSON(http.StatusOK, ad)
}

// List returns every ad, newest first.
func (h *AdHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ads, err := h.Ads.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ads)
}

// My returns the caller's own ads.
func (h *AdHandler) My(c echo.Context) error {
	claims := getClaims(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	ads, err := h.Ads.ListByPerson(ctx, claims.PersonID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ads)
}

// FavoriteList returns the ads the caller has marked as favorites.
func (h *AdHandler) FavoriteList(c echo.Context) error {
	claims := getClaims(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	ads, err := h.Ads.ListFavorites(ctx, claims.PersonID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for _, ad := range ads {
		ad.IsFavorite = true
	}
	return c.JSON(http.StatusOK, ads)
}

// Create posts a new ad owned by the caller. The owner and posted date come
// from the server, never from the request body.
func (h *AdHandler) Create(c echo.Context) error {
	claims := getClaims(c)

	var req createAdReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.CategoryID == 0 || req.AdTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, categoryId and adTypeId are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ad := &model.Ad{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		City:        req.City,
		CategoryID:  req.CategoryID,
		AdTypeID:    req.AdTypeID,
		PersonID:    claims.PersonID,
		PostedDate:  time.Now().UTC().Truncate(24 * time.Hour),
		PhotoName:   storage.DefaultAdPhoto,
	}
	if err := h.Ads.Create(ctx, ad); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "unknown category or ad type"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, ad)
}

// Update modifies an existing ad. Only the owning person may update, admins
// included; the owner and posted date are never touched.
func (h *AdHandler) Update(c echo.Context) error {
	claims := getClaims(c)

	id, err := adID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}

	var req updateAdReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ad, err := h.Ads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAdNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := auth.CheckOwnership(claims, auth.ActionAdUpdate, ad.PersonID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the owner"})
	}

	if req.Name != nil {
		ad.Name = *req.Name
	}
	if req.Description != nil {
		ad.Description = *req.Description
	}
	if req.Price != nil {
		ad.Price = *req.Price
	}
	if req.City != nil {
		ad.City = *req.City
	}
	if req.CategoryID != nil {
		ad.CategoryID = *req.CategoryID
	}
	if req.AdTypeID != nil {
		ad.AdTypeID = *req.AdTypeID
	}

	if err := h.Ads.Update(ctx, ad); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "unknown category or ad type"})
		case errors.Is(err, repository.ErrAdNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, ad)
}

// UpdatePhoto replaces an ad's photo. Owner only, same as Update: the admin
// override applies to deletion alone.
func (h *AdHandler) UpdatePhoto(c echo.Context) error {
	claims := getClaims(c)

	id, err := adID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ad, err := h.Ads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAdNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := auth.CheckOwnership(claims, auth.ActionAdUpdatePhoto, ad.PersonID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the owner"})
	}

	name := storage.DefaultAdPhoto
	if fh, err := c.FormFile("photo"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable photo"})
		}
		defer src.Close()
		name, err = h.Photos.SaveAdPhoto(ctx, src, fh.Size, fh.Header.Get("Content-Type"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store photo failed"})
		}
	}

	old := ad.PhotoName
	if err := h.Ads.UpdatePhoto(ctx, ad.ID, name); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update photo failed"})
	}
	_ = h.Photos.Remove(ctx, old)
	ad.PhotoName = name
	return c.JSON(http.StatusOK, ad)
}

// Delete removes an ad. The right claim is inspected before anything else:
// deletion is the one action an admin may perform on someone else's ad, so
// a token whose right cannot be parsed is rejected as a bad request even
// when the ad does not exist.
func (h *AdHandler) Delete(c echo.Context) error {
	claims := getClaims(c)

	if _, err := claims.Right(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unparsable right claim"})
	}

	id, err := adID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ad id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ad, err := h.Ads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAdNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := auth.CheckOwnership(claims, auth.ActionAdDelete, ad.PersonID); err != nil {
		if errors.Is(err, auth.ErrBadRightClaim) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unparsable right claim"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not the owner"})
	}

	if err := h.Ads.Delete(ctx, ad.ID); err != nil {
		if errors.Is(err, repository.ErrAdNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	_ = h.Photos.Remove(ctx, ad.PhotoName)
	return c.NoContent(http.StatusNoContent)
}

// Categories returns the category reference list.
func (h *AdHandler) Categories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cats, err := h.Ads.ListCategories(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cats)
}

// AdTypes returns the ad-type reference list.
func (h *AdHandler) AdTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	types, err := h.Ads.ListAdTypes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, types)
}
