package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/storage"
)

// ImageHandler streams stored photos back to clients. Keys come from the
// photoName fields of people and ads; anything outside the photo namespace
// is rejected before hitting the object store.
type ImageHandler struct {
	Photos *storage.PhotoStore
}

func NewImageHandler(photos *storage.PhotoStore) *ImageHandler {
	return &ImageHandler{Photos: photos}
}

// Get serves GET /images/<key>.
func (h *ImageHandler) Get(c echo.Context) error {
	key := strings.TrimPrefix(c.Param("*"), "/")
	if !storage.ValidKey(key) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rc, err := h.Photos.Open(ctx, key)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, storage.ContentTypeFor(key), rc)
}
