package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/model"
	"github.com/adboards/adboards-api/internal/repository"
)

// ComplaintHandler lets any authenticated person file a complaint against an
// ad. Listing and removing complaints is reserved for administrators.
type ComplaintHandler struct {
	Complaints *repository.ComplaintRepo
}

func NewComplaintHandler(complaints *repository.ComplaintRepo) *ComplaintHandler {
	return &ComplaintHandler{Complaints: complaints}
}

type createComplaintReq struct {
	AdID uint64 `json:"adId"`
	Text string `json:"text"`
}

// Add files a complaint from the caller against an ad.
func (h *ComplaintHandler) Add(c echo.Context) error {
	claims := getClaims(c)

	var req createComplaintReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AdID == 0 || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "adId and text are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cp := &model.Complaint{
		PersonID: claims.PersonID,
		AdID:     req.AdID,
		Text:     req.Text,
		Date:     time.Now().UTC(),
	}
	if err := h.Complaints.Create(ctx, cp); err != nil {
		if errors.Is(err, repository.ErrAdNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, cp)
}

// List returns every filed complaint. Admin only.
func (h *ComplaintHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	complaints, err := h.Complaints.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, complaints)
}

// Delete removes a complaint by id. Admin only.
func (h *ComplaintHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid complaint id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Complaints.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrComplaintNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "complaint not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
