package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/config"
	"github.com/adboards/adboards-api/internal/model"
	"github.com/adboards/adboards-api/internal/queue"
	"github.com/adboards/adboards-api/internal/repository"
	queue_publisher "github.com/adboards/adboards-api/internal/service"
	"github.com/adboards/adboards-api/internal/storage"
	"github.com/adboards/adboards-api/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and password
// recovery. All of its endpoints are anonymous: they exist to establish an
// identity, not to consume one.
type AuthHandler struct {
	Cfg      config.Config
	TokenCfg auth.TokenConfig
	People   *repository.PersonRepo
	Resets   *repository.ResetTokenRepo
}

func NewAuthHandler(cfg config.Config, tokenCfg auth.TokenConfig, people *repository.PersonRepo, resets *repository.ResetTokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, TokenCfg: tokenCfg, People: people, Resets: resets}
}

// ----- DTOs -----

type registerReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Birthday string `json:"birthday"` // YYYY-MM-DD
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type loginReq struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type recoverReq struct {
	Login string `json:"login"`
}

type resetReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type loginResp struct {
	Person *model.Person    `json:"person"`
	Token  auth.IssuedToken `json:"token"`
}

// Register creates a person with the Normal right and returns the stored
// record. No token is issued here; the client logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login/password required"})
	}
	// The DATE column rejects the zero time, so an omitted birthday gets
	// the epoch date instead.
	birthday := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if req.Birthday != "" {
		var err error
		if birthday, err = time.Parse("2006-01-02", req.Birthday); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid birthday"})
		}
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	p := &model.Person{
		Login:        req.Login,
		PasswordHash: hash,
		Name:         req.Name,
		City:         req.City,
		Birthday:     birthday,
		Phone:        req.Phone,
		Email:        req.Email,
		RightID:      model.RightNormal,
		PhotoName:    storage.DefaultPersonPhoto,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.People.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrLoginExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "login already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create person failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Login verifies credentials and issues the identity token. The token
// embeds the person's right at this moment; a right change afterwards only
// shows up on the next login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.People.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(p.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := auth.IssueToken(h.TokenCfg, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, loginResp{Person: p, Token: token})
}

// RecoverPassword starts password recovery for a login: a single-use reset
// token is stored (hash only) and its raw value is mailed to the person via
// the mail queue. The password itself never leaves the database, and never
// could — only its bcrypt hash is stored.
func (h *AuthHandler) RecoverPassword(c echo.Context) error {
	var req recoverReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Login) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.People.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "person not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reset, err := utils.NewResetToken(time.Duration(h.Cfg.ResetTTLMin) * time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue reset failed"})
	}
	if err := h.Resets.StoreReset(ctx, p.ID, utils.HashResetRaw(reset.Raw), reset.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save reset failed"})
	}

	ev := queue.MailRequestedEvent{
		To:          p.Email,
		Subject:     "AdBoards password recovery",
		HTML:        fmt.Sprintf("<p>Your password reset code: <b>%s</b></p><p>It expires in %d minutes.</p>", reset.Raw, h.Cfg.ResetTTLMin),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishMailRequested(ctx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "queue mail failed"})
	}
	return c.NoContent(http.StatusAccepted)
}

// ResetPassword consumes a reset token and installs a new bcrypt hash. An
// unknown, expired or already-used token is a bad request; nothing reveals
// which of the three it was.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/password required"})
	}
	hash := utils.HashResetRaw(strings.TrimSpace(req.Token))

	ctx, cancel := reqCtx(c)
	defer cancel()

	personID, err := h.Resets.ValidateReset(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Resets.ConsumeByHash(ctx, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consume reset failed"})
	}

	newHash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.People.UpdatePassword(ctx, personID, newHash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
