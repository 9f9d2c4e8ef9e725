//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/config"
	"github.com/adboards/adboards-api/internal/database"
	"github.com/adboards/adboards-api/internal/handler"
	"github.com/adboards/adboards-api/internal/repository"
	"github.com/adboards/adboards-api/internal/router"
	"github.com/adboards/adboards-api/internal/storage"
)

const (
	serverPort = 18090
	jwtSecret  = "e2e-secret"
	dbName     = "adboards"
)

var (
	baseURL  = fmt.Sprintf("http://localhost:%d", serverPort)
	tokenCfg = auth.TokenConfig{
		Secret:   jwtSecret,
		Issuer:   "adboards-api",
		Audience: "adboards-clients",
		TTL:      time.Hour,
	}
	testDB *sql.DB
)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	root, err := repoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "locate repo root: %v\n", err)
		os.Exit(1)
	}

	if err := dockerCompose(ctx, root, "up", "-d", "mysql", "minio"); err != nil {
		fmt.Fprintf(os.Stderr, "docker compose up: %v\n", err)
		os.Exit(1)
	}

	if err := waitForMySQL(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mysql not ready: %v\n", err)
		os.Exit(1)
	}

	if err := runMigrations(root); err != nil {
		fmt.Fprintf(os.Stderr, "migrations: %v\n", err)
		os.Exit(1)
	}

	e, err := startServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start server: %v\n", err)
		os.Exit(1)
	}

	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = e.Shutdown(shutdownCtx)
	shutdownCancel()
	os.Exit(code)
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

func dockerCompose(ctx context.Context, root string, args ...string) error {
	cmd := exec.CommandContext(ctx, "docker", append([]string{"compose"}, args...)...)
	cmd.Dir = root
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func waitForMySQL(ctx context.Context) error {
	dsn := fmt.Sprintf("root@tcp(localhost:3306)/%s?parseTime=true", dbName)
	for {
		db, err := sql.Open("mysql", dsn)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				db.Close()
				return nil
			}
			db.Close()
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("mysql: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}
}

func runMigrations(root string) error {
	src := "file://" + filepath.Join(root, "migrations")
	dsn := fmt.Sprintf("mysql://root@tcp(localhost:3306)/%s?multiStatements=true", dbName)
	mig, err := migrate.New(src, dsn)
	if err != nil {
		return err
	}
	defer mig.Close()
	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// startServer wires the application the same way cmd/server does, against
// the compose services, and starts it on a test port.
func startServer() (*echo.Echo, error) {
	db, err := database.Open("root", "", "localhost", "3306", dbName)
	if err != nil {
		return nil, err
	}
	testDB = db

	minioClient, err := storage.NewMinioClient("localhost:9000", "adboards", "adboards-secret", "adboards-photos", false)
	if err != nil {
		return nil, err
	}
	photos := storage.NewPhotoStore(minioClient)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := photos.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	people := repository.NewPersonRepo(db)
	ads := repository.NewAdRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	complaints := repository.NewComplaintRepo(db)
	resets := repository.NewResetTokenRepo(db)

	cfg := config.Config{
		JWTSecret:   jwtSecret,
		BcryptCost:  4, // fast hashing for tests
		ResetTTLMin: 30,
	}

	authH := handler.NewAuthHandler(cfg, tokenCfg, people, resets)
	personH := handler.NewPersonHandler(people, photos)
	adH := handler.NewAdHandler(ads, favorites, photos)
	favH := handler.NewFavoriteHandler(favorites)
	compH := handler.NewComplaintHandler(complaints)
	imageH := handler.NewImageHandler(photos)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterPublic(e, adH, imageH, tokenCfg, nil)
	router.RegisterPeople(e, authH, personH, tokenCfg, nil)
	router.RegisterAds(e, adH, favH, compH, tokenCfg)
	router.RegisterAdmin(e, personH, compH, tokenCfg)

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", serverPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "server: %v\n", err)
		}
	}()
	return e, nil
}

func waitForHealth(ctx context.Context, url string) error {
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// ---- HTTP helpers ----

func doJSON(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func register(t *testing.T, login, password string) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, "/api/people/registration", "", map[string]any{
		"login":    login,
		"password": password,
		"name":     "Test " + login,
		"city":     "Riga",
		"email":    login + "@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func login(t *testing.T, login, password string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, "/api/people/authorization", "", map[string]any{
		"login":    login,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token struct {
			Token string `json:"token"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token.Token)
	return out.Token.Token
}

func promoteToAdmin(t *testing.T, loginName string) {
	t.Helper()
	_, err := testDB.Exec("UPDATE people SET right_id = 2 WHERE login = ?", loginName)
	require.NoError(t, err)
}

func createAd(t *testing.T, token, name string) uint64 {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, "/api/ads", token, map[string]any{
		"name":        name,
		"description": "e2e ad",
		"price":       100,
		"city":        "Riga",
		"categoryId":  1,
		"adTypeId":    1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var ad struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &ad))
	require.NotZero(t, ad.ID)
	return ad.ID
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// ---- Tests ----

func TestRegisterLoginAndProfile(t *testing.T) {
	user := uniq("user")
	register(t, user, "pass123!")

	// Duplicate login conflicts.
	resp, _ := doJSON(t, http.MethodPost, "/api/people/registration", "", map[string]any{
		"login": user, "password": "other",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password is 401.
	resp, _ = doJSON(t, http.MethodPost, "/api/people/authorization", "", map[string]any{
		"login": user, "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, user, "pass123!")
	resp, body := doJSON(t, http.MethodGet, "/api/people/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Login string `json:"login"`
	}
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, user, me.Login)

	// Me requires a token.
	resp, _ = doJSON(t, http.MethodGet, "/api/people/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdOwnershipAndAdminOverride(t *testing.T) {
	owner := uniq("owner")
	intruder := uniq("intruder")
	adminUser := uniq("admin")
	register(t, owner, "pw1")
	register(t, intruder, "pw2")
	register(t, adminUser, "pw3")
	promoteToAdmin(t, adminUser)

	ownerTok := login(t, owner, "pw1")
	intruderTok := login(t, intruder, "pw2")
	adminTok := login(t, adminUser, "pw3")

	adID := createAd(t, ownerTok, uniq("bike"))

	// Anyone sees the ad anonymously.
	resp, _ := doJSON(t, http.MethodGet, fmt.Sprintf("/api/ads/%d", adID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A non-owner cannot update it.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("/api/ads/%d", adID), intruderTok, map[string]any{"name": "stolen"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Neither can an admin: the override exists only on delete.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("/api/ads/%d", adID), adminTok, map[string]any{"name": "edited"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner can.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("/api/ads/%d", adID), ownerTok, map[string]any{"name": "renamed"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A non-owner cannot delete it.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/ads/%d", adID), intruderTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// An admin can delete someone else's ad.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/ads/%d", adID), adminTok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deleting again is 404.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/ads/%d", adID), adminTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteWithUnparsableRightIsBadRequest(t *testing.T) {
	user := uniq("badright")
	register(t, user, "pw")
	tok := login(t, user, "pw")
	adID := createAd(t, tok, uniq("sofa"))

	// Forge a token with a right claim the server cannot map, signed with
	// the real secret so verification itself succeeds.
	now := time.Now().UTC()
	forged := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":     1,
		"id":      1,
		"login":   user,
		"rightId": "Superuser",
		"iss":     tokenCfg.Issuer,
		"aud":     tokenCfg.Audience,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	// Bad request, not forbidden, and checked before the ad lookup: a
	// missing ad id yields the same 400.
	resp, _ := doJSON(t, http.MethodDelete, fmt.Sprintf("/api/ads/%d", adID), raw, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, "/api/ads/999999999", raw, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The same broken right does not block an update by the owner, which
	// never inspects the claim.
	resp, _ = doJSON(t, http.MethodPut, fmt.Sprintf("/api/ads/%d", adID), tok, map[string]any{"name": "still mine"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFavorites(t *testing.T) {
	alice := uniq("alice")
	bob := uniq("bob")
	register(t, alice, "pw")
	register(t, bob, "pw")
	aliceTok := login(t, alice, "pw")
	bobTok := login(t, bob, "pw")

	adID := createAd(t, bobTok, uniq("lamp"))

	// Not yet a favorite.
	resp, _ := doJSON(t, http.MethodGet, fmt.Sprintf("/api/favorites/%d", adID), aliceTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("/api/favorites/%d", adID), aliceTok, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate marking.
	resp, _ = doJSON(t, http.MethodPost, fmt.Sprintf("/api/favorites/%d", adID), aliceTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("/api/favorites/%d", adID), aliceTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The flag is per person: bob has not marked it.
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("/api/favorites/%d", adID), bobTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Single-ad lookup carries the flag for the marker only.
	resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("/api/ads/%d", adID), aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ad struct {
		IsFavorite bool `json:"isFavorite"`
	}
	require.NoError(t, json.Unmarshal(body, &ad))
	assert.True(t, ad.IsFavorite)

	// Favoriting a missing ad is 404.
	resp, _ = doJSON(t, http.MethodPost, "/api/favorites/999999999", aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unfavorite, then the listing no longer contains it.
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", adID), aliceTok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", adID), aliceTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestComplaintsAndAdminEndpoints(t *testing.T) {
	user := uniq("reporter")
	adminUser := uniq("moderator")
	register(t, user, "pw")
	register(t, adminUser, "pw")
	promoteToAdmin(t, adminUser)

	userTok := login(t, user, "pw")
	adminTok := login(t, adminUser, "pw")

	adID := createAd(t, userTok, uniq("scam"))

	resp, body := doJSON(t, http.MethodPost, "/api/complaints", userTok, map[string]any{
		"adId": adID, "text": "suspicious listing",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var cp struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &cp))

	// Complaints against a missing ad are 404.
	resp, _ = doJSON(t, http.MethodPost, "/api/complaints", userTok, map[string]any{
		"adId": 999999999, "text": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Only admins list and delete complaints.
	resp, _ = doJSON(t, http.MethodGet, "/api/admin/complaints", userTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, "/api/admin/complaints", adminTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("/api/admin/complaints/%d", cp.ID), adminTok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Admin people listing and count.
	resp, _ = doJSON(t, http.MethodGet, "/api/admin/people", adminTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, "/api/admin/people/count", adminTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Admin deletes a person by login; their ads go with them.
	resp, _ = doJSON(t, http.MethodDelete, "/api/admin/people?login="+user, adminTok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("/api/ads/%d", adID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublicBrowse(t *testing.T) {
	resp, body := doJSON(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(body, &cats))
	assert.NotEmpty(t, cats)

	resp, _ = doJSON(t, http.MethodGet, "/api/ad-types", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, "/api/ads", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
