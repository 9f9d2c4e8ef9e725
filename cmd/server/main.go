package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/adboards/adboards-api/internal/auth"
	"github.com/adboards/adboards-api/internal/config"
	"github.com/adboards/adboards-api/internal/database"
	"github.com/adboards/adboards-api/internal/handler"
	"github.com/adboards/adboards-api/internal/mail"
	"github.com/adboards/adboards-api/internal/middleware"
	"github.com/adboards/adboards-api/internal/queue"
	"github.com/adboards/adboards-api/internal/repository"
	"github.com/adboards/adboards-api/internal/router"
	"github.com/adboards/adboards-api/internal/storage"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	tokenCfg := auth.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Duration(cfg.TokenTTLDays) * 24 * time.Hour,
	}

	minioClient, err := storage.NewMinioClient(
		cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
		cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}
	photos := storage.NewPhotoStore(minioClient)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := photos.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatalf("object storage bucket: %v", err)
		}
		cancel()
	}

	// Redis is optional: without it the rate limiter and the response cache
	// simply stay off.
	rdb := config.NewRedisClient()
	var limiter, cache echo.MiddlewareFunc
	if rdb != nil {
		if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled {
			limiter = middleware.NewTokenBucket(rlCfg, rdb)
		}
		if cCfg := config.LoadCacheConfig(); cCfg.Enabled {
			cache = middleware.NewResponseCache(cCfg, rdb)
		}
	}

	// Recovery mail is delivered by a background consumer fed through the
	// broker, so a slow SMTP relay never blocks a request.
	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	go func() {
		if err := queue.StartMailConsumer(mailer.Send); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	people := repository.NewPersonRepo(db)
	ads := repository.NewAdRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	complaints := repository.NewComplaintRepo(db)
	resets := repository.NewResetTokenRepo(db)

	authH := handler.NewAuthHandler(cfg, tokenCfg, people, resets)
	personH := handler.NewPersonHandler(people, photos)
	adH := handler.NewAdHandler(ads, favorites, photos)
	favH := handler.NewFavoriteHandler(favorites)
	compH := handler.NewComplaintHandler(complaints)
	imageH := handler.NewImageHandler(photos)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e, adH, imageH, tokenCfg, cache)
	router.RegisterPeople(e, authH, personH, tokenCfg, limiter)
	router.RegisterAds(e, adH, favH, compH, tokenCfg)
	router.RegisterAdmin(e, personH, compH, tokenCfg)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
