package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/muhozi/WeConnect-2/internal/config"
	"github.com/muhozi/WeConnect-2/internal/database"
	"github.com/muhozi/WeConnect-2/internal/handler"
	"github.com/muhozi/WeConnect-2/internal/hashid"
	"github.com/muhozi/WeConnect-2/internal/queue"
	"github.com/muhozi/WeConnect-2/internal/repository"
	"github.com/muhozi/WeConnect-2/internal/router"
	"github.com/muhozi/WeConnect-2/internal/service"
	"github.com/muhozi/WeConnect-2/internal/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	codec, err := hashid.New(cfg.HashidSalt, cfg.HashidMinLen)
	if err != nil {
		log.Fatalf("hashid: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	businesses := repository.NewBusinessRepo(db)
	reviews := repository.NewReviewRepo(db)

	// Rule sets compile here; a broken rule table stops the boot.
	rules := validation.NewRuleSets(validation.UniqueChecks{
		Username: users.UsernameTaken,
		Email:    users.EmailTaken,
	})

	rdb := config.NewRedisClient() // nil disables rate limiting

	// Drain review.created events in the background.
	go queue.StartReviewConsumer()

	e := echo.New()
	router.RegisterRoutes(e, router.Deps{
		Auth:       handler.NewAuthHandler(cfg, users, tokens, rules),
		Businesses: handler.NewBusinessHandler(businesses, reviews, codec, rules),
		Reviews:    handler.NewReviewHandler(businesses, reviews, codec, rules, service.PublishReviewCreated),
		Tokens:     tokens,
		RateLimit:  config.LoadRateLimitConfig(),
		Redis:      rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
