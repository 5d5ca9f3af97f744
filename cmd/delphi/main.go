package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/Delphi/adapters/theoddsapi"
	"github.com/XavierBriggs/Delphi/internal/config"
	"github.com/XavierBriggs/Delphi/internal/consensus"
	"github.com/XavierBriggs/Delphi/internal/credentials"
	"github.com/XavierBriggs/Delphi/internal/normalize"
	"github.com/XavierBriggs/Delphi/internal/registry"
	"github.com/XavierBriggs/Delphi/internal/scheduler"
	"github.com/XavierBriggs/Delphi/internal/service"
	"github.com/XavierBriggs/Delphi/internal/snapcache"
	"github.com/XavierBriggs/Delphi/internal/writer"
	"github.com/XavierBriggs/Delphi/pkg/contracts"
	"github.com/XavierBriggs/Delphi/sports/soccer"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	setupLogging(cfg.LogLevel)
	log := logrus.WithField("component", "main")

	ctx := context.Background()

	pool := credentials.NewPool(cfg.APIKeys, cfg.KeyCooldown)
	log.WithField("keys", pool.Size()).Info("credential pool initialized")

	client := theoddsapi.NewClient(pool, theoddsapi.Config{
		Timeout:     cfg.RequestTimeout,
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		BackoffMax:  cfg.BackoffMax,
	})

	var cache contracts.SnapshotCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("failed to connect to Redis")
		}
		cache = snapcache.NewCache(redisClient, cfg.SnapshotTTL)
		log.WithField("ttl", cfg.SnapshotTTL).Info("snapshot cache enabled")
	} else {
		log.Info("no Redis address configured, snapshot caching disabled")
	}

	var oppWriter *writer.Writer
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("failed to open Postgres connection")
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.WithError(err).Fatal("failed to ping Postgres")
		}
		oppWriter = writer.NewWriter(db, cfg.DedupeWindow)
		log.Info("opportunity writer enabled")
	} else {
		log.Info("no Postgres DSN configured, opportunities will be logged only")
	}

	normalizer, err := normalize.New(cfg.FuzzyThreshold)
	if err != nil {
		log.WithError(err).Fatal("failed to build outcome normalizer")
	}

	svc := service.New(client, cache, consensus.New(normalizer))

	leagueRegistry := registry.NewLeagueRegistry()
	for _, league := range soccer.Leagues() {
		if err := leagueRegistry.Register(league); err != nil {
			log.WithError(err).Fatal("failed to register league")
		}
	}
	log.WithField("leagues", leagueRegistry.Count()).Info("league registry initialized")

	sched := scheduler.NewScheduler(svc, oppWriter, pool, leagueRegistry, scheduler.Options{
		MatchWindow:     cfg.MatchWindow,
		TotalStake:      cfg.TotalStake,
		RecoverInterval: cfg.RecoverInterval,
		JitterSeconds:   5,
	})

	if err := sched.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	log.WithFields(logrus.Fields{
		"window": cfg.MatchWindow,
		"stake":  cfg.TotalStake,
	}).Info("delphi started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	sched.Stop()
	log.Info("delphi stopped")
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}
