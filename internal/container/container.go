package container

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"mtt/feedgen/internal/config"
	"mtt/feedgen/internal/feed"
	"mtt/feedgen/internal/progress"
	"mtt/feedgen/internal/repository"
	"mtt/feedgen/internal/server"

	"github.com/benbjohnson/clock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Repository repository.CatalogRepository
	Generator  *feed.Generator
	Server     *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}

	container := &Container{
		Config: cfg,
		db:     db,
	}

	repo := repository.NewCatalogRepository(db)
	container.Repository = repo

	// Redis only carries progress state; an unset host turns it off.
	if cfg.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("Connected to Redis successfully")
		container.redis = rdb
	}

	container.Generator = feed.NewGenerator(repo, feed.Settings{
		ShopName:       cfg.Feed.ShopName,
		CompanyName:    cfg.Feed.CompanyName,
		FeedsDir:       cfg.Feed.FeedsDir,
		PageSize:       cfg.Feed.PageSize,
		PagesPerSecond: cfg.Feed.PagesPerSecond,
	}, clock.New())

	container.Server = server.New(cfg.Feed.FeedsDir)

	return container, nil
}

// Generate runs one feed generation for the configured city.
func (c *Container) Generate(ctx context.Context) error {
	cfg := c.Config

	city, err := c.Repository.CityByID(ctx, cfg.Feed.CityID)
	if err != nil {
		return err
	}

	// Bare city slugs get the shop domain appended; full hostnames pass through.
	if !strings.Contains(city.URL, ".") && cfg.Feed.DomainSuffix != "" {
		city.URL = city.URL + "." + cfg.Feed.DomainSuffix
	}

	total, err := c.Repository.ProductCount(ctx, city.ID)
	if err != nil {
		return err
	}

	reporters := progress.Multi{progress.NewLogReporter(total, cfg.Feed.ProgressInterval)}
	if c.redis != nil {
		reporters = append(reporters, progress.NewRedisReporter(c.redis, city.ID, cfg.Feed.ProgressInterval))
	}

	log.Infof("Generating feed for city %d (%s), ~%d products", city.ID, city.URL, total)
	return c.Generator.Generate(ctx, city, reporters)
}

// Serve runs the feed HTTP server until interrupted.
func (c *Container) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", c.Config.Server.Host, c.Config.Server.Port)
	return c.Server.Run(ctx, addr)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	if c.redis != nil {
		c.redis.Close()
	}

	return nil
}
