package store

import (
	"context"
	"time"

	"github.com/matzehuels/dockworks/pkg/errors"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is "memory", "file", "redis" or "mongo". Empty means "file".
	Backend string
	// Path is the file backend directory.
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDatabase string
}

// Open creates the configured backend. Network backends retry transient
// failures three times.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		s, err := NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "open redis store")
		}
		return WithRetry(s, 3, 200*time.Millisecond), nil
	case "mongo":
		s, err := NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "open mongo store")
		}
		return WithRetry(s, 3, 200*time.Millisecond), nil
	}
	return nil, errors.New(errors.ErrCodeConfig, "unknown store backend %q", cfg.Backend)
}
