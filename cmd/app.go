package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"StudyBud/pkg/cache"
	"StudyBud/pkg/config"
	"StudyBud/pkg/database"
	"StudyBud/pkg/forum"
	tokenstore "StudyBud/pkg/token"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openStore connects to the configured database, migrates it and wraps it
// in a forum store. The returned func closes the connection.
func openStore() (*forum.Store, func(), error) {
	level := logger.Warn
	if config.Debug {
		level = logger.Info
	}
	db, err := database.Open(config.DBDriver, config.DatabaseURL, level)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			log.Printf("[db] close: %v", err)
		}
	}
	if err := database.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, err
	}
	c := cache.New(config.TopicCacheMaxItems)
	return forum.NewStore(db, c, config.TopicCacheTTL), closeDB, nil
}

// openTokens picks redis when REDIS_ADDR is set and the in-process store
// otherwise.
func openTokens(ctx context.Context) (tokenstore.Store, func(), error) {
	if config.RedisAddr == "" {
		log.Printf("[auth] using in-memory session revocation")
		return tokenstore.NewMemory(), func() {}, nil
	}
	r, err := tokenstore.DialRedis(ctx, config.RedisAddr, config.RedisPassword, config.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[auth] using redis session revocation at %s", config.RedisAddr)
	return r, func() { _ = r.Close() }, nil
}

// withStore runs fn against an opened store with a bounded context.
func withStore(timeout time.Duration, fn func(ctx context.Context, store *forum.Store) error) error {
	store, closeDB, err := openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDB()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, store)
}

func dbInfo(db *gorm.DB) string {
	return fmt.Sprintf("%s (%s)", config.DBDriver, db.Dialector.Name())
}
