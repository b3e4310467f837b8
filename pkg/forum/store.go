package forum

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"StudyBud/models"
	"StudyBud/pkg/cache"

	"gorm.io/gorm"
)

const (
	roomOrder        = "rooms.updated_at DESC, rooms.created_at DESC, rooms.id DESC"
	messageOrder     = "messages.updated_at DESC, messages.created_at DESC, messages.id DESC"
	roomMessageOrder = "messages.created_at DESC, messages.id DESC"
	topicsCacheKey   = "topics:all"
	homeTopicsLimit  = 5
	defaultTopicsTTL = 5 * time.Minute
)

// Store is the forum persistence layer. All handlers share one Store; the
// database is the only coordination point between requests.
type Store struct {
	db        *gorm.DB
	cache     *cache.Cache
	topicsTTL time.Duration
}

// NewStore wraps db. c caches the topic list and may be nil.
func NewStore(db *gorm.DB, c *cache.Cache, topicsTTL time.Duration) *Store {
	if topicsTTL <= 0 {
		topicsTTL = defaultTopicsTTL
	}
	return &Store{db: db, cache: c, topicsTTL: topicsTTL}
}

// DB exposes the underlying handle for migrations and admin commands.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// likePattern builds a substring pattern for ilike, escaping LIKE wildcards
// with '!'. Case is folded by the database on both sides, so stored text
// always matches an identical query even where LOWER only knows ASCII.
func likePattern(q string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(q) + "%"
}

// ilike is a case-insensitive LIKE condition on col taking one pattern arg.
func ilike(col string) string {
	return "LOWER(" + col + ") LIKE LOWER(?) ESCAPE '!'"
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func (s *Store) invalidateTopics() {
	s.cache.Delete(topicsCacheKey)
}

func cloneTopics(v any) []models.Topic {
	topics, _ := v.([]models.Topic)
	return slices.Clone(topics)
}

func logf(format string, args ...any) {
	log.Printf("[forum] "+format, args...)
}
