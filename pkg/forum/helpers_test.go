package forum

import (
	"context"
	"testing"
	"time"

	"StudyBud/models"
	"StudyBud/pkg/cache"
	"StudyBud/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// newTestStore opens an in-memory SQLite database for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	return NewStore(db, cache.New(8), time.Minute)
}

func mustUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterInput{
		Username: username,
		Password: "passw0rd-" + username,
		Confirm:  "passw0rd-" + username,
	})
	require.NoError(t, err)
	return u
}

func mustRoom(t *testing.T, s *Store, host *models.User, topic, name, desc string) *models.Room {
	t.Helper()
	r, err := s.CreateRoom(context.Background(), host, RoomInput{Topic: topic, Name: name, Description: desc})
	require.NoError(t, err)
	return r
}

func roomIDs(rooms []models.Room) []uint {
	ids := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}
