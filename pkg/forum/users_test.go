package forum

import (
	"context"
	"testing"

	"StudyBud/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Register(ctx, RegisterInput{Username: "Alice", Password: "s3cretpass", Confirm: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cretpass"))

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"duplicate after lower-casing", RegisterInput{"ALICE", "an0therpass", "an0therpass"}, "username"},
		{"mismatch", RegisterInput{"bob", "s3cretpass", "s3cretpasz"}, "confirm"},
		{"too short", RegisterInput{"bob", "a1", "a1"}, "password"},
		{"numeric", RegisterInput{"bob", "12345678", "12345678"}, "password"},
		{"no digit", RegisterInput{"bob", "onlyletters", "onlyletters"}, "password"},
		{"bad username", RegisterInput{"bob smith", "s3cretpass", "s3cretpass"}, "username"},
		{"empty", RegisterInput{}, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.in)
			ve, ok := AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.NotEmpty(t, ve.For(tt.field), "errors: %v", ve.Errors)
		})
	}

	var n int64
	require.NoError(t, s.DB().Model(&models.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")

	u, err := s.Authenticate(ctx, "alice", "passw0rd-alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	require.NotNil(t, u.LastLogin)

	u, err = s.Authenticate(ctx, " Alice ", "passw0rd-alice")
	require.NoError(t, err, "usernames are stored lower-case")
	assert.Equal(t, alice.ID, u.ID)

	_, err = s.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthFailed)
	_, err = s.Authenticate(ctx, "nobody", "passw0rd-alice")
	assert.ErrorIs(t, err, ErrAuthFailed)
	_, err = s.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	mustUser(t, s, "bob")

	err := s.UpdateUser(ctx, alice, UserInput{Username: "bob"})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.For("username"))

	err = s.UpdateUser(ctx, alice, UserInput{Username: "alice", Email: "not-an-email"})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.For("email"))

	require.NoError(t, s.UpdateUser(ctx, alice, UserInput{
		Username:   "Alice2",
		Email:      "Alice@Example.com",
		Name:       "Alice Liddell",
		Bio:        "down the rabbit hole",
		AvatarPath: "avatars/1/a.png",
	}))
	got, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "Alice Liddell", got.DisplayName())
	assert.Equal(t, "avatars/1/a.png", got.AvatarPath)

	// an empty avatar path keeps the current one
	require.NoError(t, s.UpdateUser(ctx, got, UserInput{Username: "alice2"}))
	got, err = s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "avatars/1/a.png", got.AvatarPath)
	assert.Equal(t, "alice2", got.DisplayName())
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	room := mustRoom(t, s, alice, "Go", "Gophers", "")
	mustRoom(t, s, bob, "Rust", "Crabs", "")
	_, err := s.PostMessage(ctx, alice, room.ID, MessageInput{Body: "hi"})
	require.NoError(t, err)

	p, err := s.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.User.Username)
	require.Len(t, p.Rooms, 1)
	assert.Equal(t, "Gophers", p.Rooms[0].Name)
	require.Len(t, p.RoomMessages, 1)
	assert.Len(t, p.Topics, 2)

	_, err = s.Profile(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	aliceRoom := mustRoom(t, s, alice, "Go", "Gophers", "")
	bobRoom := mustRoom(t, s, bob, "Rust", "Crabs", "")

	_, err := s.PostMessage(ctx, alice, bobRoom.ID, MessageInput{Body: "from alice"})
	require.NoError(t, err)
	_, err = s.PostMessage(ctx, bob, aliceRoom.ID, MessageInput{Body: "from bob"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, alice.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, alice.ID), ErrNotFound)

	room, err := s.GetRoom(ctx, aliceRoom.ID)
	require.NoError(t, err, "hosted rooms survive their host")
	assert.Nil(t, room.HostID)
	assert.Nil(t, room.Host)
	assert.Len(t, room.Participants, 1)

	other, err := s.RoomDetail(ctx, bobRoom.ID)
	require.NoError(t, err)
	assert.Empty(t, other.RoomMessages, "the user's messages are deleted")
	assert.Empty(t, other.Participants)

	// an orphaned room has no host, so nobody can edit it
	_, err = s.UpdateRoom(ctx, bob, aliceRoom.ID, RoomInput{Topic: "Go", Name: "mine now"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteTopicDetachesRooms(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	alice := mustUser(t, s, "alice")
	room := mustRoom(t, s, alice, "Go", "Gophers", "")
	before, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeleteTopic(ctx, *room.TopicID))
	assert.ErrorIs(t, s.DeleteTopic(ctx, *room.TopicID), ErrNotFound)

	got, err := s.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TopicID)
	assert.Nil(t, got.Topic)
	assert.True(t, got.UpdatedAt.Equal(before.UpdatedAt), "detaching is not an edit")

	topics, err := s.AllTopics(ctx)
	require.NoError(t, err)
	assert.Empty(t, topics)
}
