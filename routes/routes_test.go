package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"StudyBud/pkg/cache"
	"StudyBud/pkg/config"
	"StudyBud/pkg/database"
	"StudyBud/pkg/forum"
	"StudyBud/pkg/services"
	tokenstore "StudyBud/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *forum.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JWTSecret = "test-secret"
	config.SessionCookieName = "studybud_session"
	config.SessionTTL = time.Hour
	config.UploadDir = t.TempDir()
	config.UploadBaseURL = "/uploads"
	config.CORSOrigins = []string{"http://localhost:3000"}

	db, err := database.Open("sqlite", ":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	storage, err := services.NewObjectStorageService(config.UploadDir, config.UploadBaseURL)
	require.NoError(t, err)
	store := forum.NewStore(db, cache.New(8), time.Minute)
	r, err := NewRouter(Deps{Store: store, Tokens: tokenstore.NewMemory(), Storage: storage})
	require.NoError(t, err)
	return r, store
}

// browser replays the session cookie between requests and never follows
// redirects.
type browser struct {
	t       *testing.T
	r       http.Handler
	session string
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.session != "" {
		req.AddCookie(&http.Cookie{Name: config.SessionCookieName, Value: b.session})
	}
	w := httptest.NewRecorder()
	b.r.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == config.SessionCookieName {
			b.session = c.Value
			if c.MaxAge < 0 {
				b.session = ""
			}
		}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

func register(t *testing.T, r http.Handler, username string) *browser {
	t.Helper()
	b := &browser{t: t, r: r}
	pw := "passw0rd-" + strings.ToLower(username)
	w := b.post("/register", url.Values{"username": {username}, "password": {pw}, "confirm": {pw}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	require.NotEmpty(t, b.session)
	return b
}

func TestForumEndToEnd(t *testing.T) {
	r, store := setupRouter(t)
	ctx := t.Context()

	alice := register(t, r, "Alice")
	w := alice.post("/create-room", url.Values{"topic": {"Math"}, "name": {"Algebra Help"}, "description": {"quadratics"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))

	rooms, err := store.SearchRooms(ctx, "")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	room := rooms[0]
	roomPath := "/room/" + itoa(room.ID)

	anon := &browser{t: t, r: r}
	for q, want := range map[string]bool{"algebra": true, "math": true, "MATH": true, "physics": false} {
		w := anon.get("/?q=" + q)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, strings.Contains(w.Body.String(), "Algebra Help"), "q=%s", q)
	}

	w = alice.post(roomPath, url.Values{"body": {"Hello"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, roomPath, w.Header().Get("Location"))

	detail, err := store.RoomDetail(ctx, room.ID)
	require.NoError(t, err)
	require.NotEmpty(t, detail.RoomMessages)
	assert.Equal(t, "Hello", detail.RoomMessages[0].Body)
	require.Len(t, detail.Participants, 1)
	assert.Equal(t, "alice", detail.Participants[0].Username)
	msgPath := "/delete-message/" + itoa(detail.RoomMessages[0].ID)

	w = anon.get(roomPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>Hello</p>")

	bob := register(t, r, "Bob")
	bob.post("/logout", nil)
	require.Empty(t, bob.session)
	w = bob.post("/login", url.Values{"username": {"bob"}, "password": {"passw0rd-bob"}})
	require.Equal(t, http.StatusFound, w.Code)
	require.NotEmpty(t, bob.session)

	for _, path := range []string{"/delete-room/" + itoa(room.ID), "/update-room/" + itoa(room.ID), msgPath} {
		w = bob.get(path)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Equal(t, forum.ForbiddenMessage, w.Body.String(), path)
		w = bob.post(path, url.Values{"topic": {"x"}, "name": {"y"}})
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
	_, err = store.GetRoom(ctx, room.ID)
	require.NoError(t, err, "the room survives forbidden attempts")

	w = alice.post(msgPath, nil)
	require.Equal(t, http.StatusFound, w.Code)
	w = alice.post("/delete-room/"+itoa(room.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	_, err = store.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, forum.ErrNotFound)
}

func TestLoginFailures(t *testing.T) {
	r, _ := setupRouter(t)
	register(t, r, "alice")

	b := &browser{t: t, r: r}
	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong-pass1"}},
		{"username": {"nobody"}, "password": {"passw0rd-alice"}},
	} {
		w := b.post("/login", form)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Username OR password doesnt exist")
		assert.Empty(t, b.session)
	}

	w := b.post("/login?next=/topics", url.Values{"username": {"ALICE"}, "password": {"passw0rd-alice"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/topics", w.Header().Get("Location"))

	w = b.get("/login")
	assert.Equal(t, http.StatusFound, w.Code, "signed-in users skip the login page")
}

func TestLogoutRevokesSession(t *testing.T) {
	r, _ := setupRouter(t)
	alice := register(t, r, "alice")
	stolen := alice.session

	alice.post("/logout", nil)
	replay := &browser{t: t, r: r, session: stolen}
	w := replay.get("/create-room")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?next="))
}

func TestRegisterValidation(t *testing.T) {
	r, _ := setupRouter(t)
	b := &browser{t: t, r: r}
	w := b.post("/register", url.Values{"username": {"bob"}, "password": {"short"}, "confirm": {"other"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred during registration")
	assert.Empty(t, b.session)
}

func TestAnonymousAccess(t *testing.T) {
	r, store := setupRouter(t)
	alice := register(t, r, "alice")
	alice.post("/create-room", url.Values{"topic": {"Go"}, "name": {"Gophers"}})
	rooms, err := store.SearchRooms(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	roomPath := "/room/" + itoa(rooms[0].ID)

	anon := &browser{t: t, r: r}
	w := anon.post(roomPath, url.Values{"body": {"drive-by"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape(roomPath), w.Header().Get("Location"))
	detail, err := store.RoomDetail(t.Context(), rooms[0].ID)
	require.NoError(t, err)
	assert.Empty(t, detail.RoomMessages)

	for _, path := range []string{"/create-room", "/update-user", "/delete-room/1"} {
		w := anon.get(path)
		assert.Equal(t, http.StatusFound, w.Code, path)
	}
	for _, path := range []string{"/room/999", "/profile/999", "/room/abc", "/no-such-page"} {
		w := anon.get(path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	for _, path := range []string{"/", "/topics", "/activity", "/profile/1", "/static/style.css"} {
		w := anon.get(path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestInvalidForms(t *testing.T) {
	r, store := setupRouter(t)
	alice := register(t, r, "alice")

	w := alice.post("/create-room", url.Values{"topic": {""}, "name": {""}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
	topics, err := store.AllTopics(t.Context())
	require.NoError(t, err)
	assert.Empty(t, topics)

	alice.post("/create-room", url.Values{"topic": {"Go"}, "name": {"Gophers"}})
	rooms, err := store.SearchRooms(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	w = alice.post("/room/"+itoa(rooms[0].ID), url.Values{"body": {"   "}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
}

func TestUpdateUser(t *testing.T) {
	r, store := setupRouter(t)
	alice := register(t, r, "alice")

	w := alice.get("/update-user")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="alice"`)

	w = alice.post("/update-user", url.Values{"username": {"alice"}, "name": {"Alice L"}, "email": {"a@example.com"}, "bio": {"hi"}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	u, err := store.FindUserByUsername(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice L", u.Name)
	assert.Equal(t, "/profile/"+itoa(u.ID), w.Header().Get("Location"))

	// avatars are linked through the storage service's public URL
	require.NoError(t, store.UpdateUser(t.Context(), u, forum.UserInput{Username: "alice", AvatarPath: "avatars/1/a.png"}))
	w = alice.get("/profile/" + itoa(u.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `src="/uploads/avatars/1/a.png"`)
}

func TestAPI(t *testing.T) {
	r, store := setupRouter(t)
	alice := register(t, r, "alice")
	alice.post("/create-room", url.Values{"topic": {"Go"}, "name": {"Gophers"}})
	rooms, err := store.SearchRooms(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	anon := &browser{t: t, r: r}
	w := anon.get("/api/rooms?q=goph")
	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Gophers", got[0]["name"])
	assert.NotContains(t, w.Body.String(), "password")

	w = anon.get("/api/rooms/" + itoa(rooms[0].ID))
	assert.Equal(t, http.StatusOK, w.Code)
	w = anon.get("/api/rooms/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = anon.get("/api")
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
