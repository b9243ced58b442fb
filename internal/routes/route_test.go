package routes_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/festa/internal/assistant"
	"github.com/joshua-takyi/festa/internal/config"
	"github.com/joshua-takyi/festa/internal/container"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/routes"
	"github.com/joshua-takyi/festa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminSecret = "Lulu2024"

type testApp struct {
	router    *gin.Engine
	generator *testutil.StubGenerator
	uploader  *testutil.StubUploader
	persona   *assistant.Persona
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Total   int             `json:"total"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		Environment:    "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		AdminSecret:    adminSecret,
		AdminTokenKey:  "test-key",
		AdminTokenTTL:  time.Hour,
		LLMTimeout:     time.Second,
	}
	persona, err := assistant.DefaultPersona()
	require.NoError(t, err)

	s := testutil.NewStores()
	app := &testApp{
		generator: &testutil.StubGenerator{Reply: "Oi! 🍎"},
		uploader:  testutil.NewStubUploader(),
		persona:   persona,
	}
	c, err := container.Assemble(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)),
		&container.Stores{Guests: s.Guests, Photos: s.Photos, Party: s.Party, Timeline: s.Timeline},
		persona,
		container.Collaborators{Uploader: app.uploader, Generator: app.generator},
	)
	require.NoError(t, err)

	app.router = routes.SetupRoutes(c)
	return app
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(t, req)
}

func (a *testApp) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/admin/session", "", map[string]string{"secret": adminSecret})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminSession(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodPost, "/api/v1/admin/session", "", map[string]string{"secret": "lulu2024"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/rsvps", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/rsvps", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/v1/admin/session", "", map[string]string{"secret": adminSecret})
	require.Equal(t, http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/rsvps", nil)
	req.AddCookie(cookie)
	w, _ = app.serve(t, req)
	assert.Equal(t, http.StatusOK, w.Code, "cookie carries the capability")
}

func TestRSVPFlow(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodPost, "/api/v1/rsvps", "", map[string]any{
		"name": "Ana", "will_attend": true, "adults_count": 2, "children_count": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = app.do(t, http.MethodPost, "/api/v1/rsvps", "", map[string]any{
		"name": "Bia", "will_attend": false, "adults_count": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := app.do(t, http.MethodPost, "/api/v1/rsvps", "", map[string]any{"name": "Carla", "adults_count": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "adults_count", env.Field)

	token := app.login(t)
	w, env = app.do(t, http.MethodGet, "/api/v1/admin/rsvps", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	report := decode[struct {
		Guests  []models.Guest `json:"guests"`
		Summary struct {
			Confirmed     int `json:"confirmed"`
			Declined      int `json:"declined"`
			TotalAdults   int `json:"total_adults"`
			TotalChildren int `json:"total_children"`
		} `json:"summary"`
	}](t, env.Data)
	assert.Len(t, report.Guests, 2)
	assert.Equal(t, 1, report.Summary.Confirmed)
	assert.Equal(t, 1, report.Summary.Declined)
	assert.Equal(t, 2, report.Summary.TotalAdults)
	assert.Equal(t, 1, report.Summary.TotalChildren)

	w, _ = app.do(t, http.MethodDelete, "/api/v1/admin/rsvps/"+report.Guests[0].ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodDelete, "/api/v1/admin/rsvps/"+report.Guests[0].ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPhotoModerationFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	w, env := app.do(t, http.MethodPost, "/api/v1/photos", "", map[string]string{
		"guest_name": "Ana", "caption": "Bolo", "photo_url": "X",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	photo := decode[models.Photo](t, env.Data)

	_, env = app.do(t, http.MethodGet, "/api/v1/photos", "", nil)
	assert.Equal(t, 0, env.Total)

	_, env = app.do(t, http.MethodGet, "/api/v1/admin/photos/pending", token, nil)
	assert.Equal(t, 1, env.Total)

	w, _ = app.do(t, http.MethodPost, "/api/v1/admin/photos/"+photo.ID+"/approve", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/v1/admin/photos/"+photo.ID+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = app.do(t, http.MethodGet, "/api/v1/photos", "", nil)
	gallery := decode[[]models.Photo](t, env.Data)
	require.Len(t, gallery, 1)
	assert.Equal(t, photo.ID, gallery[0].ID)

	_, env = app.do(t, http.MethodGet, "/api/v1/admin/photos/pending", token, nil)
	assert.Equal(t, 0, env.Total)

	w, _ = app.do(t, http.MethodDelete, "/api/v1/admin/photos/"+photo.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodPost, "/api/v1/admin/photos/"+photo.ID+"/approve", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartPhoto(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("guest_name", "Ana"))
	require.NoError(t, mw.WriteField("caption", "Bolo"))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestPhotoUpload(t *testing.T) {
	app := newTestApp(t)
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

	w, env := app.serve(t, multipartPhoto(t, "bolo.png", png))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	photo := decode[models.Photo](t, env.Data)
	assert.Equal(t, "https://media.test/photos/bolo.png", photo.PhotoURL)
	assert.Equal(t, png, app.uploader.Uploaded["photos/bolo.png"])

	w, env = app.serve(t, multipartPhoto(t, "notes.png", []byte("just some text")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file", env.Field)

	app.uploader.Err = errors.New("cloud down")
	w, _ = app.serve(t, multipartPhoto(t, "again.png", png))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPartyFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	w, _ := app.do(t, http.MethodGet, "/api/v1/party", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	party := map[string]string{
		"event_name": "1 ano do Lulu", "date": "2025-11-29", "time": "15:00", "address": "Rua das Frutas, 10",
	}
	w, _ = app.do(t, http.MethodPut, "/api/v1/admin/party", "", party)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(t, http.MethodPut, "/api/v1/admin/party", token, party)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := app.do(t, http.MethodGet, "/api/v1/party", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1 ano do Lulu", decode[models.PartyInfo](t, env.Data).EventName)

	w, _ = app.do(t, http.MethodPost, "/api/v1/chat", "", map[string]string{"question": "Onde é a festa?"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, app.generator.Calls())
	assert.Contains(t, app.generator.Prompts[0], "29/11/2025")
	assert.NotContains(t, app.generator.Prompts[0], app.persona.PartyPlaceholder)
}

func TestTimelineFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	w, env := app.do(t, http.MethodPost, "/api/v1/admin/timeline", token, map[string]any{
		"title": "Primeiros passos", "date": "2025-10-01", "age_months": 10, "order": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	steps := decode[models.TimelineItem](t, env.Data)

	w, _ = app.do(t, http.MethodPost, "/api/v1/admin/timeline", token, map[string]any{
		"title": "Nasceu", "date": "2024-11-27", "order": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	_, env = app.do(t, http.MethodGet, "/api/v1/timeline", "", nil)
	items := decode[[]models.TimelineItem](t, env.Data)
	require.Len(t, items, 2)
	assert.Equal(t, "Nasceu", items[0].Title)

	w, _ = app.do(t, http.MethodPatch, "/api/v1/admin/timeline/"+steps.ID, token, map[string]any{"order": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, env = app.do(t, http.MethodGet, "/api/v1/timeline", "", nil)
	items = decode[[]models.TimelineItem](t, env.Data)
	assert.Equal(t, steps.ID, items[0].ID)

	w, env = app.do(t, http.MethodPatch, "/api/v1/admin/timeline/"+steps.ID, token, map[string]any{"id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", env.Field)

	w, _ = app.do(t, http.MethodDelete, "/api/v1/admin/timeline/"+steps.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodDelete, "/api/v1/admin/timeline/"+steps.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat(t *testing.T) {
	app := newTestApp(t)

	_, env := app.do(t, http.MethodGet, "/api/v1/chat/greeting", "", nil)
	greeting := decode[map[string]string](t, env.Data)
	assert.Equal(t, app.persona.Greeting, greeting["greeting"])

	w, env := app.do(t, http.MethodPost, "/api/v1/chat", "", map[string]string{"question": "Onde é a festa?"})
	require.Equal(t, http.StatusOK, w.Code)
	answer := decode[struct {
		Reply    string `json:"reply"`
		Fallback bool   `json:"fallback"`
	}](t, env.Data)
	assert.Equal(t, "Oi! 🍎", answer.Reply)
	assert.False(t, answer.Fallback)
	assert.Contains(t, app.generator.Prompts[0], app.persona.PartyPlaceholder)

	app.generator.Err = errors.New("quota exceeded")
	w, env = app.do(t, http.MethodPost, "/api/v1/chat", "", map[string]string{"question": "Tem bolo?"})
	require.Equal(t, http.StatusOK, w.Code)
	answer = decode[struct {
		Reply    string `json:"reply"`
		Fallback bool   `json:"fallback"`
	}](t, env.Data)
	assert.Equal(t, app.persona.Fallback, answer.Reply)
	assert.True(t, answer.Fallback)

	w, _ = app.do(t, http.MethodPost, "/api/v1/chat", "", map[string]string{"question": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
