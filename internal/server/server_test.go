package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmegroup/adlib/internal/admin"
	"github.com/jmegroup/adlib/internal/config"
	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/db"
	"github.com/jmegroup/adlib/internal/fixtures"
	"github.com/jmegroup/adlib/internal/github"
	"github.com/jmegroup/adlib/internal/github/githubtest"
	"github.com/jmegroup/adlib/internal/rendering"
	"github.com/jmegroup/adlib/internal/types"
)

const testPassword = "correct horse"

// memRevisions is an in-memory RevisionStore.
type memRevisions struct {
	revs []db.Revision
}

func (m *memRevisions) RecordRevision(_ context.Context, input *db.RevisionInput) (*db.Revision, error) {
	rev := db.Revision{
		ID:         uuid.New(),
		Path:       input.Path,
		Kind:       input.Kind,
		SHA:        input.SHA,
		ParentSHA:  input.ParentSHA,
		CommitSHA:  input.CommitSHA,
		SizeBytes:  input.SizeBytes,
		RemoteAddr: input.RemoteAddr,
		CreatedAt:  time.Now(),
	}
	m.revs = append([]db.Revision{rev}, m.revs...)
	return &rev, nil
}

func (m *memRevisions) ListRevisions(_ context.Context, path string, limit int) ([]db.Revision, error) {
	if limit == 0 {
		limit = db.DefaultListLimit
	}
	var out []db.Revision
	for _, r := range m.revs {
		if (path == "" || r.Path == path) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRevisions) GetRevision(_ context.Context, id uuid.UUID) (*db.Revision, error) {
	for i := range m.revs {
		if m.revs[i].ID == id {
			return &m.revs[i], nil
		}
	}
	return nil, nil
}

type testEnv struct {
	server    *Server
	github    *githubtest.Server
	revisions *memRevisions
}

func newTestEnv(t *testing.T, cfg config.Config, withRevisions bool) *testEnv {
	t.Helper()
	gh := githubtest.NewServer("jme/site", "gh-token")
	t.Cleanup(gh.Close)

	client := github.NewClient(gh.Repo, gh.Token)
	client.BaseURL = gh.URL
	client.HTTP = gh.Client()

	svc := &admin.Service{
		Password: &config.PasswordConfig{Plain: testPassword},
		Contents: client,
	}

	if cfg.Year == 0 {
		cfg.Year = 2025
	}
	if cfg.RateLimitPerMin == 0 {
		cfg.RateLimitPerMin = 600
	}
	env := &testEnv{github: gh}
	var store RevisionStore
	if withRevisions {
		env.revisions = &memRevisions{}
		store = env.revisions
	}

	s, err := NewWithService(cfg, svc, store)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	env.server = s
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.RemoteAddr = "198.51.100.4:40000"
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func contentBody(t *testing.T, password string, doc *types.Document) []byte {
	t.Helper()
	content, err := contentfile.Marshal(doc)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{"password": password, "content": json.RawMessage(content)})
	require.NoError(t, err)
	return body
}

func jsonBody(t *testing.T, v any) []byte {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSave(t *testing.T) {
	env := newTestEnv(t, config.Config{}, true)
	parent := env.github.SetFile("content.json", []byte("{}\n"))

	doc := fixtures.Document()
	doc.Footer.Tagline = "Advancing nonprofits since 1995."

	rec := env.do(t, http.MethodPost, "/api/save", contentBody(t, testPassword, doc))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeMap(t, rec)
	assert.Equal(t, true, body["ok"])

	want, err := contentfile.Marshal(doc)
	require.NoError(t, err)
	stored, ok := env.github.File("content.json")
	require.True(t, ok)
	assert.Equal(t, string(want), string(stored.Content))
	assert.Equal(t, stored.SHA, body["sha"])

	require.Len(t, env.revisions.revs, 1)
	assert.Equal(t, parent, env.revisions.revs[0].ParentSHA)
	assert.Equal(t, "198.51.100.4", env.revisions.revs[0].RemoteAddr)
}

func TestSave_Unauthorized(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)
	env.github.SetFile("content.json", []byte("{}"))

	for _, pw := range []string{"", "wrong"} {
		rec := env.do(t, http.MethodPost, "/api/save", contentBody(t, pw, fixtures.Document()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}

	// A wrong password is reported before the content is looked at.
	rec := env.do(t, http.MethodPost, "/api/save", []byte(`{"password":"wrong","content":{"bogus":1}}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Empty(t, env.github.Puts())
}

func TestSave_WrongMethod(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	for _, path := range []string{"/api/save", "/api/upload-image", "/api/preview", "/api/extract"} {
		rec := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestSave_BadRequests(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)
	env.github.SetFile("content.json", []byte("{}"))

	tests := []struct {
		name      string
		body      []byte
		wantError string
	}{
		{name: "not json", body: []byte(`password=x`), wantError: "Invalid JSON body"},
		{name: "no content", body: jsonBody(t, map[string]any{"password": testPassword}), wantError: "content is required"},
		{name: "unknown field", body: []byte(`{"password":"` + testPassword + `","content":{"heroo":{}}}`), wantError: "Invalid content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/save", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeMap(t, rec)["error"], tt.wantError)
		})
	}
	assert.Empty(t, env.github.Puts())
}

func TestSave_SchemaViolation(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)
	env.github.SetFile("content.json", []byte("{}"))

	doc := fixtures.Document()
	doc.Services[0].Name = ""

	rec := env.do(t, http.MethodPost, "/api/save", contentBody(t, testPassword, doc))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "Invalid content", body["error"])
	assert.Contains(t, body["fields"], "services.0.name")
	assert.Empty(t, env.github.Puts())
}

func TestSave_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	// content.json does not exist in the repository.
	rec := env.do(t, http.MethodPost, "/api/save", contentBody(t, testPassword, fixtures.Document()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "Failed to read current content", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestSave_StaleRevisionIsNotRetried(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)
	env.github.SetFile("content.json", []byte("{}"))
	env.server.admin.Contents = &racingClient{ContentsClient: env.server.admin.Contents, gh: env.github}

	rec := env.do(t, http.MethodPost, "/api/save", contentBody(t, testPassword, fixtures.Document()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "Failed to save", body["error"])
	assert.Contains(t, body["details"], "409")

	stored, _ := env.github.File("content.json")
	assert.Equal(t, "concurrent edit", string(stored.Content))
}

// racingClient simulates another writer committing between read and write.
type racingClient struct {
	admin.ContentsClient
	gh *githubtest.Server
}

func (c *racingClient) GetFile(ctx context.Context, path string) (*github.FileInfo, error) {
	info, err := c.ContentsClient.GetFile(ctx, path)
	c.gh.SetFile(path, []byte("concurrent edit"))
	return info, err
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t, config.Config{}, true)
	env.github.SetFile("images/mission-bg.jpg", []byte("old"))

	rec := env.do(t, http.MethodPost, "/api/upload-image", jsonBody(t, map[string]string{
		"password": testPassword,
		"path":     "images/mission-bg.jpg",
		"data":     base64.StdEncoding.EncodeToString([]byte("new jpeg")),
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeMap(t, rec)["ok"])

	stored, _ := env.github.File("images/mission-bg.jpg")
	assert.Equal(t, "new jpeg", string(stored.Content))
	require.Len(t, env.revisions.revs, 1)
	assert.Equal(t, db.KindImage, env.revisions.revs[0].Kind)
}

func TestUploadImage_InvalidPath(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	rec := env.do(t, http.MethodPost, "/api/upload-image", jsonBody(t, map[string]string{
		"password": testPassword,
		"path":     "content.json",
		"data":     base64.StdEncoding.EncodeToString([]byte("{}")),
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid image path"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/upload-image", jsonBody(t, map[string]string{
		"password": "wrong",
		"path":     "content.json",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, env.github.Puts())
}

func TestUploadImage_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)
	env.github.SetFile("images/hero-bg.mp4", []byte("old"))
	env.server.admin.Contents = &rejectingWrites{ContentsClient: env.server.admin.Contents}

	rec := env.do(t, http.MethodPost, "/api/upload-image", jsonBody(t, map[string]string{
		"password": testPassword,
		"path":     "images/hero-bg.mp4",
		"data":     base64.StdEncoding.EncodeToString([]byte("mp4")),
	}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "Failed to upload", body["error"])
	assert.Contains(t, body["details"], "validation failed")
}

type rejectingWrites struct {
	admin.ContentsClient
}

func (r *rejectingWrites) PutFile(_ context.Context, path string, _ github.PutRequest) (*github.PutResult, error) {
	return nil, &github.APIError{Method: http.MethodPut, Path: path, Status: http.StatusUnprocessableEntity, Body: "validation failed"}
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)
	body := contentBody(t, testPassword, fixtures.Document())

	rec := env.do(t, http.MethodPost, "/api/preview", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Preview-Cache"))

	want, err := rendering.Render(fixtures.Document(), rendering.WithYear(2025))
	require.NoError(t, err)
	assert.Equal(t, want, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/preview", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Preview-Cache"))
	assert.Equal(t, want, rec.Body.String())

	doc := fixtures.Document()
	doc.Contact.Phone = "512-555-0100"
	rec = env.do(t, http.MethodPost, "/api/preview", contentBody(t, testPassword, doc))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "miss", rec.Header().Get("X-Preview-Cache"))
	assert.Contains(t, rec.Body.String(), "tel:5125550100")
}

func TestPreview_CacheDisabled(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)
	env.server.previews = nil
	body := contentBody(t, testPassword, fixtures.Document())

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/api/preview", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "miss", rec.Header().Get("X-Preview-Cache"))
	}
}

func TestPreview_Unauthorized(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	rec := env.do(t, http.MethodPost, "/api/preview", contentBody(t, "nope", fixtures.Document()))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtract(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	page, err := rendering.Render(fixtures.Document(), rendering.WithYear(2025))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/extract", []byte(page))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	want, err := contentfile.Marshal(fixtures.Document())
	require.NoError(t, err)
	assert.Equal(t, string(want), rec.Body.String())
}

func TestExtract_Malformed(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	page, err := rendering.Render(fixtures.Document(), rendering.WithYear(2025))
	require.NoError(t, err)
	broken := strings.Replace(page, `data-adlib-cms="contact.email"`, `data-adlib-cms="contact.emial"`, 1)

	rec := env.do(t, http.MethodPost, "/api/extract", []byte(broken))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeMap(t, rec)
	assert.Equal(t, "Malformed markup", body["error"])
	assert.Equal(t, "contact.emial", body["path"])
	assert.Contains(t, body, "offset")
}

func TestExtract_OutOfRangeListIndex(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	tests := []struct {
		name   string
		markup string
		path   string
	}{
		{"item marker", `<div data-adlib-list="services" data-adlib-index="999999999999"></div>`, "services.0"},
		{"leaf path", `<li data-adlib-cms="marquee.999999999999">x</li>`, "marquee.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/extract", []byte(tt.markup))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decodeMap(t, rec)
			assert.Equal(t, "Malformed markup", body["error"])
			assert.Equal(t, tt.path, body["path"])
			assert.NotContains(t, body, "offset")
		})
	}

	rec := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRevisions(t *testing.T) {
	env := newTestEnv(t, config.Config{}, true)
	env.github.SetFile("content.json", []byte("{}"))

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/api/save", contentBody(t, testPassword, fixtures.Document()))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := env.do(t, http.MethodPost, "/api/revisions", jsonBody(t, map[string]any{"password": testPassword, "path": "content.json"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var list struct {
		Revisions []db.Revision `json:"revisions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Revisions, 2)
	assert.Equal(t, list.Revisions[1].SHA, list.Revisions[0].ParentSHA)

	id := list.Revisions[0].ID.String()
	rec = env.do(t, http.MethodPost, "/api/revisions", jsonBody(t, map[string]any{"password": testPassword, "id": id}))
	require.Equal(t, http.StatusOK, rec.Code)
	var rev db.Revision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rev))
	assert.Equal(t, id, rev.ID.String())

	rec = env.do(t, http.MethodPost, "/api/revisions", jsonBody(t, map[string]any{"password": testPassword, "id": uuid.NewString()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/revisions", jsonBody(t, map[string]any{"password": testPassword, "id": "not-a-uuid"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/revisions", jsonBody(t, map[string]any{"password": testPassword, "path": "images/hero-bg.mp4"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"revisions":[]}`, rec.Body.String())
}

func TestRevisions_NotConfigured(t *testing.T) {
	env := newTestEnv(t, config.Config{}, false)

	rec := env.do(t, http.MethodPost, "/api/revisions", jsonBody(t, map[string]any{"password": testPassword}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/revisions", jsonBody(t, map[string]any{"password": "x"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, config.Config{AllowedOrigin: "https://jmegroup.example"}, false)

	rec := env.do(t, http.MethodOptions, "/api/save", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://jmegroup.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	env := newTestEnv(t, config.Config{RateLimitPerMin: 6}, false)

	body := contentBody(t, "wrong", fixtures.Document())
	rec := env.do(t, http.MethodPost, "/api/save", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/save", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Health checks are never limited.
	rec = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
