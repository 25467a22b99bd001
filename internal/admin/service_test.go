package admin

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmegroup/adlib/internal/config"
	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/db"
	"github.com/jmegroup/adlib/internal/fixtures"
	"github.com/jmegroup/adlib/internal/github"
	"github.com/jmegroup/adlib/internal/github/githubtest"
)

type fakeRevisions struct {
	inputs []db.RevisionInput
	err    error
}

func (f *fakeRevisions) RecordRevision(_ context.Context, input *db.RevisionInput) (*db.Revision, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, *input)
	return &db.Revision{ID: uuid.New(), Path: input.Path, Kind: input.Kind, SHA: input.SHA}, nil
}

func newTestService(t *testing.T) (*Service, *githubtest.Server, *fakeRevisions) {
	t.Helper()
	srv := githubtest.NewServer("jme/site", "gh-token")
	t.Cleanup(srv.Close)

	client := github.NewClient(srv.Repo, srv.Token)
	client.BaseURL = srv.URL
	client.HTTP = srv.Client()

	revs := &fakeRevisions{}
	return &Service{
		Password:  &config.PasswordConfig{Plain: "hunter2"},
		Contents:  client,
		Revisions: revs,
	}, srv, revs
}

func TestSaveContent(t *testing.T) {
	svc, srv, revs := newTestService(t)
	parent := srv.SetFile(ContentPath, []byte(`{}`))

	doc := fixtures.Document()
	doc.Mission.Lead = "Updated mission"

	result, err := svc.SaveContent(context.Background(), "hunter2", doc, "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, parent, result.ParentSHA)
	assert.NotEqual(t, parent, result.SHA)

	want, err := contentfile.Marshal(doc)
	require.NoError(t, err)

	stored, ok := srv.File(ContentPath)
	require.True(t, ok)
	assert.Equal(t, want, stored.Content)
	assert.Equal(t, result.SHA, stored.SHA)

	puts := srv.Puts()
	require.Len(t, puts, 1)
	assert.Equal(t, "Update content via admin", puts[0].Message)

	require.Len(t, revs.inputs, 1)
	assert.Equal(t, db.KindContent, revs.inputs[0].Kind)
	assert.Equal(t, parent, revs.inputs[0].ParentSHA)
	assert.Equal(t, len(want), revs.inputs[0].SizeBytes)
	assert.Equal(t, "203.0.113.9", revs.inputs[0].RemoteAddr)
}

func TestSaveContent_Unauthorized(t *testing.T) {
	svc, srv, revs := newTestService(t)
	srv.SetFile(ContentPath, []byte(`{}`))

	for _, secret := range []string{"", "wrong", "hunter2 "} {
		_, err := svc.SaveContent(context.Background(), secret, fixtures.Document(), "")
		assert.ErrorIs(t, err, ErrUnauthorized, "secret %q", secret)
	}
	assert.Empty(t, srv.Puts())
	assert.Empty(t, revs.inputs)
}

func TestSaveContent_NoVerifier(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.Password = nil

	_, err := svc.SaveContent(context.Background(), "hunter2", fixtures.Document(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSaveContent_MissingFile(t *testing.T) {
	svc, srv, _ := newTestService(t)

	_, err := svc.SaveContent(context.Background(), "hunter2", fixtures.Document(), "")
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "read", upErr.Step)
	assert.ErrorIs(t, err, github.ErrNotFound)
	assert.Empty(t, srv.Puts())
}

func TestSaveContent_WriteFailureIsNotRetried(t *testing.T) {
	svc, srv, revs := newTestService(t)
	srv.SetFile(ContentPath, []byte(`{}`))

	// The read succeeds; fail the write that follows it.
	svc.Contents = &failingWrites{ContentsClient: svc.Contents, status: http.StatusConflict}

	_, err := svc.SaveContent(context.Background(), "hunter2", fixtures.Document(), "")
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "write", upErr.Step)

	var apiErr *github.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Conflict())

	assert.Equal(t, 1, svc.Contents.(*failingWrites).calls)
	assert.Empty(t, revs.inputs)
}

func TestSaveContent_NilDocument(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SaveContent(context.Background(), "hunter2", nil, "")
	var payloadErr *InvalidPayloadError
	assert.ErrorAs(t, err, &payloadErr)
}

func TestSaveContent_RevisionLogFailureIgnored(t *testing.T) {
	svc, srv, revs := newTestService(t)
	srv.SetFile(ContentPath, []byte(`{}`))
	revs.err = errors.New("database unavailable")

	_, err := svc.SaveContent(context.Background(), "hunter2", fixtures.Document(), "")
	require.NoError(t, err)
	assert.Len(t, srv.Puts(), 1)
}

func TestSaveImage_ReplaceExisting(t *testing.T) {
	svc, srv, revs := newTestService(t)
	parent := srv.SetFile("images/testimonial-1.jpg", []byte("old"))

	payload := []byte{0xff, 0xd8, 0xff, 0xe0}
	result, err := svc.SaveImage(context.Background(), "hunter2", "images/testimonial-1.jpg",
		base64.StdEncoding.EncodeToString(payload), "")
	require.NoError(t, err)
	assert.Equal(t, parent, result.ParentSHA)
	assert.Equal(t, len(payload), result.Size)

	stored, _ := srv.File("images/testimonial-1.jpg")
	assert.Equal(t, payload, stored.Content)

	puts := srv.Puts()
	require.Len(t, puts, 1)
	assert.Equal(t, "Update images/testimonial-1.jpg via admin", puts[0].Message)

	require.Len(t, revs.inputs, 1)
	assert.Equal(t, db.KindImage, revs.inputs[0].Kind)
}

func TestSaveImage_CreatesMissingFile(t *testing.T) {
	svc, srv, _ := newTestService(t)

	result, err := svc.SaveImage(context.Background(), "hunter2", "images/hero-bg.webm",
		base64.StdEncoding.EncodeToString([]byte("webm")), "")
	require.NoError(t, err)
	assert.Empty(t, result.ParentSHA)

	stored, ok := srv.File("images/hero-bg.webm")
	require.True(t, ok)
	assert.Equal(t, []byte("webm"), stored.Content)
}

func TestSaveImage_PathAllowList(t *testing.T) {
	svc, srv, _ := newTestService(t)
	data := base64.StdEncoding.EncodeToString([]byte("x"))

	for _, path := range []string{
		"content.json",
		"index.html",
		"images/../content.json",
		"images/testimonial-3.jpg",
		"/images/mission-bg.jpg",
		"",
	} {
		_, err := svc.SaveImage(context.Background(), "hunter2", path, data, "")
		var pathErr *InvalidPathError
		require.ErrorAs(t, err, &pathErr, "path %q", path)
		assert.Equal(t, path, pathErr.Path)
	}
	assert.Empty(t, srv.Puts())
}

func TestSaveImage_AuthBeforePathCheck(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SaveImage(context.Background(), "nope", "content.json", "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSaveImage_InvalidBase64(t *testing.T) {
	svc, srv, _ := newTestService(t)

	_, err := svc.SaveImage(context.Background(), "hunter2", "images/mission-bg.jpg", "not base64!", "")
	var payloadErr *InvalidPayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Empty(t, srv.Puts())
}

func TestSaveImage_ReadFailure(t *testing.T) {
	svc, srv, _ := newTestService(t)
	srv.FailNext = http.StatusInternalServerError

	_, err := svc.SaveImage(context.Background(), "hunter2", "images/mission-bg.jpg",
		base64.StdEncoding.EncodeToString([]byte("x")), "")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "read", upErr.Step)
	assert.Empty(t, srv.Puts())
}

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "(new)", shortSHA(""))
	assert.Equal(t, "abc", shortSHA("abc"))
	assert.Equal(t, "0123456", shortSHA("0123456789"))
}

type failingWrites struct {
	ContentsClient
	status int
	calls  int
}

func (f *failingWrites) PutFile(context.Context, string, github.PutRequest) (*github.PutResult, error) {
	f.calls++
	return nil, &github.APIError{Method: http.MethodPut, Path: "content.json", Status: f.status, Body: "conflict"}
}

func TestUpstreamMessages(t *testing.T) {
	svc, srv, _ := newTestService(t)
	srv.SetFile("images/mission-bg.jpg", []byte("x"))
	svc.Contents = &failingWrites{ContentsClient: svc.Contents, status: http.StatusBadGateway}

	_, err := svc.SaveImage(context.Background(), "hunter2", "images/mission-bg.jpg",
		base64.StdEncoding.EncodeToString([]byte("y")), "")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "Failed to upload", upErr.Message)

	srv.SetFile(ContentPath, []byte(`{}`))
	_, err = svc.SaveContent(context.Background(), "hunter2", fixtures.Document(), "")
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "Failed to save", upErr.Message)
}
