package admin

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/db"
	"github.com/jmegroup/adlib/internal/github"
	"github.com/jmegroup/adlib/internal/types"
)

// ContentPath is the repository path of the content document.
const ContentPath = "content.json"

// AllowedImagePaths are the only media files the image handler may overwrite.
var AllowedImagePaths = []string{
	"images/jeanne-marie-ellis.jpg",
	"images/mission-bg.jpg",
	"images/testimonial-0.jpg",
	"images/testimonial-1.jpg",
	"images/testimonial-2.jpg",
	"images/hero-bg.webm",
	"images/hero-bg.mp4",
}

// PasswordVerifier checks the admin secret.
type PasswordVerifier interface {
	Verify(password string) bool
}

// ContentsClient reads and writes repository files.
type ContentsClient interface {
	GetFile(ctx context.Context, path string) (*github.FileInfo, error)
	PutFile(ctx context.Context, path string, req github.PutRequest) (*github.PutResult, error)
}

// RevisionLog records successful writes.
type RevisionLog interface {
	RecordRevision(ctx context.Context, input *db.RevisionInput) (*db.Revision, error)
}

// Service performs authenticated writes. Each call reads the current revision and
// writes against it exactly once; a stale revision is an error, not a retry.
type Service struct {
	Password  PasswordVerifier
	Contents  ContentsClient
	Revisions RevisionLog // optional
}

// Result describes a completed write.
type Result struct {
	Path      string
	SHA       string
	ParentSHA string
	Size      int
}

// Authorize checks secret without touching the repository.
func (s *Service) Authorize(secret string) error {
	if s.Password == nil || !s.Password.Verify(secret) {
		return ErrUnauthorized
	}
	return nil
}

// SaveContent commits doc as the new content document. The file must already exist.
// The document shape is not validated here; that is the caller's responsibility.
func (s *Service) SaveContent(ctx context.Context, secret string, doc *types.Document, remoteAddr string) (*Result, error) {
	if err := s.Authorize(secret); err != nil {
		return nil, err
	}
	return s.CommitContent(ctx, doc, remoteAddr)
}

// CommitContent is SaveContent for a caller that has already called Authorize.
func (s *Service) CommitContent(ctx context.Context, doc *types.Document, remoteAddr string) (*Result, error) {
	if doc == nil {
		return nil, &InvalidPayloadError{Message: "content is required"}
	}

	data, err := contentfile.Marshal(doc)
	if err != nil {
		return nil, &InvalidPayloadError{Message: "failed to encode content", Cause: err}
	}

	current, err := s.Contents.GetFile(ctx, ContentPath)
	if err != nil {
		return nil, &UpstreamError{Step: "read", Path: ContentPath, Message: "Failed to read current content", Cause: err}
	}

	return s.write(ctx, ContentPath, db.KindContent, data, current.SHA, "Update content via admin", "Failed to save", remoteAddr)
}

// SaveImage commits base64 encoded media to an allow-listed path, creating the file if
// it does not exist yet.
func (s *Service) SaveImage(ctx context.Context, secret, path, data string, remoteAddr string) (*Result, error) {
	if err := s.Authorize(secret); err != nil {
		return nil, err
	}
	return s.CommitImage(ctx, path, data, remoteAddr)
}

// CommitImage is SaveImage for a caller that has already called Authorize.
func (s *Service) CommitImage(ctx context.Context, path, data string, remoteAddr string) (*Result, error) {
	if !slices.Contains(AllowedImagePaths, path) {
		return nil, &InvalidPathError{Path: path}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &InvalidPayloadError{Message: "data is not valid base64", Cause: err}
	}

	var parent string
	current, err := s.Contents.GetFile(ctx, path)
	switch {
	case err == nil:
		parent = current.SHA
	case errors.Is(err, github.ErrNotFound):
	default:
		return nil, &UpstreamError{Step: "read", Path: path, Message: "Failed to read current file", Cause: err}
	}

	return s.write(ctx, path, db.KindImage, raw, parent, fmt.Sprintf("Update %s via admin", path), "Failed to upload", remoteAddr)
}

func (s *Service) write(ctx context.Context, path, kind string, data []byte, parent, message, failure, remoteAddr string) (*Result, error) {
	put, err := s.Contents.PutFile(ctx, path, github.PutRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     parent,
	})
	if err != nil {
		return nil, &UpstreamError{Step: "write", Path: path, Message: failure, Cause: err}
	}

	result := &Result{Path: path, SHA: put.Content.SHA, ParentSHA: parent, Size: len(data)}
	log.Printf("[admin] committed %s (%d bytes) %s -> %s", path, len(data), shortSHA(parent), shortSHA(result.SHA))

	if s.Revisions != nil {
		_, err := s.Revisions.RecordRevision(ctx, &db.RevisionInput{
			Path:       path,
			Kind:       kind,
			SHA:        result.SHA,
			ParentSHA:  parent,
			CommitSHA:  put.Commit.SHA,
			SizeBytes:  len(data),
			RemoteAddr: remoteAddr,
		})
		if err != nil {
			// The commit already happened; a missing log entry does not fail the save.
			log.Printf("[admin] warning: failed to record revision for %s: %v", path, err)
		}
	}

	return result, nil
}

func shortSHA(sha string) string {
	if sha == "" {
		return "(new)"
	}
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
