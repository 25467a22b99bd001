package db

import (
	"time"

	"github.com/google/uuid"
)

// Revision kinds
const (
	KindContent = "content"
	KindImage   = "image"
)

// Revision is one successful write through the admin handlers
type Revision struct {
	ID         uuid.UUID `json:"id"`
	Path       string    `json:"path"`
	Kind       string    `json:"kind"`
	SHA        string    `json:"sha"`
	ParentSHA  string    `json:"parent_sha,omitempty"`
	CommitSHA  string    `json:"commit_sha,omitempty"`
	SizeBytes  int       `json:"size_bytes"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RevisionInput is the data needed to record a revision
type RevisionInput struct {
	Path       string
	Kind       string
	SHA        string
	ParentSHA  string
	CommitSHA  string
	SizeBytes  int
	RemoteAddr string
}
