package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/db"
	"github.com/jmegroup/adlib/internal/extraction"
	"github.com/jmegroup/adlib/internal/server/middleware"
	"github.com/jmegroup/adlib/internal/types"
)

// Body size limits. Media uploads carry base64 video, so they get the most room.
const (
	maxJSONBytes   = 2 << 20
	maxUploadBytes = 48 << 20
	maxMarkupBytes = 4 << 20
)

// SaveRequest is the body of POST /api/save and POST /api/preview.
type SaveRequest struct {
	Password string          `json:"password"`
	Content  json.RawMessage `json:"content"`
}

// UploadImageRequest is the body of POST /api/upload-image.
type UploadImageRequest struct {
	Password string `json:"password"`
	Path     string `json:"path"`
	Data     string `json:"data"` // base64
}

// RevisionsRequest is the body of POST /api/revisions. With ID set a single
// revision is returned; otherwise the most recent ones, optionally for one path.
type RevisionsRequest struct {
	Password string `json:"password"`
	ID       string `json:"id,omitempty"`
	Path     string `json:"path,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SaveResponse is returned by the save handlers on success.
type SaveResponse struct {
	OK  bool   `json:"ok"`
	SHA string `json:"sha,omitempty"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := decodeJSON(w, r, maxJSONBytes, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := s.admin.Authorize(req.Password); err != nil {
		s.errorResponse(w, err)
		return
	}

	doc, err := decodeContent(req.Content)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.admin.CommitContent(r.Context(), doc, middleware.ClientIP(r))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SaveResponse{OK: true, SHA: result.SHA})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	var req UploadImageRequest
	if err := decodeJSON(w, r, maxUploadBytes, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.admin.SaveImage(r.Context(), req.Password, req.Path, req.Data, middleware.ClientIP(r))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SaveResponse{OK: true, SHA: result.SHA})
}

func (s *Server) handleRevisions(w http.ResponseWriter, r *http.Request) {
	var req RevisionsRequest
	if err := decodeJSON(w, r, maxJSONBytes, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := s.admin.Authorize(req.Password); err != nil {
		s.errorResponse(w, err)
		return
	}
	if s.revisions == nil {
		s.errorResponse(w, &ErrUnavailable{Feature: "revision log"})
		return
	}

	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			s.errorResponse(w, &ErrValidation{Field: "id", Message: "invalid revision id"})
			return
		}
		rev, err := s.revisions.GetRevision(r.Context(), id)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		if rev == nil {
			s.errorResponse(w, &ErrNotFound{What: "revision " + req.ID})
			return
		}
		s.jsonResponse(w, http.StatusOK, rev)
		return
	}

	if req.Limit < 0 {
		s.errorResponse(w, &ErrValidation{Field: "limit", Message: "limit must be non-negative"})
		return
	}
	revs, err := s.revisions.ListRevisions(r.Context(), req.Path, req.Limit)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if revs == nil {
		revs = []db.Revision{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"revisions": revs})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	markup, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMarkupBytes))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	doc, err := extraction.Extract(string(markup))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	data, err := contentfile.Marshal(doc)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("[http] error writing response: %v", err)
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeJSON reads a single JSON object of at most limit bytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "Invalid JSON body"}
	}
	return nil
}

// decodeContent parses and validates a content document from a request.
func decodeContent(raw json.RawMessage) (*types.Document, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &ErrValidation{Field: "content", Message: "content is required"}
	}
	doc, err := contentfile.Decode(raw, contentfile.FormatJSON)
	if err != nil {
		return nil, &ErrValidation{Field: "content", Message: "Invalid content: " + err.Error()}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse maps err to a status and JSON error body. Only server-side failures
// are logged; caller mistakes, including a wrong password, are not.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] error: %v", err)
	}
	s.jsonResponse(w, status, errorBody(err))
}
