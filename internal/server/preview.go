package server

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/types"
)

// handlePreview renders unsaved content so the editor can show the page before
// committing it. Renders are cached by a hash of the canonical document encoding.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
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

	page, hit, err := s.preview(doc)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if hit {
		w.Header().Set("X-Preview-Cache", "hit")
	} else {
		w.Header().Set("X-Preview-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(page)); err != nil {
		log.Printf("[http] error writing preview: %v", err)
	}
}

// preview renders doc, consulting the cache first when one is configured.
func (s *Server) preview(doc *types.Document) (string, bool, error) {
	canonical, err := contentfile.Marshal(doc)
	if err != nil {
		return "", false, err
	}
	sum := sha256.Sum256(canonical)
	key := hex.EncodeToString(sum[:])

	if s.previews != nil {
		if page, ok := s.previews.Get(key); ok {
			return page, true, nil
		}
	}

	page, err := s.renderer.Render(doc)
	if err != nil {
		return "", false, err
	}
	if s.previews != nil {
		s.previews.Add(key, page)
	}
	return page, false, nil
}
