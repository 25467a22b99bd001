// Package githubtest provides an in-memory contents API for tests.
package githubtest

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// File is a stored file.
type File struct {
	Content []byte
	SHA     string
}

// Put records one successful write.
type Put struct {
	Path    string
	Message string
	SHA     string
}

// Server fakes the contents endpoints of a single repository. Writes must carry the
// current SHA of an existing file, as the real API requires.
type Server struct {
	*httptest.Server

	Repo  string
	Token string

	mu    sync.Mutex
	files map[string]File
	puts  []Put

	// FailNext, when non-zero, makes the next request fail with this status.
	FailNext int
}

// NewServer starts a fake for repo that expects token.
func NewServer(repo, token string) *Server {
	s := &Server{Repo: repo, Token: token, files: make(map[string]File)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// SetFile stores content at path and returns its SHA.
func (s *Server) SetFile(path string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sha := blobSHA(content)
	s.files[path] = File{Content: content, SHA: sha}
	return sha
}

// File returns the stored file at path.
func (s *Server) File(path string) (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	return f, ok
}

// Puts returns the writes accepted so far.
func (s *Server) Puts() []Put {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Put(nil), s.puts...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailNext != 0 {
		status := s.FailNext
		s.FailNext = 0
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}
	if s.Token != "" && r.Header.Get("Authorization") != "token "+s.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	prefix := "/repos/" + s.Repo + "/contents/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	switch r.Method {
	case http.MethodGet:
		f, ok := s.files[path]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"path": path, "sha": f.SHA, "size": len(f.Content)})

	case http.MethodPut:
		var req struct {
			Message string `json:"message"`
			Content string `json:"content"`
			SHA     string `json:"sha"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
			return
		}
		content, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "content is not valid Base64"})
			return
		}
		current, exists := s.files[path]
		switch {
		case exists && req.SHA == "":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": `"sha" wasn't supplied.`})
			return
		case exists && req.SHA != current.SHA, !exists && req.SHA != "":
			writeJSON(w, http.StatusConflict, map[string]string{"message": path + " does not match " + req.SHA})
			return
		}

		sha := blobSHA(content)
		s.files[path] = File{Content: content, SHA: sha}
		s.puts = append(s.puts, Put{Path: path, Message: req.Message, SHA: sha})
		status := http.StatusOK
		if !exists {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]any{
			"content": map[string]any{"path": path, "sha": sha, "size": len(content)},
			"commit":  map[string]any{"sha": blobSHA([]byte(req.Message + sha))},
		})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method Not Allowed"})
	}
}

func blobSHA(content []byte) string {
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
