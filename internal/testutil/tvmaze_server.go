package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeTVMaze is an httptest server answering the two TVmaze endpoints used by ShowFinder.
// Unknown search terms answer "[]"; unknown show ids answer 404 like the real API.
type FakeTVMaze struct {
	*httptest.Server

	mu       sync.Mutex
	searches map[string]string
	episodes map[int]string
	statuses map[string]int
	requests []string
	hook     func(r *http.Request)
}

// NewFakeTVMaze starts a fake upstream that is closed with the test
func NewFakeTVMaze(t *testing.T) *FakeTVMaze {
	t.Helper()
	f := &FakeTVMaze{
		searches: make(map[string]string),
		episodes: make(map[int]string),
		statuses: make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// SetSearch registers the body returned for a search term
func (f *FakeTVMaze) SetSearch(term, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches[term] = body
}

// SetEpisodes registers the body returned for a show's episode list
func (f *FakeTVMaze) SetEpisodes(showID int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.episodes[showID] = body
}

// SetStatus forces a status code for every request whose path equals path
func (f *FakeTVMaze) SetStatus(path string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[path] = code
}

// BeforeResponse installs hook to run before every response is written.
// Tests use it to hold a request in flight.
func (f *FakeTVMaze) BeforeResponse(hook func(r *http.Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = hook
}

// Requests returns the request URIs received so far, in order
func (f *FakeTVMaze) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// RequestCount counts received requests whose path equals path
func (f *FakeTVMaze) RequestCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, uri := range f.requests {
		if p, _, _ := strings.Cut(uri, "?"); p == path {
			n++
		}
	}
	return n
}

func (f *FakeTVMaze) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	status, forced := f.statuses[r.URL.Path]
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(r)
	}

	if forced {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	if r.URL.Path == "/search/shows" {
		f.mu.Lock()
		body, ok := f.searches[r.URL.Query().Get("q")]
		f.mu.Unlock()
		if !ok {
			body = "[]"
		}
		_, _ = w.Write([]byte(body))
		return
	}

	if rest, ok := strings.CutPrefix(r.URL.Path, "/shows/"); ok {
		if idStr, ok := strings.CutSuffix(rest, "/episodes"); ok {
			id, err := strconv.Atoi(idStr)
			f.mu.Lock()
			body, found := f.episodes[id]
			f.mu.Unlock()
			if err == nil && found {
				_, _ = w.Write([]byte(body))
				return
			}
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprintf(w, `{"name":"Not Found","message":"","code":0,"status":404}`)
}
