//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// remotePost mirrors the posts resource of the remote endpoint.
type remotePost struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// fakeRemote is an in-process stand-in for the remote posts endpoint.
type fakeRemote struct {
	server *httptest.Server

	mu       sync.Mutex
	posts    []remotePost
	received []remotePost
	down     bool
	delay    time.Duration
	fetches  int
}

func newFakeRemote() *fakeRemote {
	r := &fakeRemote{posts: []remotePost{}}
	r.server = httptest.NewServer(http.HandlerFunc(r.serve))

	return r
}

func (r *fakeRemote) URL() string {
	return r.server.URL
}

func (r *fakeRemote) Close() {
	r.server.Close()
}

func (r *fakeRemote) SetQuotes(quotes []domain.Quote) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = r.posts[:0]
	for i, q := range quotes {
		r.posts = append(r.posts, remotePost{ID: i + 1, UserID: 1, Title: q.Text, Body: q.Category})
	}
}

func (r *fakeRemote) SetDown(down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.down = down
}

// SetDelay makes every request wait before it is answered.
func (r *fakeRemote) SetDelay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.delay = d
}

func (r *fakeRemote) Received() []remotePost {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]remotePost(nil), r.received...)
}

func (r *fakeRemote) Fetches() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fetches
}

func (r *fakeRemote) serve(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	delay := r.delay
	r.mu.Unlock()

	time.Sleep(delay)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.down {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	if req.URL.Path != "/posts" {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch req.Method {
	case http.MethodGet:
		r.fetches++
		_ = json.NewEncoder(w).Encode(r.posts)

	case http.MethodPost:
		var post remotePost
		if err := json.NewDecoder(req.Body).Decode(&post); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		post.ID = 100 + len(r.received) + 1
		r.received = append(r.received, post)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(post)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
