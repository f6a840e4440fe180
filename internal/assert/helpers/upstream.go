package helpers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

type (
	// Upstream is a stub REST service that answers canned responses and
	// records every request it receives
	Upstream struct {
		*httptest.Server
		routes   map[string]Reply
		requests map[string][]Request
		mu       sync.Mutex
	}

	// Reply is a canned response for one route
	Reply struct {
		Body   string
		Status int
		Hang   bool
	}

	// Request is a recorded inbound call
	Request struct {
		Query  url.Values
		Header http.Header
		Body   []byte
	}
)

// NewUpstream starts a stub service that is closed when the test ends
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{
		routes:   map[string]Reply{},
		requests: map[string][]Request{},
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// Handle sets the reply for method and path
func (u *Upstream) Handle(method, path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = Reply{Status: status, Body: body}
}

// Hang makes method and path block until the caller gives up
func (u *Upstream) Hang(method, path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = Reply{Hang: true}
}

// Hits returns how many times method and path were called
func (u *Upstream) Hits(method, path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests[method+" "+path])
}

// Requests returns the recorded calls to method and path
func (u *Upstream) Requests(method, path string) []Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Request(nil), u.requests[method+" "+path]...)
}

// TotalHits returns the number of calls received on any route
func (u *Upstream) TotalHits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	res := 0
	for _, reqs := range u.requests {
		res += len(reqs)
	}
	return res
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	u.mu.Lock()
	u.requests[key] = append(u.requests[key], Request{
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	reply, ok := u.routes[key]
	u.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("{}"))
		return
	}
	if reply.Hang {
		<-r.Context().Done()
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	_, _ = w.Write([]byte(reply.Body))
}
