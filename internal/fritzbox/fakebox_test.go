package fritzbox

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

const (
	testChallenge = "1234567z"
	testUsername  = "kid-admin"
	testPassword  = "äbc"
	testSID       = "9f3c1a2b4d5e6f70"
)

// fakeBox imitates the parts of a FRITZ!Box web UI the client talks to.
type fakeBox struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	requests  []string
	sid       string
	blockTime int
	loginXML  string
	status    map[string]int
	bodies    map[string]string
	hangup    map[string]bool
	stall     map[string]bool
	release   chan struct{}
}

func newFakeBox(t *testing.T) *fakeBox {
	t.Helper()
	fb := &fakeBox{
		t:       t,
		sid:     testSID,
		status:  map[string]int{"/luaquery.lua": http.StatusOK},
		bodies:  map[string]string{"/luaquery.lua": `[{"id":"42"},{"id":"43"}]`},
		hangup:  map[string]bool{},
		stall:   map[string]bool{},
		release: make(chan struct{}),
	}
	fb.server = httptest.NewServer(http.HandlerFunc(fb.handle))
	t.Cleanup(fb.server.Close)
	// Runs before server.Close, which waits for stalled handlers.
	t.Cleanup(func() { close(fb.release) })
	return fb
}

func (fb *fakeBox) handle(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.requests = append(fb.requests, r.URL.Path)
	hangup := fb.hangup[r.URL.Path]
	stall := fb.stall[r.URL.Path]
	fb.mu.Unlock()

	if stall {
		select {
		case <-fb.release:
		case <-r.Context().Done():
		}
		return
	}

	if hangup {
		hj, ok := w.(http.Hijacker)
		if !ok {
			fb.t.Fatal("response writer cannot hijack")
		}
		conn, _, err := hj.Hijack()
		if err == nil {
			conn.Close()
		}
		return
	}

	if r.URL.Path == loginPath {
		fb.handleLogin(w, r)
		return
	}
	fb.handleQuery(w, r)
}

func (fb *fakeBox) handleLogin(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml")
	if fb.loginXML != "" {
		fmt.Fprint(w, fb.loginXML)
		return
	}

	sid := NoSessionSID
	q := r.URL.Query()
	if q.Get("response") != "" {
		expected, _ := ChallengeResponse(testChallenge, testPassword)
		if q.Get("username") == testUsername && q.Get("response") == expected {
			sid = fb.sid
		}
	}

	fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?><SessionInfo><SID>%s</SID><Challenge>%s</Challenge><BlockTime>%d</BlockTime><Rights></Rights></SessionInfo>`,
		sid, testChallenge, fb.blockTime)
}

func (fb *fakeBox) handleQuery(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	status, known := fb.status[r.URL.Path]
	if !known {
		http.NotFound(w, r)
		return
	}
	if r.URL.Query().Get("sid") != fb.sid || r.URL.Query().Get("query") != ticketQuery {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, fb.bodies[r.URL.Path])
}

func (fb *fakeBox) setQuery(path string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.status[path] = status
	fb.bodies[path] = body
}

// stallOn makes requests to path hang without a response.
func (fb *fakeBox) stallOn(path string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.stall[path] = true
}

func (fb *fakeBox) removeQuery(path string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	delete(fb.status, path)
	delete(fb.bodies, path)
}

func (fb *fakeBox) paths() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.requests...)
}

func (fb *fakeBox) count(path string) int {
	n := 0
	for _, p := range fb.paths() {
		if p == path {
			n++
		}
	}
	return n
}

func (fb *fakeBox) reset() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.requests = nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (fb *fakeBox) client(clock *fakeClock, opts ...Option) *Client {
	base := []Option{
		WithTimeout(2 * time.Second),
		WithClock(clock.Now),
	}
	c := NewClient(Credentials{
		Host:     fb.server.URL,
		Username: testUsername,
		Password: testPassword,
	}, append(base, opts...)...)
	fb.t.Cleanup(c.Close)
	return c
}
