package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
)

// Call is one request received by FakeAPI.
type Call struct {
	Method string
	Path   string // without the /api prefix
	Query  string
	Auth   string
	Body   []byte
}

type response struct {
	status int
	body   []byte
}

// FakeAPI is an in-process stand-in for the GarajHub REST API. Routes are
// matched on "METHOD /path" (exact path, query ignored); anything
// unregistered answers 404 {"detail":"Not Found"}.
type FakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	mu     sync.Mutex
	routes map[string]response
	calls  []Call
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{t: t, routes: map[string]response{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

// BaseURL is the API base URL to configure a client with.
func (f *FakeAPI) BaseURL() string { return f.srv.URL + "/api" }

// Client returns an apiclient bound to this fake.
func (f *FakeAPI) Client() *apiclient.Client {
	f.t.Helper()
	c, err := apiclient.New(f.BaseURL(), f.srv.Client(), nil)
	if err != nil {
		f.t.Fatalf("apiclient.New: %v", err)
	}
	return c
}

// Handle registers a canned response. body may be a string (sent as is)
// or any value (sent as JSON).
func (f *FakeAPI) Handle(method, path string, status int, body any) {
	f.t.Helper()
	var b []byte
	switch v := body.(type) {
	case nil:
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		var err error
		if b, err = json.Marshal(v); err != nil {
			f.t.Fatalf("encode fake response: %v", err)
		}
	}
	f.mu.Lock()
	f.routes[method+" "+path] = response{status: status, body: b}
	f.mu.Unlock()
}

// Calls returns every request received so far.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the requests received for one route.
func (f *FakeAPI) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/api")

	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	resp, ok := f.routes[r.Method+" "+path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}
