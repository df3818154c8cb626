package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/server/mocks"
)

var testPage = domain.Page{
	GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	Posts:       []domain.FeedItem{{GUID: "p1", Title: "Hermes internals", Authors: []domain.Author{}, Categories: []string{}}},
	Podcasts:    []domain.FeedItem{{GUID: "e1", Title: "Episode 1", Authors: []domain.Author{}, Categories: []string{}}},
	Jobs:        []domain.JobPosting{{ID: "1", Name: "Engineer", City: "Warsaw", AdditionalCities: []string{"Krakow"}}},
	Events:      []domain.Event{{ID: "e1", Name: "Meetup", Status: domain.EventNear}},
	Buckets:     []domain.Bucket{{Name: "ralph", Repositories: []domain.Repository{{Name: "ralph", Stars: 2000}}}},
}

func testConfig() *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return ":8080", 30 * time.Second
		},
	}
}

func readyPages() *mocks.PageProviderMock {
	return &mocks.PageProviderMock{
		PageFunc:    func() (domain.Page, bool) { return testPage, true },
		RefreshFunc: func(ctx context.Context) domain.Page { return testPage },
	}
}

func TestServer_New(t *testing.T) {
	srv := New(testConfig(), readyPages(), "1.0.0", false)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
		},
	}
	srv := New(cfg, readyPages(), "1.0.0", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, time.Second, 10*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_Endpoints(t *testing.T) {
	srv := New(testConfig(), readyPages(), "1.2.3", false)

	tests := []struct {
		name string
		path string
		want any
	}{
		{name: "landing", path: "/api/v1/landing", want: testPage},
		{name: "posts", path: "/api/v1/posts", want: testPage.Posts},
		{name: "podcasts", path: "/api/v1/podcasts", want: testPage.Podcasts},
		{name: "jobs", path: "/api/v1/jobs", want: testPage.Jobs},
		{name: "events", path: "/api/v1/events", want: testPage.Events},
		{name: "buckets", path: "/api/v1/buckets", want: testPage.Buckets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "techsite", w.Header().Get("App-Name"))

			want, err := json.Marshal(tt.want)
			require.NoError(t, err)
			assert.JSONEq(t, string(want), w.Body.String())
		})
	}
}

func TestServer_statusHandler(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := New(testConfig(), readyPages(), "1.2.3", false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var status map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "ok", status["status"])
		assert.Equal(t, "1.2.3", status["version"])
		assert.Equal(t, true, status["ready"])
		assert.Equal(t, "2024-05-01T12:00:00Z", status["generated_at"])
		assert.NotEmpty(t, status["time"])
	})

	t.Run("not built yet", func(t *testing.T) {
		pages := &mocks.PageProviderMock{PageFunc: func() (domain.Page, bool) { return domain.Page{}, false }}
		srv := New(testConfig(), pages, "1.2.3", false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		w := httptest.NewRecorder()
		srv.statusHandler(w, req)

		var status map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, false, status["ready"])
		assert.NotContains(t, status, "generated_at")
	})
}

func TestServer_NotReady(t *testing.T) {
	pages := &mocks.PageProviderMock{PageFunc: func() (domain.Page, bool) { return domain.Page{}, false }}
	srv := New(testConfig(), pages, "1.2.3", false)

	for _, path := range []string{"/api/v1/landing", "/api/v1/posts", "/api/v1/buckets"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.JSONEq(t, `{"error":"landing page is not built yet"}`, w.Body.String())
	}
}

func TestServer_refreshHandler(t *testing.T) {
	pages := readyPages()
	srv := New(testConfig(), pages, "1.2.3", false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", http.NoBody)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, pages.RefreshCalls(), 1)
	assert.JSONEq(t, `{"generated_at":"2024-05-01T12:00:00Z","posts":1,"podcasts":1,"jobs":1,"events":1,"buckets":1}`,
		w.Body.String())

	// refresh is POST only
	req = httptest.NewRequest(http.MethodGet, "/api/v1/refresh", http.NoBody)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusOK, w.Code)
	assert.Len(t, pages.RefreshCalls(), 1)
}

func TestServer_refreshHandlerSlowBuild(t *testing.T) {
	buildErr := make(chan error, 1)
	pages := readyPages()
	pages.RefreshFunc = func(ctx context.Context) domain.Page {
		time.Sleep(500 * time.Millisecond)
		buildErr <- ctx.Err()
		return testPage
	}
	srv := New(testConfig(), pages, "1.2.3", false)

	ts := httptest.NewUnstartedServer(srv.router)
	ts.Config.ReadTimeout = 200 * time.Millisecond
	ts.Config.WriteTimeout = 200 * time.Millisecond
	ts.Start()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/refresh", "application/json", http.NoBody)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"generated_at":"2024-05-01T12:00:00Z"`)
	require.Len(t, pages.RefreshCalls(), 1)
	assert.NoError(t, <-buildErr)
}

func TestServer_RunListenError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return listener.Addr().String(), time.Second
		},
	}
	srv := New(cfg, readyPages(), "1.0.0", false)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server error")
	case <-time.After(time.Second):
		t.Fatal("server did not fail on busy port")
	}
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	RenderError(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody), nil, http.StatusBadRequest)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unknown error"}`, w.Body.String())
}
