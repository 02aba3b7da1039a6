package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/Belphemur/CineFinder/internal/client"
	"github.com/Belphemur/CineFinder/internal/services"
	"github.com/Belphemur/CineFinder/internal/store"
	"github.com/Belphemur/CineFinder/internal/testutil"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *Error          `json:"error"`
	Meta    *Meta           `json:"meta"`
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	fake    *testutil.FakeTMDB
	token   string
}

func newTestHandler(t *testing.T, c client.Client) *Handler {
	t.Helper()
	s := store.NewMemory()
	auth, err := services.NewAuthService(s, services.AuthConfig{Mode: services.AuthModeDemo, JWTSecret: "api-test-secret"})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	preferences := services.NewPreferencesService(s)
	return NewHandler(c, auth, services.NewFavoritesService(s), preferences, services.NewBrowseService(c, preferences, 10, time.Minute))
}

// newTestAPI serves the router against a fake TMDB and logs in as alice.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	fake := testutil.NewFakeTMDB(t)
	c := client.NewClient(fake.Config())
	t.Cleanup(func() { _ = c.Close() })

	api := &testAPI{
		t:       t,
		handler: NewRouter(newTestHandler(t, c), RouterOptions{}),
		fake:    fake,
	}
	api.token = api.login("alice", "secret")
	return api
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": username, "password": password}, "")
	if rec.Code != http.StatusOK {
		a.t.Fatalf("login: status %d, error %+v", rec.Code, env.Error)
	}
	var result struct {
		Token string `json:"token"`
	}
	decodeData(a.t, env, &result)
	return result.Token
}

// call issues an authenticated request.
func (a *testAPI) call(method, path string, body any) (*httptest.ResponseRecorder, testEnvelope) {
	a.t.Helper()
	return a.do(method, path, body, a.token)
}

func (a *testAPI) do(method, path string, body any, token string) (*httptest.ResponseRecorder, testEnvelope) {
	a.t.Helper()
	return serve(a.t, a.handler, method, path, body, token)
}

func serve(t *testing.T, h http.Handler, method, path string, body any, token string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v (%q)", method, path, err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env testEnvelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, env testEnvelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	if code == "" {
		if !env.Success {
			t.Fatalf("expected success, got error %+v", env.Error)
		}
		return
	}
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected error code %s, got %+v", code, env.Error)
	}
}
