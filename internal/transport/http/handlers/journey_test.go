package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"hrhub/internal/app/portal"
	"hrhub/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// fakeBackend answers the /hr-hub routes the journeys touch and counts calls per route.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int
}

func (b *fakeBackend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls[key]++
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch key {
	case "POST /hr-hub/admin/auth/sign-in":
		_, _ = io.WriteString(w, `{"data":{"token":"tok-admin","user":{"id":"a1","name":"Ada","email":"ada@hr.io","role":"ADMIN"}}}`)
	case "POST /hr-hub/auth/sign-in":
		_, _ = io.WriteString(w, `{"data":{"token":"tok-emp","user":{"id":"u1","fullname":"Eve Stone","email":"eve@hr.io","role":"EMPLOYEE"}}}`)
	case "POST /hr-hub/notifications/device-token", "POST /hr-hub/auth/sign-out":
		_, _ = io.WriteString(w, `{"data":{}}`)
	case "GET /hr-hub/users":
		_, _ = io.WriteString(w, `{"data":[{"id":"u1","fullname":"Eve Stone","email":"eve@hr.io","role":"EMPLOYEE"}],"meta":{"page":1,"limit":10,"total":1,"total_pages":1}}`)
	case "POST /hr-hub/users":
		_, _ = io.WriteString(w, `{"data":{"id":"u2","fullname":"Max Ray","email":"max@hr.io","role":"MANAGER"}}`)
	case "GET /hr-hub/nominations":
		_, _ = io.WriteString(w, `{"data":[
			{"id":"n1","nominationStatus":"PENDING","nominee":{"id":"u1"},"reviewee":{"id":"u3"},"nominator":{"id":"u4"}},
			{"id":"n2","nominationStatus":"ACCEPTED","nominee":{"id":"u1"},"reviewee":{"id":"u5"},"nominator":{"id":"u4"}}]}`)
	case "GET /hr-hub/nominations/n2":
		_, _ = io.WriteString(w, `{"data":{"id":"n2","nominationStatus":"ACCEPTED","nominee":{"id":"u1"},"reviewee":{"id":"u5"},"nominator":{"id":"u4"}}}`)
	case "GET /hr-hub/review-summaries":
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token expired"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	}
}

func newPortal(t *testing.T) (*httptest.Server, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{calls: map[string]int{}}
	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	cfg := config.Config{
		Environment:         "test",
		FrontendDir:         t.TempDir(),
		APIBaseURL:          api.URL,
		APITimeout:          5 * time.Second,
		QueryRetries:        0,
		CacheBackend:        config.CacheBackendMemory,
		CacheTTL:            time.Minute,
		SessionBackend:      config.SessionBackendMemory,
		SessionTTL:          time.Hour,
		SignInRatePerMinute: 100,
		MaxBodyBytes:        1 << 20,
	}
	app, err := portal.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start portal: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, backend
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func call(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req, _ := http.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp, env
}

func signIn(t *testing.T, client *http.Client, baseURL, path, email string) {
	t.Helper()
	resp, env := call(t, client, http.MethodPost, baseURL+path, map[string]string{"email": email, "password": "Secret#123"})
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("sign-in failed: %d %+v", resp.StatusCode, env.Error)
	}
}

func TestAdminCreatesUserAndListRefreshes(t *testing.T) {
	ts, backend := newPortal(t)
	client := newClient(t)
	signIn(t, client, ts.URL, "/portal/admin/auth/sign-in", "ada@hr.io")

	resp, env := call(t, client, http.MethodGet, ts.URL+"/portal/users", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected user list, got %d", resp.StatusCode)
	}
	var list struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
		View  struct {
			Buttons []map[string]any `json:"buttons"`
		} `json:"view"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Total != 1 || len(list.Items) != 1 || len(list.View.Buttons) != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	call(t, client, http.MethodGet, ts.URL+"/portal/users", nil)
	if n := backend.count("GET /hr-hub/users"); n != 1 {
		t.Fatalf("expected cached second read, backend saw %d", n)
	}

	resp, env = call(t, client, http.MethodPost, ts.URL+"/portal/users", map[string]string{
		"fullname": "Max Ray", "email": "max@hr.io", "role": "MANAGER", "password": "Str0ng!Pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d %+v", resp.StatusCode, env.Error)
	}
	var saved struct {
		Record map[string]any    `json:"record"`
		Form   map[string]string `json:"form"`
	}
	if err := json.Unmarshal(env.Data, &saved); err != nil {
		t.Fatalf("decode saved: %v", err)
	}
	if saved.Record["id"] != "u2" || saved.Form["fullname"] != "" || saved.Form["email"] != "" {
		t.Fatalf("expected stored record and empty form, got %+v", saved)
	}

	call(t, client, http.MethodGet, ts.URL+"/portal/users", nil)
	if n := backend.count("GET /hr-hub/users"); n != 2 {
		t.Fatalf("expected list to reload after create, backend saw %d", n)
	}
}

func TestEmployeeCannotManageUsers(t *testing.T) {
	ts, backend := newPortal(t)
	client := newClient(t)
	signIn(t, client, ts.URL, "/portal/auth/sign-in", "eve@hr.io")

	resp, _ := call(t, client, http.MethodGet, ts.URL+"/portal/users", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if backend.count("GET /hr-hub/users") != 0 {
		t.Fatalf("backend must not be called for a forbidden route")
	}
}

func TestSelfReviewWithoutSubjectNeverReachesBackend(t *testing.T) {
	ts, backend := newPortal(t)
	client := newClient(t)
	signIn(t, client, ts.URL, "/portal/auth/sign-in", "eve@hr.io")

	resp, env := call(t, client, http.MethodPost, ts.URL+"/portal/reviews", map[string]string{
		"reviewType":  "SELF",
		"subject":     "",
		"description": "Quarter in review",
		"dueDate":     time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Fields["subject"] == "" {
		t.Fatalf("expected subject field error, got %+v", env.Error)
	}
	if backend.count("POST /hr-hub/reviews/self") != 0 {
		t.Fatalf("invalid review must not be posted")
	}
}

func TestPendingNominationOffersAcceptAndDecline(t *testing.T) {
	ts, _ := newPortal(t)
	client := newClient(t)
	signIn(t, client, ts.URL, "/portal/auth/sign-in", "eve@hr.io")

	resp, env := call(t, client, http.MethodGet, ts.URL+"/portal/nominations", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list struct {
		Items []struct {
			ID      string   `json:"id"`
			Actions []string `json:"actions"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 nominations, got %d", len(list.Items))
	}
	if got := list.Items[0].Actions; len(got) != 2 || got[0] != "accept" || got[1] != "decline" {
		t.Fatalf("expected accept/decline on pending row, got %v", got)
	}
	if got := list.Items[1].Actions; len(got) != 0 {
		t.Fatalf("accepted row should offer no actions, got %v", got)
	}
}

func TestNominationCompletionIsNotAViewerAction(t *testing.T) {
	ts, backend := newPortal(t)
	client := newClient(t)
	signIn(t, client, ts.URL, "/portal/auth/sign-in", "eve@hr.io")

	resp, _ := call(t, client, http.MethodPost, ts.URL+"/portal/nominations/n2/complete", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if backend.count("PATCH /hr-hub/nominations/n2") != 0 {
		t.Fatalf("completion must not be sent to the backend")
	}
}

func TestListPagePastEndLandsOnLastPage(t *testing.T) {
	ts, _ := newPortal(t)
	client := newClient(t)
	signIn(t, client, ts.URL, "/portal/auth/sign-in", "eve@hr.io")

	_, env := call(t, client, http.MethodGet, ts.URL+"/portal/nominations?page=9&limit=1", nil)
	var list struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Page       int `json:"page"`
		TotalPages int `json:"totalPages"`
		View       struct {
			Buttons []struct {
				Label  string `json:"label"`
				Active bool   `json:"active"`
			} `json:"buttons"`
		} `json:"view"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Page != 2 || list.TotalPages != 2 {
		t.Fatalf("expected last page 2 of 2, got %d of %d", list.Page, list.TotalPages)
	}
	if len(list.Items) != 1 || list.Items[0].ID != "n2" {
		t.Fatalf("expected the last nomination, got %+v", list.Items)
	}
	active := ""
	for _, b := range list.View.Buttons {
		if b.Active {
			active = b.Label
		}
	}
	if active != "2" {
		t.Fatalf("expected button 2 active, got %q", active)
	}
}

func TestSignInIssuesFreshSessionID(t *testing.T) {
	ts, _ := newPortal(t)
	client := newClient(t)
	base, _ := url.Parse(ts.URL + "/portal/")

	sessionID := func() string {
		for _, c := range client.Jar.Cookies(base) {
			if c.Name == "hrhub_session" {
				return c.Value
			}
		}
		return ""
	}

	call(t, client, http.MethodGet, ts.URL+"/portal/session", nil)
	anonymous := sessionID()
	if anonymous == "" {
		t.Fatal("expected an anonymous session cookie")
	}

	signIn(t, client, ts.URL, "/portal/auth/sign-in", "eve@hr.io")
	signedIn := sessionID()
	if signedIn == "" || signedIn == anonymous {
		t.Fatalf("expected a new session id after sign-in, got %q (was %q)", signedIn, anonymous)
	}

	_, env := call(t, client, http.MethodGet, ts.URL+"/portal/session", nil)
	var snap struct {
		ID              string `json:"id"`
		IsAuthenticated bool   `json:"isAuthenticated"`
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if !snap.IsAuthenticated || snap.ID != signedIn {
		t.Fatalf("expected the rotated session to be signed in, got %+v", snap)
	}
}

func TestBackendUnauthorizedSignsOut(t *testing.T) {
	ts, _ := newPortal(t)
	client := newClient(t)
	signIn(t, client, ts.URL, "/portal/auth/sign-in", "eve@hr.io")

	resp, _ := call(t, client, http.MethodGet, ts.URL+"/portal/summaries", nil)
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected 303 to /, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, _ = call(t, client, http.MethodGet, ts.URL+"/portal/dashboard", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected signed-out session to be redirected, got %d", resp.StatusCode)
	}

	_, env := call(t, client, http.MethodGet, ts.URL+"/portal/session", nil)
	var snap struct {
		IsAuthenticated bool `json:"isAuthenticated"`
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if snap.IsAuthenticated {
		t.Fatalf("expected session to be cleared")
	}
}

func TestPasswordStrengthScoring(t *testing.T) {
	ts, _ := newPortal(t)
	client := newClient(t)

	_, env := call(t, client, http.MethodPost, ts.URL+"/portal/password-strength", map[string]string{"password": "abc"})
	var strength struct {
		Score int    `json:"score"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(env.Data, &strength); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strength.Score != 20 || strength.Label != "Weak" {
		t.Fatalf("expected weak 20, got %+v", strength)
	}
}
