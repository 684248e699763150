package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atelierhq/storefront/internal/api/handler"
	"github.com/atelierhq/storefront/internal/auth"
	"github.com/atelierhq/storefront/internal/config"
	"github.com/atelierhq/storefront/internal/domain"
	"github.com/atelierhq/storefront/internal/service"
	"github.com/atelierhq/storefront/internal/storage/memory"
)

type testEnv struct {
	server   *httptest.Server
	sessions *auth.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessions, err := auth.NewSessionManager(bytes.Repeat([]byte{0x42}, 32), time.Hour, false)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	storeCfg := config.StoreConfig{Name: "Atelier", URL: "https://shop.example.com", DefaultCurrency: "USD"}

	router := NewRouter(Deps{
		Store:    store,
		Auth:     service.NewAuthService(store, logger),
		Regions:  service.NewRegionService(store),
		Messages: service.NewMessageService(store),
		Settings: service.NewSettingsService(store, storeCfg),
		AuthFlow: &handler.AuthComponents{Sessions: sessions},
		Payments: config.PaymentConfig{
			StripeSecretKey:      "sk_test_secret_do_not_leak",
			StripePublishableKey: "pk_test_visible",
		},
		RateLimit: config.RateLimitConfig{MessagesPerMinute: 1000},
		Logger:    logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, sessions: sessions}
}

// adminCookie mints a valid staff session cookie without running the login flow.
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	err := e.sessions.Create(rec, &auth.Session{Subject: "staff-1", Email: "staff@example.com", Name: "Staff"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie issued")
	}
	return cookies[0]
}

func (e *testEnv) request(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func asAdmin(cookie *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(cookie) }
}

func withBearer(key string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+key) }
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body domain.StandardErrorResponse
	decodeBody(t, resp, &body)
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/health", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestConfigAuthFailures(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		opts     []func(*http.Request)
		wantCode string
	}{
		{"missing header", nil, domain.ErrCodeMissingHeader},
		{"wrong scheme", []func(*http.Request){func(r *http.Request) {
			r.Header.Set("Authorization", "Basic abc")
		}}, domain.ErrCodeMalformedAuth},
		{"unknown key", []func(*http.Request){withBearer("sk_not_a_real_key")}, domain.ErrCodeInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.request(t, http.MethodGet, "/api/v1/config", nil, tt.opts...)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", resp.StatusCode)
			}
			if code := errorCode(t, resp); code != tt.wantCode {
				t.Errorf("error code: got %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestConfigPermissionDenied(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.adminCookie(t)
	var created domain.CreateAPIKeyResponse
	resp := env.request(t, http.MethodPost, "/api/v1/admin/keys", domain.CreateAPIKeyRequest{
		Name:        "Webhook Only",
		Permissions: []string{"webhooks"},
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create key status: got %d, want 201", resp.StatusCode)
	}
	decodeBody(t, resp, &created)

	resp = env.request(t, http.MethodGet, "/api/v1/config", nil, withBearer(created.Key))
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != domain.ErrCodeForbidden {
		t.Errorf("error code: got %s, want FORBIDDEN", code)
	}
}

func TestConfigEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	// Seed a default region and a mapped EU region through the admin API.
	resp := env.request(t, http.MethodPost, "/api/v1/admin/regions", domain.CreateRegionRequest{
		Code: "ROW", Name: "Rest of World", Currency: "USD", IsDefault: true,
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create ROW status: got %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()
	resp = env.request(t, http.MethodPost, "/api/v1/admin/regions", domain.CreateRegionRequest{
		Code: "EU", Name: "Europe", Currency: "EUR", Countries: []string{"DE", "FR"},
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create EU status: got %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	var key domain.CreateAPIKeyResponse
	resp = env.request(t, http.MethodPost, "/api/v1/admin/keys", domain.CreateAPIKeyRequest{
		Name: "Storefront", Permissions: []string{"read"},
	}, asAdmin(cookie))
	decodeBody(t, resp, &key)

	tests := []struct {
		name         string
		query        string
		wantCurrency string
		wantRegion   string
	}{
		{"mapped country", "?country=fr", "EUR", "EU"},
		{"unmapped country", "?country=JP", "USD", "ROW"},
		{"no country", "", "USD", "ROW"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.request(t, http.MethodGet, "/api/v1/config"+tt.query, nil, withBearer(key.Key))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status: got %d, want 200", resp.StatusCode)
			}
			var body domain.ConfigResponse
			decodeBody(t, resp, &body)
			if !body.Success {
				t.Error("success: got false, want true")
			}
			if body.Config.Currency != tt.wantCurrency {
				t.Errorf("currency: got %s, want %s", body.Config.Currency, tt.wantCurrency)
			}
			if body.Region == nil || body.Region.Code != tt.wantRegion {
				t.Errorf("region: got %+v, want %s", body.Region, tt.wantRegion)
			}
			if !body.Config.Stripe.Enabled {
				t.Error("stripe: got disabled, want enabled")
			}
			if body.Config.Stripe.PublishableKey != "pk_test_visible" {
				t.Errorf("publishable key: got %q", body.Config.Stripe.PublishableKey)
			}
		})
	}
}

func TestConfigNeverLeaksSecrets(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	var key domain.CreateAPIKeyResponse
	resp := env.request(t, http.MethodPost, "/api/v1/admin/keys", domain.CreateAPIKeyRequest{Name: "Probe"}, asAdmin(cookie))
	decodeBody(t, resp, &key)

	resp = env.request(t, http.MethodGet, "/api/v1/config", nil, withBearer(key.Key))
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.Contains(string(raw), "sk_test_secret_do_not_leak") {
		t.Error("payment secret key leaked into the config response")
	}
}

func TestConfigNoRegionsConfigured(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	var key domain.CreateAPIKeyResponse
	resp := env.request(t, http.MethodPost, "/api/v1/admin/keys", domain.CreateAPIKeyRequest{Name: "Probe"}, asAdmin(cookie))
	decodeBody(t, resp, &key)

	resp = env.request(t, http.MethodGet, "/api/v1/config?country=JP", nil, withBearer(key.Key))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var body domain.ConfigResponse
	decodeBody(t, resp, &body)
	if body.Region != nil {
		t.Errorf("region: got %+v, want null", body.Region)
	}
	if body.Config.Currency != "USD" {
		t.Errorf("currency falls back to store default: got %s, want USD", body.Config.Currency)
	}
}

func TestConfigPreflight(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodOptions, "/api/v1/config", nil, func(r *http.Request) {
		r.Header.Set("Origin", "https://partner.example.com")
		r.Header.Set("Access-Control-Request-Method", "GET")
	})
	defer resp.Body.Close()
	// Preflight must succeed without an API key and echo the caller's origin.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status: got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://partner.example.com" {
		t.Errorf("allow-origin: got %q, want caller origin", got)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/admin/keys"},
		{http.MethodPost, "/api/v1/admin/regions"},
		{http.MethodGet, "/api/v1/admin/settings"},
		{http.MethodGet, "/api/v1/admin/messages/unread"},
	}
	for _, p := range paths {
		resp := env.request(t, p.method, p.path, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", p.method, p.path, resp.StatusCode)
		}
		if code := errorCode(t, resp); code != domain.ErrCodeUnauthorized {
			t.Errorf("%s %s: error code %s, want UNAUTHORIZED", p.method, p.path, code)
		}
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	var created domain.CreateAPIKeyResponse
	resp := env.request(t, http.MethodPost, "/api/v1/admin/keys", domain.CreateAPIKeyRequest{
		Name: "Partner", Permissions: []string{"read", "checkout"},
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", resp.StatusCode)
	}
	decodeBody(t, resp, &created)
	if !strings.HasPrefix(created.Key, "sk_") {
		t.Errorf("raw key: got %q, want sk_ prefix", created.Key)
	}

	// The list must expose the prefix but never the raw key or its hash.
	resp = env.request(t, http.MethodGet, "/api/v1/admin/keys", nil, asAdmin(cookie))
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.Contains(string(raw), created.Key) {
		t.Error("raw key leaked into the key listing")
	}
	if strings.Contains(string(raw), "key_hash") {
		t.Error("key hash leaked into the key listing")
	}
	var listed []domain.APIKey
	if err := json.Unmarshal(raw, &listed); err != nil {
		t.Fatalf("unmarshal listing: %v", err)
	}
	if len(listed) != 1 || listed[0].KeyPrefix != created.KeyPrefix {
		t.Errorf("listing: got %+v", listed)
	}

	// Deactivate, then confirm the key stops authenticating.
	inactive := false
	resp = env.request(t, http.MethodPut, "/api/v1/admin/keys/"+created.ID, domain.UpdateAPIKeyRequest{
		IsActive: &inactive,
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: got %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/config", nil, withBearer(created.Key))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("deactivated key status: got %d, want 401", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != domain.ErrCodeKeyDeactivated {
		t.Errorf("error code: got %s, want AUTH_KEY_DEACTIVATED", code)
	}

	resp = env.request(t, http.MethodDelete, "/api/v1/admin/keys/"+created.ID, nil, asAdmin(cookie))
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status: got %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/admin/keys/"+created.ID, nil, asAdmin(cookie))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRegionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	var region domain.PricingRegion
	resp := env.request(t, http.MethodPost, "/api/v1/admin/regions", domain.CreateRegionRequest{
		Code: "eu", Name: "Europe", Currency: "eur", Countries: []string{"de", "fr"},
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", resp.StatusCode)
	}
	decodeBody(t, resp, &region)
	if region.Code != "EU" || region.Currency != "EUR" {
		t.Errorf("normalization: got code=%s currency=%s", region.Code, region.Currency)
	}

	// Duplicate code is a conflict.
	resp = env.request(t, http.MethodPost, "/api/v1/admin/regions", domain.CreateRegionRequest{
		Code: "EU", Name: "Europe Again", Currency: "EUR",
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate status: got %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != domain.ErrCodeConflict {
		t.Errorf("duplicate code: got %s, want CONFLICT", code)
	}

	// Region reads are public.
	resp = env.request(t, http.MethodGet, "/api/v1/regions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: got %d, want 200", resp.StatusCode)
	}
	var regions []domain.PricingRegion
	decodeBody(t, resp, &regions)
	if len(regions) != 1 {
		t.Fatalf("regions: got %d, want 1", len(regions))
	}

	// Price overrides round-trip.
	resp = env.request(t, http.MethodPut, "/api/v1/admin/regions/"+region.ID+"/prices", domain.SetPriceOverrideRequest{
		ProductID: "prod-1", Amount: 2499,
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set price status: got %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.request(t, http.MethodGet, "/api/v1/admin/regions/"+region.ID+"/prices", nil, asAdmin(cookie))
	var prices []domain.PriceOverride
	decodeBody(t, resp, &prices)
	if len(prices) != 1 || prices[0].Amount != 2499 {
		t.Errorf("prices: got %+v", prices)
	}

	resp = env.request(t, http.MethodDelete, "/api/v1/admin/regions/"+region.ID, nil, asAdmin(cookie))
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status: got %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMessagingEndpoints(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	resp := env.request(t, http.MethodPost, "/api/v1/messages", domain.SendMessageRequest{
		IntakeID:    "intake-1",
		Content:     "Can I change my shipping address?",
		SenderType:  "client",
		SenderName:  "Ada",
		SenderEmail: "ada@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("send status: got %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	// Listing without a thread id is a validation error.
	resp = env.request(t, http.MethodGet, "/api/v1/messages", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("list without intakeId: got %d, want 400", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != domain.ErrCodeValidationError {
		t.Errorf("error code: got %s, want VALIDATION_ERROR", code)
	}

	resp = env.request(t, http.MethodGet, "/api/v1/messages?intakeId=intake-1", nil)
	var msgs []domain.ProjectMessage
	decodeBody(t, resp, &msgs)
	if len(msgs) != 1 || msgs[0].Content != "Can I change my shipping address?" {
		t.Fatalf("messages: got %+v", msgs)
	}

	var unread domain.UnreadCountResponse
	resp = env.request(t, http.MethodGet, "/api/v1/admin/messages/unread", nil, asAdmin(cookie))
	decodeBody(t, resp, &unread)
	if unread.Count != 1 {
		t.Errorf("unread: got %d, want 1", unread.Count)
	}

	resp = env.request(t, http.MethodPatch, "/api/v1/admin/messages/read", domain.MarkReadRequest{
		IntakeID: "intake-1",
	}, asAdmin(cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark read status: got %d, want 200", resp.StatusCode)
	}
	var marked map[string]int64
	decodeBody(t, resp, &marked)
	if marked["updated"] != 1 {
		t.Errorf("updated: got %d, want 1", marked["updated"])
	}

	resp = env.request(t, http.MethodGet, "/api/v1/admin/messages/unread", nil, asAdmin(cookie))
	decodeBody(t, resp, &unread)
	if unread.Count != 0 {
		t.Errorf("unread after mark: got %d, want 0", unread.Count)
	}
}

func TestAdminSettings(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.adminCookie(t)

	var settings domain.StoreSettings
	resp := env.request(t, http.MethodGet, "/api/v1/admin/settings", nil, asAdmin(cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: got %d, want 200", resp.StatusCode)
	}
	decodeBody(t, resp, &settings)
	if settings.StoreName != "Atelier" {
		t.Errorf("store name defaulted: got %q, want Atelier", settings.StoreName)
	}

	name := "Atelier EU"
	resp = env.request(t, http.MethodPut, "/api/v1/admin/settings", domain.UpdateSettingsRequest{
		StoreName: &name,
	}, asAdmin(cookie))
	decodeBody(t, resp, &settings)
	if settings.StoreName != "Atelier EU" {
		t.Errorf("store name after update: got %q", settings.StoreName)
	}
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/auth/session", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no cookie: got %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	cookie := env.adminCookie(t)
	resp = env.request(t, http.MethodGet, "/auth/session", nil, asAdmin(cookie))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("with cookie: got %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["email"] != "staff@example.com" {
		t.Errorf("email: got %q", body["email"])
	}
}
