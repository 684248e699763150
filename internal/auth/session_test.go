package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestManager(t *testing.T, duration time.Duration) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(bytes.Repeat([]byte{0x7f}, 32), duration, false)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func requestWithCookie(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t, time.Hour)

	rec := httptest.NewRecorder()
	err := sm.Create(rec, &Session{Subject: "user-1", Email: "staff@example.com", Name: "Staff"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	session, err := sm.Get(requestWithCookie(rec))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.Email != "staff@example.com" || session.Subject != "user-1" {
		t.Errorf("session: got %+v", session)
	}
}

func TestSessionRejectsTampering(t *testing.T) {
	sm := newTestManager(t, time.Hour)

	rec := httptest.NewRecorder()
	if err := sm.Create(rec, &Session{Subject: "user-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cookie := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value[:len(cookie.Value)-2] + "xx"})

	if _, err := sm.Get(req); err == nil {
		t.Error("Get with tampered cookie: got nil error")
	}
}

func TestSessionRejectsWrongKey(t *testing.T) {
	sm := newTestManager(t, time.Hour)
	rec := httptest.NewRecorder()
	if err := sm.Create(rec, &Session{Subject: "user-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	other, err := NewSessionManager(bytes.Repeat([]byte{0x01}, 32), time.Hour, false)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	if _, err := other.Get(requestWithCookie(rec)); err == nil {
		t.Error("Get with a different key: got nil error")
	}
}

func TestSessionExpiry(t *testing.T) {
	sm := newTestManager(t, -time.Minute)

	rec := httptest.NewRecorder()
	if err := sm.Create(rec, &Session{Subject: "user-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := sm.Get(requestWithCookie(rec)); err == nil {
		t.Error("Get with expired session: got nil error")
	}
}

func TestSessionManagerKeyLength(t *testing.T) {
	if _, err := NewSessionManager([]byte("short"), time.Hour, false); err == nil {
		t.Error("NewSessionManager with short key: got nil error")
	}
}
