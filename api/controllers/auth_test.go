package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/asimbashir/bazario-backend/internal/auth"
	"github.com/asimbashir/bazario-backend/pkg/config"
)

type loginStub struct {
	merged bool
}

func (s loginStub) Login(ctx context.Context, req authsvc.LoginRequest, guestID *uuid.UUID) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{AccessToken: "token", GuestCartMerged: s.merged}, nil
}

func (s loginStub) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{AccessToken: "token"}, nil
}

var loginGuestCfg = config.GuestConfig{CookieName: "bz_guest", SessionTTL: time.Hour}

func loginWithGuestCookie(t *testing.T, svc authsvc.Service) *httptest.ResponseRecorder {
	t.Helper()
	handler := AuthLogin(svc, loginGuestCfg, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ayesha@example.com","password":"sup3rsecret"}`))
	req.AddCookie(&http.Cookie{Name: "bz_guest", Value: uuid.NewString()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func guestCookieFrom(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == "bz_guest" {
			return cookie
		}
	}
	return nil
}

func TestAuthLoginExpiresGuestCookieAfterMerge(t *testing.T) {
	resp := loginWithGuestCookie(t, loginStub{merged: true})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	cookie := guestCookieFrom(resp)
	if cookie == nil {
		t.Fatal("expected an expiring guest cookie after a merged login")
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected the guest cookie cleared, got %+v", cookie)
	}
}

func TestAuthLoginKeepsGuestCookieWhenMergeDidNotHappen(t *testing.T) {
	resp := loginWithGuestCookie(t, loginStub{merged: false})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if cookie := guestCookieFrom(resp); cookie != nil {
		t.Fatalf("guest cookie must survive an unmerged login for retry, got %+v", cookie)
	}
}
