package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/campusnest/campusnest-api/internal/domain"
	"github.com/campusnest/campusnest-api/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

const (
	successURL = "/account-verified"
	errorURL   = "/verification-failed"
)

type fakeVerify struct {
	consume func(ctx context.Context, plainToken string) (string, error)
}

func (f *fakeVerify) Consume(ctx context.Context, plainToken string) (string, error) {
	return f.consume(ctx, plainToken)
}

type fakeRegister struct {
	issue func(ctx context.Context, email string) error
}

func (f *fakeRegister) IssueVerification(ctx context.Context, email string) error {
	return f.issue(ctx, email)
}

func newVerifyEngine(v *fakeVerify, reg *fakeRegister) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewVerifyHandler(v, reg, successURL, errorURL, logger)

	r := gin.New()
	r.GET("/verify", h.VerifyLink)
	r.POST("/verify", h.VerifyAPI)
	r.POST("/auth/resend-verification", h.ResendVerification)
	return r
}

func consumeOnce(t *testing.T) *fakeVerify {
	t.Helper()
	used := false
	return &fakeVerify{
		consume: func(_ context.Context, plain string) (string, error) {
			if plain != "tok-1" || used {
				return "", domain.ErrTokenInvalid
			}
			used = true
			return "u-1", nil
		},
	}
}

// ---- GET /verify ----

func TestVerifyLink_SuccessRedirect(t *testing.T) {
	engine := newVerifyEngine(consumeOnce(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/verify?t=tok-1", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != successURL {
		t.Errorf("Location = %q, want success page", loc)
	}
}

func TestVerifyLink_ReplayRedirectsToError(t *testing.T) {
	engine := newVerifyEngine(consumeOnce(t), nil)

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/verify?t=tok-1", nil))
	if first.Header().Get("Location") != successURL {
		t.Fatalf("first consume should succeed, got %q", first.Header().Get("Location"))
	}

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/verify?t=tok-1", nil))
	if second.Header().Get("Location") != errorURL {
		t.Errorf("replay Location = %q, want error page", second.Header().Get("Location"))
	}
}

func TestVerifyLink_LegacyTokenParam(t *testing.T) {
	engine := newVerifyEngine(consumeOnce(t), nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?token=tok-1", nil))
	if w.Header().Get("Location") != successURL {
		t.Errorf("Location = %q", w.Header().Get("Location"))
	}
}

func TestVerifyLink_MissingTokenRedirectsToError(t *testing.T) {
	engine := newVerifyEngine(&fakeVerify{
		consume: func(context.Context, string) (string, error) {
			t.Fatal("consume must not be called without a token")
			return "", nil
		},
	}, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify", nil))
	if w.Header().Get("Location") != errorURL {
		t.Errorf("Location = %q", w.Header().Get("Location"))
	}
}

// ---- POST /verify ----

func TestVerifyAPI_Success(t *testing.T) {
	engine := newVerifyEngine(consumeOnce(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(`{"token":"tok-1"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true || body["user_id"] != "u-1" {
		t.Errorf("body = %v", body)
	}
}

func TestVerifyAPI_MissingToken_400(t *testing.T) {
	engine := newVerifyEngine(consumeOnce(t), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestVerifyAPI_InvalidToken_400Generic(t *testing.T) {
	engine := newVerifyEngine(&fakeVerify{
		consume: func(context.Context, string) (string, error) {
			return "", domain.ErrTokenInvalid
		},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(`{"token":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["success"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestVerifyAPI_OrphanedToken_500Distinct(t *testing.T) {
	engine := newVerifyEngine(&fakeVerify{
		consume: func(context.Context, string) (string, error) {
			return "", domain.ErrTokenOrphaned
		},
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(`{"token":"tok-1"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for a data problem", w.Code)
	}
}

// ---- POST /auth/resend-verification ----

func TestResendVerification_Always200(t *testing.T) {
	var calledWith string
	engine := newVerifyEngine(nil, &fakeRegister{
		issue: func(_ context.Context, email string) error {
			calledWith = email
			return nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/resend-verification", strings.NewReader(`{"email":"amina@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if calledWith != "amina@example.com" {
		t.Errorf("issue called with %q", calledWith)
	}
}

func TestResendVerification_IssueErrorStill200(t *testing.T) {
	engine := newVerifyEngine(nil, &fakeRegister{
		issue: func(context.Context, string) error {
			return domain.ErrStoreUnavailable
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/resend-verification", strings.NewReader(`{"email":"amina@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, errors must not reveal anything", w.Code)
	}
}
