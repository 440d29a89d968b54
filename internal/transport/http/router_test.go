package httptransport_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/campusnest/campusnest-api/internal/email"
	"github.com/campusnest/campusnest-api/internal/infrastructure/cms"
	"github.com/campusnest/campusnest-api/internal/token"
	httptransport "github.com/campusnest/campusnest-api/internal/transport/http"
	"github.com/campusnest/campusnest-api/internal/transport/http/handler"
	"github.com/campusnest/campusnest-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is an in-memory stand-in for the record store, speaking just
// enough of its filter syntax to drive the auth core end to end.
type fakeStore struct {
	users  map[string]map[string]any // id -> record
	tokens map[string]map[string]any // id -> record
}

func (s *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/users", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var out []map[string]any
		for _, u := range s.users {
			if tok := q.Get("filter[token][_eq]"); tok != "" && u["token"] != tok {
				continue
			}
			if em := q.Get("filter[email][_eq]"); em != "" && u["email"] != em {
				continue
			}
			out = append(out, u)
		}
		writeData(w, out)
	})
	mux.HandleFunc("PATCH /items/users/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/items/users/"):]
		u, ok := s.users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		for k, v := range patch {
			u[k] = v
		}
		writeData(w, u)
	})
	mux.HandleFunc("GET /items/verification_tokens", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var out []map[string]any
		for _, vt := range s.tokens {
			if h := q.Get("filter[token_hash][_eq]"); h != "" && vt["token_hash"] != h {
				continue
			}
			if q.Get("filter[used][_eq]") == "false" && vt["used"] == true {
				continue
			}
			if p := q.Get("filter[purpose][_eq]"); p != "" && vt["purpose"] != p {
				continue
			}
			out = append(out, vt)
		}
		writeData(w, out)
	})
	mux.HandleFunc("PATCH /items/verification_tokens", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		var out []map[string]any
		for id, vt := range s.tokens {
			if q.Get("filter[id][_eq]") != id {
				continue
			}
			if q.Get("filter[used][_eq]") == "false" && vt["used"] == true {
				continue
			}
			for k, v := range patch {
				vt[k] = v
			}
			out = append(out, vt)
		}
		writeData(w, out)
	})
	mux.HandleFunc("PATCH /items/profiles", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []map[string]any{})
	})
	return mux
}

func writeData(w http.ResponseWriter, v any) {
	if v == nil {
		v = []any{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func newTestServer(t *testing.T, store *fakeStore) (*gin.Engine, *token.Codec) {
	t.Helper()

	srv := httptest.NewServer(store.handler())
	t.Cleanup(srv.Close)

	codec, err := token.NewCodec(32, "sha256", []byte("router-test-pepper"))
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := cms.NewClient(srv.URL, "store-token")
	userRepo := cms.NewUserRepository(client)
	tokenRepo := cms.NewVerificationTokenRepository(client)
	profileRepo := cms.NewProfileRepository(client)
	catalogRepo := cms.NewCatalogRepository(client)

	sessions := usecase.NewSessionUsecase(userRepo)
	verify := usecase.NewVerifyUsecase(userRepo, tokenRepo, profileRepo, codec, logger)
	sender := email.NewSender("local", "", "", logger)
	register := usecase.NewRegisterUsecase(userRepo, tokenRepo, codec, sender, "http://localhost", 1440, logger)

	sessionHandler := handler.NewSessionHandler(sessions, "cn_session", logger)
	verifyHandler := handler.NewVerifyHandler(verify, register, "/account-verified", "/verification-failed", logger)
	catalogHandler := handler.NewCatalogHandler(catalogRepo, logger)

	return httptransport.NewRouter(logger, sessionHandler, verifyHandler, catalogHandler, sessions, "cn_session"), codec
}

func TestEndToEnd_VerifyActivatesThenRejectsReplay(t *testing.T) {
	store := &fakeStore{
		users: map[string]map[string]any{
			"u-1": {
				"id": "u-1", "email": "amina@example.com", "first_name": "Amina",
				"last_name": "K", "status": "pending",
				"role": map[string]any{"id": "r-1", "name": "student"},
			},
		},
		tokens: map[string]map[string]any{},
	}

	engine, codec := newTestServer(t, store)

	const plain = "one-time-token-T"
	store.tokens["vt-1"] = map[string]any{
		"id": "vt-1", "user": "u-1", "token_hash": codec.Hash(plain),
		"purpose": "email_verify", "used": false,
		"expires_at": token.AddMinutesISO(1440),
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify?t="+plain, nil))
	if loc := w.Header().Get("Location"); loc != "/account-verified" {
		t.Fatalf("Location = %q, want success page", loc)
	}

	if store.users["u-1"]["status"] != "active" {
		t.Errorf("user status = %v, want active", store.users["u-1"]["status"])
	}
	if store.tokens["vt-1"]["used"] != true {
		t.Errorf("token used = %v, want true", store.tokens["vt-1"]["used"])
	}

	replay := httptest.NewRecorder()
	engine.ServeHTTP(replay, httptest.NewRequest(http.MethodGet, "/verify?t="+plain, nil))
	if loc := replay.Header().Get("Location"); loc != "/verification-failed" {
		t.Errorf("replay Location = %q, want error page", loc)
	}
}

func TestEndToEnd_SessionWithoutCredentialIs200(t *testing.T) {
	engine, _ := newTestServer(t, &fakeStore{users: map[string]map[string]any{}, tokens: map[string]map[string]any{}})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/session", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["authenticated"] != false {
		t.Errorf("authenticated = %v", body["authenticated"])
	}
}

func TestEndToEnd_SessionCookieResolvesActiveUser(t *testing.T) {
	store := &fakeStore{
		users: map[string]map[string]any{
			"u-1": {
				"id": "u-1", "email": "amina@example.com", "first_name": "Amina",
				"last_name": "K", "status": "active", "token": "abc",
				"role": map[string]any{"id": "r-1", "name": "student"},
			},
		},
		tokens: map[string]map[string]any{},
	}
	engine, _ := newTestServer(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: "cn_session", Value: "abc"})
	engine.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["authenticated"] != true {
		t.Fatalf("authenticated = %v: %s", body["authenticated"], w.Body.String())
	}
	user := body["user"].(map[string]any)
	if user["id"] != "u-1" || user["role"] != "student" {
		t.Errorf("user = %v", user)
	}
}

func TestEndToEnd_CreatePropertyRequiresSession(t *testing.T) {
	engine, _ := newTestServer(t, &fakeStore{users: map[string]map[string]any{}, tokens: map[string]map[string]any{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/properties", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
