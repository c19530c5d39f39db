package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/coderTechJordan/UserService-Backend/internal/dispatch"
	"github.com/coderTechJordan/UserService-Backend/internal/domain"
	"github.com/coderTechJordan/UserService-Backend/internal/identity"
	"github.com/coderTechJordan/UserService-Backend/internal/repository/kv"
	"github.com/coderTechJordan/UserService-Backend/internal/service"
	"github.com/coderTechJordan/UserService-Backend/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := kv.NewUserRepository(store.NewMemoryStore(), "users-test")
	svc := service.NewUserService(repo, identity.Generator{})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	NewHandler(dispatch.NewDispatcher(svc, logger)).RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUserLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/users", `{"username":"alice","password":"p1","email":"alice@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create response missing id")
	}

	rec = doRequest(router, http.MethodGet, "/users/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var fetched domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if fetched != created {
		t.Fatalf("get mismatch:\n got %+v\nwant %+v", fetched, created)
	}

	rec = doRequest(router, http.MethodPut, "/users/"+created.ID, `{"username":"alice2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var users []domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice2" {
		t.Fatalf("list = %+v", users)
	}

	rec = doRequest(router, http.MethodDelete, "/users/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doRequest(router, http.MethodGet, "/users/"+created.ID, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "null" {
		t.Fatalf("get after delete = %d %q, want 200 null", rec.Code, rec.Body.String())
	}
}

func TestUnknownRouteGetsErrorEnvelope(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/widgets", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var errBody dispatch.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("unknown route body not an error envelope: %s", rec.Body.String())
	}
}

func TestCORSHeadersPresent(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/users", "")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}

	rec = doRequest(router, http.MethodOptions, "/users", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}
