package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testKID = "test-key"

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":   c.GetString(ContextUserIDKey),
			"scopes": c.GetStringSlice(ContextScopesKey),
		})
	})
	return r
}

func signToken(t *testing.T, kid string, claims CustomClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func testAuthHandler() AuthHandler {
	return newAuthHandler(keyfunc.NewGiven(map[string]keyfunc.GivenKey{
		testKID: keyfunc.NewGivenHMAC(testSecret, keyfunc.GivenKeyOptions{Algorithm: "HS256"}),
	}))
}

func TestAuthMiddleware(t *testing.T) {
	valid := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scopes: "videos:write jobs:read",
	}
	expired := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-token", want: http.StatusUnauthorized},
		{name: "unknown kid", header: "Bearer " + signToken(t, "other", valid), want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, testKID, expired), want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + signToken(t, testKID, valid), want: http.StatusOK},
	}

	router := newTestRouter(testAuthHandler().AuthMiddleware())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareSetsClaims(t *testing.T) {
	token := signToken(t, testKID, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
		Scopes:           "a b",
	})

	router := newTestRouter(testAuthHandler().AuthMiddleware())
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	want := `{"scopes":["a","b"],"user":"user-42"}`
	if w.Body.String() != want {
		t.Fatalf("expected %s, got %s", want, w.Body.String())
	}
}

func TestCORSMiddleware(t *testing.T) {
	router := newTestRouter(CORSMiddleware("http://localhost:3000"))

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected preflight status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allowed origin %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
