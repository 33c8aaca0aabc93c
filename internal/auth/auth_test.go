package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ---------- helpers ----------

func unsignedToken(sub string, exp time.Time) string {
	claims := jwt.MapClaims{"sub": sub, "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	s, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	return s
}

func signedToken(sub, secret string, exp time.Time) string {
	claims := jwt.MapClaims{"sub": sub, "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, _ := token.SignedString([]byte(secret))
	return s
}

// dummyHandler writes 200 and the extracted operator identity.
var dummyHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	op := OperatorFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(op))
})

// ---------- tests ----------

func TestJWTMiddleware_UnsignedMode(t *testing.T) {
	mw := JWTMiddleware("") // no secret → accept alg=none

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid unsigned token",
			authHeader: "Bearer " + unsignedToken("ops-alice", time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
			wantBody:   "ops-alice",
		},
		{
			name:       "missing Authorization header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header (no Bearer prefix)",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "signed token rejected in unsigned mode",
			authHeader: "Bearer " + signedToken("ops-bob", "secret", time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			mw(dummyHandler).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestJWTMiddleware_SignedMode(t *testing.T) {
	const secret = "test-secret"
	mw := JWTMiddleware(secret)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid signed token",
			authHeader: "Bearer " + signedToken("ops-bob", secret, time.Now().Add(time.Hour)),
			wantStatus: http.StatusOK,
			wantBody:   "ops-bob",
		},
		{
			name:       "wrong secret",
			authHeader: "Bearer " + signedToken("ops-bob", "wrong", time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unsigned token rejected in signed mode",
			authHeader: "Bearer " + unsignedToken("ops-bob", time.Now().Add(time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + signedToken("ops-bob", secret, time.Now().Add(-time.Hour)),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			mw(dummyHandler).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOperatorFromContext_EmptyWhenNoMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if op := OperatorFromContext(req.Context()); op != "" {
		t.Errorf("expected empty operator identity, got %q", op)
	}
}
