package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/giannis84/star-catalog/internal/importer"
	"github.com/giannis84/star-catalog/internal/logging"
	"github.com/giannis84/star-catalog/internal/swapi"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "test-secret"

func signedToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// setupAdminRouter wires the admin routes against a sqlmock store and a
// catalog client pointed at upstreamURL.
func setupAdminRouter(t *testing.T, upstreamURL string) (*chi.Mux, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	client := swapi.NewClient(upstreamURL, "star-catalog-test", 1000)
	imp := importer.New(db, client)

	router := chi.NewRouter()
	router.Use(logging.RequestLogger(testLogger()))
	router.Group(RegisterAdminRoutes(db, imp, testJWTSecret))
	return router, mock
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, _ := setupAdminRouter(t, "http://127.0.0.1:0")

	tests := []struct {
		name   string
		header string
	}{
		{"no authorization header", ""},
		{"malformed header", "Bearer"},
		{"garbage token", "Bearer not-a-jwt"},
		{"token signed with wrong secret", "Bearer " + signedToken(t, "other-secret", "ops-alice")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401; body: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAdminStats(t *testing.T) {
	t.Run("returns row counts per table", func(t *testing.T) {
		router, mock := setupAdminRouter(t, "http://127.0.0.1:0")
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM planets`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM favourite_movies`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM favourite_planets`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		req := httptest.NewRequest("GET", "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTSecret, "ops-alice"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
		}
		var stats statsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		want := statsResponse{Movies: 6, Planets: 60, FavouriteMovies: 3, FavouritePlanets: 1}
		if stats != want {
			t.Errorf("stats = %+v, want %+v", stats, want)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		router, mock := setupAdminRouter(t, "http://127.0.0.1:0")
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies`).
			WillReturnError(fmt.Errorf("connection failed"))

		req := httptest.NewRequest("GET", "/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTSecret, "ops-alice"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500; body: %s", rr.Code, rr.Body.String())
		}
	})
}

func TestAdminImport_UpstreamUnavailable(t *testing.T) {
	// An upstream that refuses connections must surface as a bad gateway,
	// and the store must never be touched.
	upstream := httptest.NewServer(http.NotFoundHandler())
	upstream.Close()

	router, mock := setupAdminRouter(t, upstream.URL)

	req := httptest.NewRequest("POST", "/admin/import", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTSecret, "ops-alice"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502; body: %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no store access expected: %v", err)
	}
}

func TestAdminImport_Success(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/films/":
			fmt.Fprint(w, `{"next": null, "results": [
				{"title": "A New Hope", "release_date": "1977-05-25",
				 "created": "2014-12-10T14:23:31Z", "edited": "2014-12-20T19:49:45Z",
				 "url": "https://swapi.dev/api/films/1/"}
			]}`)
		case "/planets/":
			fmt.Fprint(w, `{"next": null, "results": [
				{"name": "Tatooine",
				 "created": "2014-12-09T13:50:49Z", "edited": "2014-12-20T20:58:18Z",
				 "url": "https://swapi.dev/api/planets/1/"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	router, mock := setupAdminRouter(t, upstream.URL)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM movies").WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec("DELETE FROM planets").WillReturnResult(sqlmock.NewResult(0, 60))
	moviesCopy := mock.ExpectPrepare(`COPY "movies"`)
	moviesCopy.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	moviesCopy.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
	planetsCopy := mock.ExpectPrepare(`COPY "planets"`)
	planetsCopy.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	planetsCopy.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	req := httptest.NewRequest("POST", "/admin/import", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTSecret, "ops-alice"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data importer.Counts `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.Movies != 1 || resp.Data.Planets != 1 {
		t.Errorf("unexpected counts: %+v", resp.Data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
