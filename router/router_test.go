// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/mandates/auth"
	"github.com/danielhkuo/mandates/models"
	"github.com/danielhkuo/mandates/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestHealthEndpointDatabaseDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())
	db.Close()

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if expected := "mandates API v1"; w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	// every route reaches its handler: unknown IDs give 401 or 404 from the
	// handler, never 405 from the mux
	testCases := []struct {
		method string
		path   string
		status int
	}{
		{"POST", "/elections/e1/runs", http.StatusUnauthorized},
		{"GET", "/elections/e1/runs", http.StatusOK},
		{"GET", "/elections/e1/latest", http.StatusNotFound},
		{"GET", "/runs/r1", http.StatusNotFound},
		{"GET", "/runs/r1/seats", http.StatusNotFound},
		{"GET", "/runs/r1/votes", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d. Body: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("DELETE", "/runs/r1", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestUnknownPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/polls", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCreateAndFetchThroughRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	e := testutil.SampleElection()
	key := auth.GenerateAdminKey(e.ID, cfg.AdminKeySalt)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/elections/sample/runs",
		models.CreateRunRequest{Election: e}, map[string]string{"X-Admin-Key": key}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.CreateRunResponse
	testutil.AssertJSON(t, w, &created)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/runs/"+created.RunID+"/seats", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers on routed responses")
	}
}
