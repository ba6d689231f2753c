package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test types
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code,omitempty"`
}

type User struct {
	ID       int64   `json:"id" doc:"User id" example:"7"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Active   bool    `json:"active" example:"true"`
	Address  Address `json:"address"`
}

type CreateUserRequest struct {
	Username string `json:"username" doc:"Username for the new user"`
	Email    string `json:"email" doc:"Email address for the new user"`
	Password string `json:"password" doc:"Password for the new user"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func noopHandler(w http.ResponseWriter, r *http.Request) {}

func textHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestNewDocRouter(t *testing.T) {
	t.Parallel()

	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	assert.Equal(t, "Test API", router.title)
	assert.Equal(t, "API for testing", router.description)
	assert.Equal(t, "1.0.0", router.version)
	assert.NotNil(t, router.mux)
	assert.Empty(t, router.routes)
	assert.Empty(t, router.servers)
	assert.Empty(t, router.tags)
	assert.Empty(t, router.customResponses)
	assert.Empty(t, router.routeResponses)
}

func TestWithServerAndTag(t *testing.T) {
	t.Parallel()

	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	result := router.
		WithServer("https://api.example.com", "Production server").
		WithTag("users", "User operations")

	assert.Same(t, router, result, "builders should return the router for chaining")
	require.Len(t, router.servers, 1)
	assert.Equal(t, "https://api.example.com", router.servers[0].URL)
	require.Len(t, router.tags, 1)
	assert.Equal(t, "users", router.tags[0].Name)
	assert.Equal(t, "User operations", router.tags[0].Description)
}

func TestRegisterRouteResponse(t *testing.T) {
	t.Parallel()

	router := NewDocRouter("Test API", "API for testing", "1.0.0")
	router.RegisterRouteResponse("/users", "GET", "500", "StandardError")

	assert.Equal(t, map[string]map[string]string{
		"get:/users": {"500": "StandardError"},
	}, router.routeResponses)
}

func TestRouteConfigChain(t *testing.T) {
	t.Parallel()

	router := NewDocRouter("Test API", "API for testing", "1.0.0")

	router.Route("get", "/users/{id}", noopHandler).
		WithName("Get User").
		WithDescription("Get a user by ID").
		WithResponse(User{}).
		WithErrorResponse(http.StatusNotFound, "User not found", ErrorResponse{}).
		WithPathParam("id", "integer", "User id").
		WithTags("users").
		Register()

	routes := router.GetRoutes()
	require.Len(t, routes, 1)
	route := routes[0]

	assert.Equal(t, "GET", route.Method)
	assert.Equal(t, "/users/{id}", route.Path)
	assert.Equal(t, "Get User", route.Name)
	assert.Equal(t, "Get a user by ID", route.Description)
	assert.NotNil(t, route.Handler)
	assert.IsType(t, User{}, route.ResponseType)
	assert.Nil(t, route.RequestType)
	assert.Contains(t, route.Responses, "404")
	assert.Equal(t, "User not found", route.Responses["404"].Description)
	assert.Equal(t, []PathParam{{Name: "id", Type: "integer", Description: "User id"}}, route.PathParams)
	assert.Equal(t, []string{"users"}, route.Tags)
}

func TestServeHTTP(t *testing.T) {
	t.Parallel()

	router := NewDocRouter("Test API", "API for testing", "1.0.0")
	router.Route("GET", "/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("user " + r.PathValue("id")))
	}).Register()

	for name, tc := range map[string]struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		"match":        {method: http.MethodGet, path: "/users/42", wantStatus: http.StatusOK, wantBody: "user 42"},
		"wrong method": {method: http.MethodPost, path: "/users/42", wantStatus: http.StatusMethodNotAllowed},
		"unknown path": {method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestUse(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router := NewDocRouter("Test API", "API for testing", "1.0.0")
	router.Route("GET", "/before", textHandler("before")).Register()
	router.Use(trace("first"))
	router.Use(trace("second"), trace("third"))
	router.Route("GET", "/after", textHandler("after")).Register()

	for _, path := range []string{"/before", "/after"} {
		order = nil
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, strings.TrimPrefix(path, "/"), rec.Body.String())
		assert.Equal(t, []string{"first", "second", "third"}, order, path)
	}
}

func TestHiddenRoute(t *testing.T) {
	t.Parallel()

	router := NewDocRouter("Test API", "API for testing", "1.0.0")
	router.Route("GET", "/internal", textHandler("ok")).Hidden().Register()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	paths := router.OpenAPI()["paths"].(map[string]any)
	assert.NotContains(t, paths, "/internal")
}
