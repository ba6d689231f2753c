package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/repository"
	"github.com/cirocosta/todo-service/internal/service"
)

var cmpSortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tr := newTestTranslator(t)
	svc := service.NewTodoService(repository.NewInMemoryTodoRepository(), tr, zap.NewNop())
	srv := httptest.NewServer(NewRouter(svc, tr, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestTodoLifecycle(t *testing.T) {
	t.Parallel()

	for name, prefix := range map[string]string{
		"root":      "",
		"versioned": APIPrefix,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(t)

			resp, body := do(t, srv, http.MethodPost, prefix+"/todos", `{"task":"Run a 5k","completed":false}`)
			require.Equal(t, http.StatusCreated, resp.StatusCode, body)
			assert.JSONEq(t, `{"id":1,"task":"Run a 5k","completed":false}`, body)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

			resp, body = do(t, srv, http.MethodPost, prefix+"/todos", `{"task":"Run a 5k","completed":true}`)
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
			assert.JSONEq(t, `{"message":"Duplicate todo found."}`, body)

			resp, body = do(t, srv, http.MethodGet, prefix+"/todos/1", "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"id":1,"task":"Run a 5k","completed":false}`, body)

			resp, body = do(t, srv, http.MethodPatch, prefix+"/todos/1", `{"completed":true}`)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"id":1,"task":"Run a 5k","completed":true}`, body)

			resp, body = do(t, srv, http.MethodPatch, prefix+"/todos/1", `{"isAdmin":true}`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"message":"No valid fields available to update."}`, body)

			resp, body = do(t, srv, http.MethodGet, prefix+"/todos", "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `[{"id":1,"task":"Run a 5k","completed":true}]`, body)

			resp, body = do(t, srv, http.MethodDelete, prefix+"/todos/1", "")
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)
			assert.Empty(t, body)

			resp, body = do(t, srv, http.MethodGet, prefix+"/todos/1", "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.JSONEq(t, `{"message":"Todo not found."}`, body)

			resp, body = do(t, srv, http.MethodDelete, prefix+"/todos/1", "")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.JSONEq(t, `{"message":"Todo not found."}`, body)

			resp, body = do(t, srv, http.MethodGet, prefix+"/todos", "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `[]`, body)
		})
	}
}

func TestRouter_Localized(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/todos/42", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Language", "fr")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var got model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Tâche introuvable.", got.Message)
}

func TestRouter_Errors(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	for name, tc := range map[string]struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		"unknown route":      {method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
		"method not allowed": {method: http.MethodPut, path: "/todos/1", body: `{}`, wantStatus: http.StatusMethodNotAllowed},
		"invalid id":         {method: http.MethodGet, path: "/api/v1/todos/abc", wantStatus: http.StatusBadRequest},
		"invalid body":       {method: http.MethodPost, path: "/todos", body: `nope`, wantStatus: http.StatusBadRequest},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resp, _ := do(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestRouter_OpenAPIDocument(t *testing.T) {
	t.Parallel()

	doc := NewRouter(NewDocTodoService(), nil, nil).OpenAPI()
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)

	var got []string
	for path := range paths {
		got = append(got, path)
	}
	want := []string{
		"/health",
		"/todos",
		"/todos/{id}",
		"/api/v1/todos",
		"/api/v1/todos/{id}",
	}
	if diff := cmp.Diff(want, got, cmpSortStrings); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	item := paths["/todos/{id}"].(map[string]any)
	for _, method := range []string{"get", "patch", "delete"} {
		assert.Contains(t, item, method)
	}
	del := item["delete"].(map[string]any)
	assert.Contains(t, del["responses"], "204")
	assert.Contains(t, del["responses"], "404")
}

func TestRouter_SharedInternalError(t *testing.T) {
	t.Parallel()

	doc := NewRouter(NewDocTodoService(), nil, nil).OpenAPI()

	components := doc["components"].(map[string]any)
	responses, ok := components["responses"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, responses, "InternalError")

	ref := map[string]any{"$ref": "#/components/responses/InternalError"}
	paths := doc["paths"].(map[string]any)
	for _, path := range []string{"/todos", "/todos/{id}", "/api/v1/todos", "/api/v1/todos/{id}"} {
		for method, op := range paths[path].(map[string]any) {
			got := op.(map[string]any)["responses"].(map[string]any)["500"]
			assert.Equal(t, ref, got, "%s %s", method, path)
		}
	}

	health := paths["/health"].(map[string]any)["get"].(map[string]any)
	assert.NotContains(t, health["responses"], "500")
}

func TestRouter_ServesOpenAPI(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestGenerateOpenAPI(t *testing.T) {
	t.Parallel()

	data, err := GenerateOpenAPI()
	require.NoError(t, err)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Todo Service", doc.Info.Title)
	for _, schema := range []string{"Todo", "CreateTodoRequest", "TodoPatch", "ErrorResponse", "ValidationErrorResponse", "HealthResponse"} {
		assert.Contains(t, doc.Components.Schemas, schema)
	}
}
