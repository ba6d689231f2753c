package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsersRouter() *DocRouter {
	router := NewDocRouter("Test API", "API for testing", "1.0.0").
		WithServer("https://api.example.com", "Production server").
		WithTag("users", "User operations")

	router.RegisterResponse("StandardError", map[string]any{
		"description": "Standard error response",
	})

	router.Route("GET", "/users", noopHandler).
		WithName("List Users").
		WithDescription("Get all users").
		WithResponse([]User{}).
		WithTags("users").
		Register()

	router.Route("POST", "/users", noopHandler).
		WithName("Create User").
		WithDescription("Create a new user").
		WithRequest(CreateUserRequest{}).
		WithResponse(User{}).
		WithStatus(http.StatusCreated).
		WithErrorResponse(http.StatusBadRequest, "Invalid request", ErrorResponse{},
			Example{ContentType: "application/json", Value: `{"message":"bad"}`}).
		WithTags("users").
		Register()

	router.Route("DELETE", "/users/{id}", noopHandler).
		WithName("Delete User").
		WithStatus(http.StatusNoContent).
		WithResponse(User{}).
		WithPathParam("id", "integer", "User id").
		WithErrorResponse(http.StatusNotFound, "Not found", ErrorResponse{}).
		Register()

	router.RegisterRouteResponse("/users", "GET", "500", "StandardError")
	return router
}

func operation(t *testing.T, doc map[string]any, path, method string) map[string]any {
	t.Helper()
	paths := doc["paths"].(map[string]any)
	require.Contains(t, paths, path)
	item := paths[path].(map[string]any)
	require.Contains(t, item, method)
	return item[method].(map[string]any)
}

func TestOpenAPI_Document(t *testing.T) {
	t.Parallel()

	doc := newUsersRouter().OpenAPI()

	assert.Equal(t, openAPIVersion, doc["openapi"])
	assert.Equal(t, map[string]any{
		"title":       "Test API",
		"description": "API for testing",
		"version":     "1.0.0",
	}, doc["info"])
	assert.Equal(t, []any{map[string]any{"url": "https://api.example.com", "description": "Production server"}}, doc["servers"])
	assert.Equal(t, []any{map[string]any{"name": "users", "description": "User operations"}}, doc["tags"])

	components := doc["components"].(map[string]any)
	schemas := components["schemas"].(map[string]any)
	for _, name := range []string{"User", "Address", "CreateUserRequest", "ErrorResponse"} {
		assert.Contains(t, schemas, name)
	}
	assert.Contains(t, components["responses"], "StandardError")
}

func TestOpenAPI_ListResponseIsArray(t *testing.T) {
	t.Parallel()

	op := operation(t, newUsersRouter().OpenAPI(), "/users", "get")
	responses := op["responses"].(map[string]any)

	want := map[string]any{
		"description": "OK",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{
					"type":  "array",
					"items": map[string]any{"$ref": "#/components/schemas/User"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, responses["200"]); diff != "" {
		t.Errorf("200 response mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]any{"$ref": "#/components/responses/StandardError"}, responses["500"])
	assert.Equal(t, []string{"users"}, op["tags"])
}

func TestOpenAPI_CreateRoute(t *testing.T) {
	t.Parallel()

	op := operation(t, newUsersRouter().OpenAPI(), "/users", "post")
	responses := op["responses"].(map[string]any)

	assert.Contains(t, responses, "201")
	assert.NotContains(t, responses, "200")

	body := op["requestBody"].(map[string]any)
	assert.Equal(t, true, body["required"])
	content := body["content"].(map[string]any)["application/json"].(map[string]any)
	assert.Equal(t, map[string]any{"$ref": "#/components/schemas/CreateUserRequest"}, content["schema"])

	bad := responses["400"].(map[string]any)
	badContent := bad["content"].(map[string]any)["application/json"].(map[string]any)
	examples := badContent["examples"].(map[string]any)
	assert.Equal(t, map[string]any{"value": map[string]any{"message": "bad"}}, examples["example1"])
}

func TestOpenAPI_NoContentAndPathParams(t *testing.T) {
	t.Parallel()

	op := operation(t, newUsersRouter().OpenAPI(), "/users/{id}", "delete")
	responses := op["responses"].(map[string]any)

	assert.Equal(t, map[string]any{"description": "No Content"}, responses["204"])
	assert.Equal(t, "delete_users_id", op["operationId"])
	assert.Equal(t, []any{map[string]any{
		"name":        "id",
		"in":          "path",
		"required":    true,
		"description": "User id",
		"schema":      map[string]any{"type": "integer"},
	}}, op["parameters"])
	assert.NotContains(t, op, "requestBody")
}

func TestOpenAPI_DoesNotMutateRouter(t *testing.T) {
	t.Parallel()

	router := newUsersRouter()
	first, err := router.OpenAPIJSON()
	require.NoError(t, err)
	second, err := router.OpenAPIJSON()
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestOpenAPIHandler(t *testing.T) {
	t.Parallel()

	router := newUsersRouter()
	rec := httptest.NewRecorder()
	router.OpenAPIHandler(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, openAPIVersion, doc["openapi"])
}

func TestExtractPathParams(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		path     string
		expected []string
	}{
		"no params":       {path: "/users", expected: nil},
		"one param":       {path: "/users/{id}", expected: []string{"id"}},
		"multiple params": {path: "/users/{id}/posts/{postId}", expected: []string{"id", "postId"}},
		"trailing slash":  {path: "/users/{id}/", expected: []string{"id"}},
		"wildcard":        {path: "/files/{path...}", expected: []string{"path"}},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, extractPathParams(tc.path))
		})
	}
}

func TestGeneratePathParameters_DefaultsToString(t *testing.T) {
	t.Parallel()

	params := generatePathParameters("/users/{id}/posts/{slug}", []PathParam{{Name: "id", Type: "integer"}})
	require.Len(t, params, 2)

	id := params[0].(map[string]any)
	assert.Equal(t, map[string]any{"type": "integer"}, id["schema"])
	assert.Equal(t, "id parameter", id["description"])

	slug := params[1].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string"}, slug["schema"])
}

func TestOperationID(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		method string
		path   string
		want   string
	}{
		"root":     {method: "get", path: "/", want: "get_root"},
		"simple":   {method: "GET", path: "/todos", want: "get_todos"},
		"param":    {method: "patch", path: "/api/v1/todos/{id}", want: "patch_api_v1_todos_id"},
		"wildcard": {method: "get", path: "/files/{path...}", want: "get_files_path"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, operationID(tc.method, tc.path))
		})
	}
}
