// package api provides the HTTP API for the application
package api

import (
	"context"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/result"
	"github.com/cirocosta/todo-service/pkg/router"
	"github.com/cirocosta/todo-service/pkg/translator"
)

// APIPrefix is the versioned alias every todo route is also served under
const APIPrefix = "/api/v1"

// TodoService defines the minimal interface needed by the API
type TodoService interface {
	CreateTodo(ctx context.Context, req model.CreateTodoRequest) result.Result
	FindTodoByID(ctx context.Context, id int64) result.Result
	FindAllTodos(ctx context.Context) result.Result
	UpdateTodo(ctx context.Context, id int64, patch model.TodoPatch) result.Result
	RemoveTodo(ctx context.Context, id int64) result.Result

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}

// API holds the components needed to register routes
type API struct {
	router        *router.DocRouter
	todoHandler   *TodoHandler
	healthHandler *HealthHandler
}

// NewRouter creates a new router with all routes configured
func NewRouter(todoService TodoService, tr *translator.Translator, logger *zap.Logger) *router.DocRouter {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := router.NewDocRouter("Todo Service",
		"Create, read, update and delete todo items",
		"1.0.0",
	)

	r.Use(requestIDMiddleware)
	r.Use(loggerMiddleware(logger))
	r.Use(recovererMiddleware(logger, tr))
	r.Use(languageMiddleware(tr))

	api := &API{
		router:        r,
		todoHandler:   NewTodoHandler(todoService, tr),
		healthHandler: NewHealthHandler(todoService, logger),
	}
	api.registerRoutes()

	return r
}

func (api *API) registerRoutes() {
	api.router.WithServer("http://localhost:8080", "Local server").
		WithTag("Todos", "Operations related to todo items").
		WithTag("Core", "Core API endpoints")

	api.router.Route(http.MethodGet, "/health", api.healthHandler.Check).
		WithName("Health Check").
		WithDescription("Reports whether the todo store is reachable").
		WithResponse(model.HealthResponse{}).
		WithErrorResponse(http.StatusServiceUnavailable, "Store unreachable", model.HealthResponse{},
			router.Example{ContentType: "application/json", Value: `{"status": "down"}`}).
		WithTags("Core").
		Register()

	api.router.Route(http.MethodGet, "/openapi.json", api.router.OpenAPIHandler).
		WithName("OpenAPI Document").
		WithDescription("Serves this document").
		WithTags("Core").
		Hidden().
		Register()

	for _, prefix := range []string{"", APIPrefix} {
		api.registerTodoRoutes(prefix)
	}

	// every todo route can fail on the store the same way
	api.router.RegisterResponse("InternalError", map[string]any{
		"description": "Internal Server Error",
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{"message": "Something went wrong."},
			},
		},
	})
	for _, route := range api.router.GetRoutes() {
		if slices.Contains(route.Tags, "Todos") {
			api.router.RegisterRouteResponse(route.Path, route.Method, "500", "InternalError")
		}
	}
}

func (api *API) registerTodoRoutes(prefix string) {
	errSchema := model.ErrorResponse{}
	validationSchema := model.ValidationErrorResponse{}

	notFound := router.Example{
		ContentType: "application/json",
		Value:       `{"message": "Todo not found."}`,
	}
	invalidID := router.Example{
		ContentType: "application/json",
		Value:       `{"message": "Validation failed.", "errors": [{"id": "The url parameter id must be an integer."}]}`,
	}
	idDescription := "Todo identifier"

	api.router.Route(http.MethodGet, prefix+"/todos", api.todoHandler.ListTodos).
		WithName("List Todos").
		WithDescription("Get all todo items").
		WithResponse([]model.Todo{}).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodPost, prefix+"/todos", api.todoHandler.CreateTodo).
		WithName("Create Todo").
		WithDescription("Create a new todo item").
		WithRequest(model.CreateTodoRequest{}).
		WithResponse(model.Todo{}).
		WithStatus(http.StatusCreated).
		WithErrorResponse(http.StatusBadRequest, "Validation failed", validationSchema,
			router.Example{
				ContentType: "application/json",
				Value:       `{"message": "Validation failed.", "errors": [{"task": "The 'task' field is required."}]}`,
			}).
		WithErrorResponse(http.StatusConflict, "Duplicate task", errSchema,
			router.Example{
				ContentType: "application/json",
				Value:       `{"message": "Duplicate todo found."}`,
			}).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodGet, prefix+"/todos/{id}", api.todoHandler.GetTodo).
		WithName("Get Todo").
		WithDescription("Get a todo item by ID").
		WithPathParam("id", "integer", idDescription).
		WithResponse(model.Todo{}).
		WithErrorResponse(http.StatusBadRequest, "Invalid id", validationSchema, invalidID).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema, notFound).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodPatch, prefix+"/todos/{id}", api.todoHandler.UpdateTodo).
		WithName("Update Todo").
		WithDescription("Partially update a todo item").
		WithPathParam("id", "integer", idDescription).
		WithRequest(model.TodoPatch{}).
		WithResponse(model.Todo{}).
		WithErrorResponse(http.StatusBadRequest, "Validation failed", validationSchema, invalidID,
			router.Example{
				ContentType: "application/json",
				Value:       `{"message": "No valid fields available to update."}`,
			}).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema, notFound).
		WithErrorResponse(http.StatusConflict, "Duplicate task", errSchema).
		WithTags("Todos").
		Register()

	api.router.Route(http.MethodDelete, prefix+"/todos/{id}", api.todoHandler.DeleteTodo).
		WithName("Delete Todo").
		WithDescription("Delete a todo item").
		WithPathParam("id", "integer", idDescription).
		WithStatus(http.StatusNoContent).
		WithErrorResponse(http.StatusBadRequest, "Invalid id", validationSchema, invalidID).
		WithErrorResponse(http.StatusNotFound, "Not Found", errSchema, notFound).
		WithTags("Todos").
		Register()
}
