package api

import (
	"context"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/result"
)

// DocTodoService is a TodoService that does nothing. It backs the router when
// only the OpenAPI document is needed
type DocTodoService struct{}

// NewDocTodoService creates a new no-op todo service
func NewDocTodoService() *DocTodoService {
	return &DocTodoService{}
}

// CreateTodo implements TodoService
func (s *DocTodoService) CreateTodo(context.Context, model.CreateTodoRequest) result.Result {
	return result.Default("")
}

// FindTodoByID implements TodoService
func (s *DocTodoService) FindTodoByID(context.Context, int64) result.Result {
	return result.Default("")
}

// FindAllTodos implements TodoService
func (s *DocTodoService) FindAllTodos(context.Context) result.Result {
	return result.Default("")
}

// UpdateTodo implements TodoService
func (s *DocTodoService) UpdateTodo(context.Context, int64, model.TodoPatch) result.Result {
	return result.Default("")
}

// RemoveTodo implements TodoService
func (s *DocTodoService) RemoveTodo(context.Context, int64) result.Result {
	return result.Default("")
}

// Ping implements TodoService
func (s *DocTodoService) Ping(context.Context) error {
	return nil
}

// GenerateOpenAPI renders the OpenAPI document without a backing store
func GenerateOpenAPI() ([]byte, error) {
	return NewRouter(NewDocTodoService(), nil, nil).OpenAPIJSON()
}
