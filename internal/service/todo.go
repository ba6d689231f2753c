// package service implements business logic for the application
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/repository"
	"github.com/cirocosta/todo-service/internal/result"
	"github.com/cirocosta/todo-service/pkg/translator"
)

// SeedTodos is the data loaded by the seed command
var SeedTodos = []model.CreateTodoRequest{
	{Task: "Run a 5k", Completed: false},
	{Task: "Go to the gym", Completed: true},
}

// TodoService handles business logic for todo operations. Every operation
// returns a result.Result; repository errors never escape it
type TodoService struct {
	repo       repository.TodoRepository
	translator *translator.Translator
	logger     *zap.Logger
}

// NewTodoService creates a new todo service with the given repository. A nil
// translator renders English messages and a nil logger discards output
func NewTodoService(repo repository.TodoRepository, tr *translator.Translator, logger *zap.Logger) *TodoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoService{
		repo:       repo,
		translator: tr,
		logger:     logger.With(zap.String("component", "todo-service")),
	}
}

// CreateTodo creates a new todo. A task that is already taken yields
// DUPLICATE_ENTRY
func (s *TodoService) CreateTodo(ctx context.Context, req model.CreateTodoRequest) result.Result {
	todo, err := s.repo.Create(ctx, req)
	if errors.Is(err, repository.ErrDuplicateTask) {
		return result.DuplicateEntry(s.localize(ctx, msgTodoDuplicate))
	}
	if err != nil {
		return s.internalError(ctx, "create", err)
	}

	s.logger.Debug("todo created", zap.Int64("id", todo.ID))
	return result.Created(todo, s.localize(ctx, msgTodoCreated))
}

// FindTodoByID returns a todo by ID
func (s *TodoService) FindTodoByID(ctx context.Context, id int64) result.Result {
	todo, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.internalError(ctx, "find", err)
	}
	if !found {
		return result.NotFound(s.localize(ctx, msgTodoNotFound))
	}
	return result.Success(todo, s.localize(ctx, msgTodoFound))
}

// FindAllTodos returns all todos, an empty slice when there are none
func (s *TodoService) FindAllTodos(ctx context.Context) result.Result {
	todos, err := s.repo.FindAll(ctx)
	if err != nil {
		return s.internalError(ctx, "list", err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return result.Success(todos, s.localize(ctx, msgTodosFound))
}

// UpdateTodo applies patch to an existing todo. The id is checked before the
// patch, so an unknown id is NOT_FOUND even when the patch is empty
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, patch model.TodoPatch) result.Result {
	_, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.internalError(ctx, "update", err)
	}
	if !found {
		return result.NotFound(s.localize(ctx, msgTodoNotFound))
	}

	if patch.IsEmpty() {
		return result.ValidationError(s.localize(ctx, msgTodoNoValidFields))
	}

	todo, err := s.repo.Update(ctx, id, patch)
	switch {
	case errors.Is(err, repository.ErrTodoNotFound):
		// removed between the lookup and the update
		return result.NotFound(s.localize(ctx, msgTodoNotFound))
	case errors.Is(err, repository.ErrDuplicateTask):
		return result.DuplicateEntry(s.localize(ctx, msgTodoDuplicate))
	case err != nil:
		return s.internalError(ctx, "update", err)
	}

	return result.Success(todo, s.localize(ctx, msgTodoUpdated))
}

// RemoveTodo deletes a todo
func (s *TodoService) RemoveTodo(ctx context.Context, id int64) result.Result {
	deleted, err := s.repo.Remove(ctx, id)
	if err != nil {
		return s.internalError(ctx, "remove", err)
	}
	if !deleted {
		return result.NotFound(s.localize(ctx, msgTodoNotFound))
	}
	return result.NoContent(s.localize(ctx, msgTodoDeleted))
}

// Seed inserts the given todos, skipping tasks that already exist, and
// returns the todos it created
func (s *TodoService) Seed(ctx context.Context, reqs []model.CreateTodoRequest) ([]model.Todo, error) {
	pending := make([]model.CreateTodoRequest, 0, len(reqs))
	for _, req := range reqs {
		existing, err := s.repo.FindByTask(ctx, req.Task)
		if err != nil {
			return nil, fmt.Errorf("look up %q: %w", req.Task, err)
		}
		if len(existing) > 0 {
			s.logger.Info("skipping existing todo", zap.String("task", req.Task))
			continue
		}
		pending = append(pending, req)
	}

	if len(pending) == 0 {
		return []model.Todo{}, nil
	}

	todos, err := s.repo.CreateMany(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("seed todos: %w", err)
	}
	return todos, nil
}

// Ping checks that the store is reachable
func (s *TodoService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TodoService) localize(ctx context.Context, msg *i18n.Message) string {
	return s.translator.Localize(translator.LanguageFromContext(ctx), msg, nil)
}

func (s *TodoService) internalError(ctx context.Context, op string, err error) result.Result {
	s.logger.Error("todo operation failed", zap.String("operation", op), zap.Error(err))
	return result.InternalError(s.localize(ctx, msgSomethingWentWrong))
}
