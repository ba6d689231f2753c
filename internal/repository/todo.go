// package repository provides data access interfaces and implementations
package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/cirocosta/todo-service/internal/model"
)

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create adds a new todo and returns it with its assigned ID. Fails with
	// ErrDuplicateTask when the task is already taken
	Create(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error)

	// CreateMany adds all todos or none of them
	CreateMany(ctx context.Context, reqs []model.CreateTodoRequest) ([]model.Todo, error)

	// FindByID returns a specific todo. found is false when no todo matches
	FindByID(ctx context.Context, id int64) (todo model.Todo, found bool, err error)

	// FindAll returns all todos ordered by ID
	FindAll(ctx context.Context) ([]model.Todo, error)

	// FindByTask returns the todos whose task equals task exactly
	FindByTask(ctx context.Context, task string) ([]model.Todo, error)

	// Update applies patch and returns the post-update todo
	Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error)

	// Remove deletes a todo and reports whether a row was actually deleted
	Remove(ctx context.Context, id int64) (bool, error)

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}

// InMemoryTodoRepository implements TodoRepository with an in-memory map
type InMemoryTodoRepository struct {
	todos  map[int64]model.Todo
	nextID int64
	mutex  sync.RWMutex
}

var _ TodoRepository = (*InMemoryTodoRepository)(nil)

// NewInMemoryTodoRepository creates an empty in-memory todo repository
func NewInMemoryTodoRepository() *InMemoryTodoRepository {
	return &InMemoryTodoRepository{
		todos:  make(map[int64]model.Todo),
		nextID: 1,
	}
}

// Create adds a new todo
func (r *InMemoryTodoRepository) Create(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.taskTaken(req.Task, 0) {
		return model.Todo{}, duplicate(req.Task)
	}

	return r.insert(req), nil
}

// CreateMany adds all todos or none of them
func (r *InMemoryTodoRepository) CreateMany(ctx context.Context, reqs []model.CreateTodoRequest) ([]model.Todo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		if seen[req.Task] || r.taskTaken(req.Task, 0) {
			return nil, duplicate(req.Task)
		}
		seen[req.Task] = true
	}

	todos := make([]model.Todo, 0, len(reqs))
	for _, req := range reqs {
		todos = append(todos, r.insert(req))
	}

	return todos, nil
}

// FindByID returns a specific todo by ID
func (r *InMemoryTodoRepository) FindByID(ctx context.Context, id int64) (model.Todo, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todo, exists := r.todos[id]
	return todo, exists, nil
}

// FindAll returns all todos
func (r *InMemoryTodoRepository) FindAll(ctx context.Context) ([]model.Todo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todos := make([]model.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		todos = append(todos, todo)
	}
	slices.SortFunc(todos, func(a, b model.Todo) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return todos, nil
}

// FindByTask returns the todos with the given task
func (r *InMemoryTodoRepository) FindByTask(ctx context.Context, task string) ([]model.Todo, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	todos := []model.Todo{}
	for _, todo := range r.todos {
		if todo.Task == task {
			todos = append(todos, todo)
		}
	}

	return todos, nil
}

// Update modifies an existing todo
func (r *InMemoryTodoRepository) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	todo, exists := r.todos[id]
	if !exists {
		return model.Todo{}, notFound(id)
	}

	if patch.Task != nil && r.taskTaken(*patch.Task, id) {
		return model.Todo{}, duplicate(*patch.Task)
	}

	todo = patch.Apply(todo)
	r.todos[id] = todo

	return todo, nil
}

// Remove deletes a todo
func (r *InMemoryTodoRepository) Remove(ctx context.Context, id int64) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.todos[id]; !exists {
		return false, nil
	}

	delete(r.todos, id)
	return true, nil
}

// Ping always succeeds
func (r *InMemoryTodoRepository) Ping(ctx context.Context) error {
	return nil
}

// taskTaken reports whether a todo other than except already uses task.
// Callers must hold the mutex
func (r *InMemoryTodoRepository) taskTaken(task string, except int64) bool {
	for id, todo := range r.todos {
		if id != except && todo.Task == task {
			return true
		}
	}
	return false
}

// insert stores a new todo under the next ID. Callers must hold the write lock
func (r *InMemoryTodoRepository) insert(req model.CreateTodoRequest) model.Todo {
	todo := model.Todo{
		ID:        r.nextID,
		Task:      req.Task,
		Completed: req.Completed,
	}
	r.todos[todo.ID] = todo
	r.nextID++
	return todo
}
