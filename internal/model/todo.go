// package model contains the data models for the todo service
package model

// Todo represents a todo item in the system
type Todo struct {
	ID        int64  `json:"id" db:"id" doc:"Unique identifier assigned by the store" example:"1"`
	Task      string `json:"task" db:"task" doc:"Task text, unique across all todos" example:"Run a 5k"`
	Completed bool   `json:"completed" db:"completed" doc:"Whether the todo item is completed" example:"false"`
}

// CreateTodoRequest is used when creating a new todo item
type CreateTodoRequest struct {
	Task      string `json:"task" doc:"Task text" example:"Run a 5k"`
	Completed bool   `json:"completed" doc:"Whether the todo item is completed" example:"false"`
}

// TodoPatch holds the fields a partial update intends to change. A nil field
// is left untouched
type TodoPatch struct {
	Task      *string `json:"task,omitempty" doc:"New task text" example:"Run a 10k"`
	Completed *bool   `json:"completed,omitempty" doc:"New completion state" example:"true"`
}

// IsEmpty reports whether the patch changes nothing
func (p TodoPatch) IsEmpty() bool {
	return p.Task == nil && p.Completed == nil
}

// Apply returns a copy of todo with the patch applied
func (p TodoPatch) Apply(todo Todo) Todo {
	if p.Task != nil {
		todo.Task = *p.Task
	}
	if p.Completed != nil {
		todo.Completed = *p.Completed
	}
	return todo
}

// ErrorResponse is the body of every failed response
type ErrorResponse struct {
	Message string `json:"message" doc:"Error message" example:"Todo not found."`
}

// ValidationErrorResponse is returned when the request shape is invalid. Each
// entry of Errors maps a single field name to its message
type ValidationErrorResponse struct {
	Message string              `json:"message" doc:"Error message" example:"Validation failed."`
	Errors  []map[string]string `json:"errors" doc:"Per-field validation messages"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status" doc:"Store reachability" example:"ok" enum:"ok,down"`
}
