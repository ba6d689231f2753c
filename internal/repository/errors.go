// package repository provides data access and error types
package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrTodoNotFound is returned when a todo with the specified ID does not exist
	ErrTodoNotFound = errors.New("todo not found")

	// ErrDuplicateTask is returned when a write would leave two todos with the
	// same task text
	ErrDuplicateTask = errors.New("duplicate task")
)

func notFound(id int64) error {
	return fmt.Errorf("todo with id %d: %w", id, ErrTodoNotFound)
}

func duplicate(task string) error {
	return fmt.Errorf("task %q: %w", task, ErrDuplicateTask)
}
