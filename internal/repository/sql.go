package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/cirocosta/todo-service/internal/model"
)

const (
	selectTodoColumns = `SELECT id, task, completed FROM todos`
	insertTodoQuery   = `INSERT INTO todos (task, completed) VALUES (?, ?)`
)

// SQLTodoRepository implements TodoRepository on top of a single "todos"
// table. Task uniqueness is enforced by the table's UNIQUE constraint
type SQLTodoRepository struct {
	db *sqlx.DB

	// returning is set for drivers without LastInsertId support
	returning bool
}

var _ TodoRepository = (*SQLTodoRepository)(nil)

// NewSQLTodoRepository creates a repository over an open connection. The
// schema is expected to be migrated already
func NewSQLTodoRepository(db *sqlx.DB) *SQLTodoRepository {
	return &SQLTodoRepository{
		db:        db,
		returning: db.DriverName() == "postgres",
	}
}

// Create adds a new todo
func (r *SQLTodoRepository) Create(ctx context.Context, req model.CreateTodoRequest) (model.Todo, error) {
	var todo model.Todo
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		todo, err = r.insert(ctx, tx, req)
		return err
	})
	return todo, err
}

// CreateMany inserts every todo in a single transaction
func (r *SQLTodoRepository) CreateMany(ctx context.Context, reqs []model.CreateTodoRequest) ([]model.Todo, error) {
	todos := make([]model.Todo, 0, len(reqs))
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, req := range reqs {
			todo, err := r.insert(ctx, tx, req)
			if err != nil {
				return err
			}
			todos = append(todos, todo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// FindByID returns a specific todo by ID
func (r *SQLTodoRepository) FindByID(ctx context.Context, id int64) (model.Todo, bool, error) {
	var todo model.Todo
	err := r.db.GetContext(ctx, &todo, r.db.Rebind(selectTodoColumns+` WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, false, nil
	}
	if err != nil {
		return model.Todo{}, false, fmt.Errorf("find todo %d: %w", id, err)
	}
	return todo, true, nil
}

// FindAll returns all todos
func (r *SQLTodoRepository) FindAll(ctx context.Context) ([]model.Todo, error) {
	todos := []model.Todo{}
	if err := r.db.SelectContext(ctx, &todos, selectTodoColumns+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// FindByTask returns the todos with the given task
func (r *SQLTodoRepository) FindByTask(ctx context.Context, task string) ([]model.Todo, error) {
	todos := []model.Todo{}
	err := r.db.SelectContext(ctx, &todos, r.db.Rebind(selectTodoColumns+` WHERE task = ? ORDER BY id`), task)
	if err != nil {
		return nil, fmt.Errorf("find todos by task: %w", err)
	}
	return todos, nil
}

// Update applies the given fields and returns the post-update row
func (r *SQLTodoRepository) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	var todo model.Todo
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM todos WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("check todo %d: %w", id, err)
		}
		if exists == 0 {
			return notFound(id)
		}

		sets := []string{"updated_at = CURRENT_TIMESTAMP"}
		args := []any{}
		if patch.Task != nil {
			sets = append(sets, "task = ?")
			args = append(args, *patch.Task)
		}
		if patch.Completed != nil {
			sets = append(sets, "completed = ?")
			args = append(args, *patch.Completed)
		}
		args = append(args, id)

		query := `UPDATE todos SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			if isUniqueViolation(err) {
				return duplicate(*patch.Task)
			}
			return fmt.Errorf("update todo %d: %w", id, err)
		}

		if err := tx.GetContext(ctx, &todo, tx.Rebind(selectTodoColumns+` WHERE id = ?`), id); err != nil {
			return fmt.Errorf("reload todo %d: %w", id, err)
		}
		return nil
	})
	return todo, err
}

// Remove deletes a todo
func (r *SQLTodoRepository) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}
	return n > 0, nil
}

// Ping checks the connection
func (r *SQLTodoRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLTodoRepository) insert(ctx context.Context, tx *sqlx.Tx, req model.CreateTodoRequest) (model.Todo, error) {
	var id int64
	if r.returning {
		err := tx.QueryRowxContext(ctx, tx.Rebind(insertTodoQuery+` RETURNING id`), req.Task, req.Completed).Scan(&id)
		if err != nil {
			return model.Todo{}, r.insertError(err, req.Task)
		}
	} else {
		res, err := tx.ExecContext(ctx, tx.Rebind(insertTodoQuery), req.Task, req.Completed)
		if err != nil {
			return model.Todo{}, r.insertError(err, req.Task)
		}
		if id, err = res.LastInsertId(); err != nil {
			return model.Todo{}, fmt.Errorf("read inserted id: %w", err)
		}
	}

	return model.Todo{ID: id, Task: req.Task, Completed: req.Completed}, nil
}

func (r *SQLTodoRepository) insertError(err error, task string) error {
	if isUniqueViolation(err) {
		return duplicate(task)
	}
	return fmt.Errorf("insert todo: %w", err)
}

func (r *SQLTodoRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
