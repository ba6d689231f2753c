package api

import (
	"errors"
	"net/http"

	"github.com/hay-kot/criterio"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/result"
	"github.com/cirocosta/todo-service/pkg/translator"
)

// TodoHandler handles HTTP requests for todo operations
type TodoHandler struct {
	todoService TodoService
	translator  *translator.Translator
}

// NewTodoHandler creates a new todo handler with the given service
func NewTodoHandler(todoService TodoService, tr *translator.Translator) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
		translator:  tr,
	}
}

// ListTodos handles GET /todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	res := h.todoService.FindAllTodos(r.Context())
	Resolve(w, r, &res)
}

// GetTodo handles GET /todos/{id}
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.validationFailed(w, r, err)
		return
	}

	res := h.todoService.FindTodoByID(r.Context(), id)
	Resolve(w, r, &res)
}

// CreateTodo handles POST /todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeObject(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.invalidBody(w, r)
		return
	}

	req, err := validateCreate(raw)
	if err != nil {
		h.validationFailed(w, r, err)
		return
	}

	res := h.todoService.CreateTodo(r.Context(), req)
	Resolve(w, r, &res)
}

// UpdateTodo handles PATCH /todos/{id}
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.validationFailed(w, r, err)
		return
	}

	raw, err := decodeObject(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.invalidBody(w, r)
		return
	}

	patch, err := validatePatch(raw)
	if err != nil {
		h.validationFailed(w, r, err)
		return
	}

	res := h.todoService.UpdateTodo(r.Context(), id, patch)
	Resolve(w, r, &res)
}

// DeleteTodo handles DELETE /todos/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.validationFailed(w, r, err)
		return
	}

	res := h.todoService.RemoveTodo(r.Context(), id)
	Resolve(w, r, &res)
}

func (h *TodoHandler) invalidBody(w http.ResponseWriter, r *http.Request) {
	status, _ := StatusFor(result.CodeValidationError)
	writeJSON(w, status, model.ErrorResponse{Message: h.localize(r, msgInvalidRequestBody, nil)})
}

// validationFailed renders criterio field errors as
// {"message": ..., "errors": [{"<field>": "<message>"}]}
func (h *TodoHandler) validationFailed(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := StatusFor(result.CodeValidationError)

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		writeJSON(w, status, model.ErrorResponse{Message: h.localize(r, msgValidationFailed, nil)})
		return
	}

	entries := make([]map[string]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		entries = append(entries, map[string]string{fe.Field: h.fieldMessage(r, fe.Field, fe.Err)})
	}

	writeJSON(w, status, model.ValidationErrorResponse{
		Message: h.localize(r, msgValidationFailed, nil),
		Errors:  entries,
	})
}

func (h *TodoHandler) fieldMessage(r *http.Request, field string, err error) string {
	switch {
	case errors.Is(err, errRequired):
		return h.localize(r, msgFieldRequired, map[string]any{"Field": field})
	case errors.Is(err, errEmpty):
		return h.localize(r, msgFieldEmpty, map[string]any{"Field": field})
	case errors.Is(err, errNotString):
		return h.localize(r, msgFieldMustBeString, map[string]any{"Field": field})
	case errors.Is(err, errNotBoolean):
		return h.localize(r, msgFieldMustBeBoolean, map[string]any{"Field": field})
	case errors.Is(err, errNotInteger):
		return h.localize(r, msgParamMustBeInteger, map[string]any{"Param": field})
	default:
		return err.Error()
	}
}

func (h *TodoHandler) localize(r *http.Request, msg *i18n.Message, data map[string]any) string {
	return h.translator.Localize(translator.LanguageFromContext(r.Context()), msg, data)
}
