package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/hay-kot/criterio"

	"github.com/cirocosta/todo-service/internal/model"
)

const maxBodyBytes = 1 << 20

var (
	errInvalidBody = errors.New("invalid request body")

	errRequired   = errors.New("is required")
	errEmpty      = errors.New("must not be empty")
	errNotString  = errors.New("must be a string")
	errNotBoolean = errors.New("must be a boolean")
	errNotInteger = errors.New("must be an integer")
)

// decodeObject reads a JSON object, keeping every value raw so presence and
// type can be checked per field. Anything but whitespace after the object
// is rejected
func decodeObject(r io.Reader) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(r)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, errInvalidBody
	}
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, errInvalidBody
	}
	return raw, nil
}

// validateCreate requires both task and completed
func validateCreate(raw map[string]json.RawMessage) (model.CreateTodoRequest, error) {
	var errs criterio.FieldErrorsBuilder

	task, err := stringField(raw, "task", true)
	if err != nil {
		errs = errs.Append("task", err)
	}
	completed, err := boolField(raw, "completed", true)
	if err != nil {
		errs = errs.Append("completed", err)
	}

	if err := errs.ToError(); err != nil {
		return model.CreateTodoRequest{}, err
	}
	return model.CreateTodoRequest{Task: *task, Completed: *completed}, nil
}

// validatePatch accepts either field. Unknown keys are dropped, so the patch
// may be empty
func validatePatch(raw map[string]json.RawMessage) (model.TodoPatch, error) {
	var errs criterio.FieldErrorsBuilder

	task, err := stringField(raw, "task", false)
	if err != nil {
		errs = errs.Append("task", err)
	}
	completed, err := boolField(raw, "completed", false)
	if err != nil {
		errs = errs.Append("completed", err)
	}

	if err := errs.ToError(); err != nil {
		return model.TodoPatch{}, err
	}
	return model.TodoPatch{Task: task, Completed: completed}, nil
}

// pathID parses the {id} path value
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, criterio.NewFieldErrors("id", errNotInteger)
	}
	return id, nil
}

func stringField(raw map[string]json.RawMessage, name string, required bool) (*string, error) {
	value, ok := raw[name]
	if !ok {
		if required {
			return nil, errRequired
		}
		return nil, nil
	}

	var s string
	if isNull(value) || json.Unmarshal(value, &s) != nil {
		return nil, errNotString
	}
	if s == "" {
		return nil, errEmpty
	}
	return &s, nil
}

func boolField(raw map[string]json.RawMessage, name string, required bool) (*bool, error) {
	value, ok := raw[name]
	if !ok {
		if required {
			return nil, errRequired
		}
		return nil, nil
	}

	var b bool
	if isNull(value) || json.Unmarshal(value, &b) != nil {
		return nil, errNotBoolean
	}
	return &b, nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
