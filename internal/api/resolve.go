package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/model"
	"github.com/cirocosta/todo-service/internal/result"
)

const (
	msgInvalidResponse   = "Invalid response structure."
	msgResolutionFailure = "Internal response resolution failure."
	msgDefaultError      = "An error occurred"
)

// statusTable is the only place an outcome code is mapped to an HTTP status
var statusTable = map[result.Code]int{
	result.CodeSuccess:         http.StatusOK,
	result.CodeCreated:         http.StatusCreated,
	result.CodeNoContent:       http.StatusNoContent,
	result.CodeDuplicateEntry:  http.StatusConflict,
	result.CodeNotFound:        http.StatusNotFound,
	result.CodeValidationError: http.StatusBadRequest,
	result.CodeInternalError:   http.StatusInternalServerError,
	result.CodeDefault:         http.StatusInternalServerError,
}

// StatusFor returns the HTTP status mapped to code
func StatusFor(code result.Code) (int, bool) {
	status, ok := statusTable[code]
	return status, ok
}

// Resolve writes exactly one HTTP response for res.
//
// A nil result or an unmapped code yields 500 "Invalid response structure.".
// NO_CONTENT yields an empty body, successes their data ({} when absent) and
// failures {"message": ...}. Encoding failures and panics become 500
// "Internal response resolution failure."
func Resolve(w http.ResponseWriter, r *http.Request, res *result.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("response resolution panicked",
				zap.String("panic", fmt.Sprint(rec)),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Message: msgResolutionFailure})
		}
	}()

	if res == nil {
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Message: msgInvalidResponse})
		return
	}

	status, ok := statusTable[res.Code()]
	if !ok {
		zap.L().Error("unmapped result code", zap.Uint8("code", uint8(res.Code())), zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Message: msgInvalidResponse})
		return
	}

	if res.Code() == result.CodeNoContent {
		w.WriteHeader(status)
		return
	}

	var body any
	if res.Success() {
		body = res.Data()
		if body == nil {
			body = struct{}{}
		}
	} else {
		message := res.Message()
		if message == "" {
			message = msgDefaultError
		}
		body = model.ErrorResponse{Message: message}
	}

	data, err := json.Marshal(body)
	if err != nil {
		zap.L().Error("encode response", zap.Error(err), zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Message: msgResolutionFailure})
		return
	}

	writeBody(w, status, data)
}

// writeJSON writes a body that is known to encode
func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, msgResolutionFailure, http.StatusInternalServerError)
		return
	}
	writeBody(w, status, data)
}

func writeBody(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
