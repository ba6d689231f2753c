package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirocosta/todo-service/internal/model"
)

type fieldErr struct {
	Field string
	Err   error
}

func fieldErrors(t *testing.T, err error) []fieldErr {
	t.Helper()
	var fe criterio.FieldErrors
	require.True(t, errors.As(err, &fe), "expected criterio.FieldErrors, got %T", err)

	out := make([]fieldErr, 0, len(fe))
	for _, e := range fe {
		out = append(out, fieldErr{Field: e.Field, Err: e.Err})
	}
	return out
}

func TestDecodeObject(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		body    string
		wantErr bool
	}{
		"object":           {body: `{"task":"a"}`},
		"empty":            {body: `{}`},
		"trailing newline": {body: "{\"task\":\"a\"}\n"},
		"null":             {body: `null`, wantErr: true},
		"array":            {body: `[]`, wantErr: true},
		"string":           {body: `"task"`, wantErr: true},
		"truncated":        {body: `{"task":`, wantErr: true},
		"empty input":      {body: ``, wantErr: true},
		"trailing garbage": {body: `{"task":"a"}garbage`, wantErr: true},
		"two objects":      {body: `{} {}`, wantErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			raw, err := decodeObject(strings.NewReader(tc.body))
			if tc.wantErr {
				assert.ErrorIs(t, err, errInvalidBody)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, raw)
		})
	}
}

func TestValidateCreate(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		body     string
		want     model.CreateTodoRequest
		wantErrs []fieldErr
	}{
		"valid": {
			body: `{"task":"Run a 5k","completed":true}`,
			want: model.CreateTodoRequest{Task: "Run a 5k", Completed: true},
		},
		"unknown keys dropped": {
			body: `{"task":"Run a 5k","completed":false,"id":99}`,
			want: model.CreateTodoRequest{Task: "Run a 5k"},
		},
		"missing both": {
			body: `{}`,
			wantErrs: []fieldErr{
				{Field: "task", Err: errRequired},
				{Field: "completed", Err: errRequired},
			},
		},
		"wrong types": {
			body: `{"task":true,"completed":0}`,
			wantErrs: []fieldErr{
				{Field: "task", Err: errNotString},
				{Field: "completed", Err: errNotBoolean},
			},
		},
		"nulls": {
			body: `{"task":null,"completed":null}`,
			wantErrs: []fieldErr{
				{Field: "task", Err: errNotString},
				{Field: "completed", Err: errNotBoolean},
			},
		},
		"empty task": {
			body:     `{"task":"","completed":false}`,
			wantErrs: []fieldErr{{Field: "task", Err: errEmpty}},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			raw, err := decodeObject(strings.NewReader(tc.body))
			require.NoError(t, err)

			got, err := validateCreate(raw)
			if tc.wantErrs != nil {
				if diff := cmp.Diff(tc.wantErrs, fieldErrors(t, err), cmpopts.EquateErrors()); diff != "" {
					t.Errorf("errors mismatch (-want +got):\n%s", diff)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidatePatch(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		body     string
		want     model.TodoPatch
		wantErrs []fieldErr
	}{
		"task only": {
			body: `{"task":"Read"}`,
			want: model.TodoPatch{Task: ptr("Read")},
		},
		"completed only": {
			body: `{"completed":false}`,
			want: model.TodoPatch{Completed: ptr(false)},
		},
		"both": {
			body: `{"task":"Read","completed":true}`,
			want: model.TodoPatch{Task: ptr("Read"), Completed: ptr(true)},
		},
		"unknown keys only": {
			body: `{"isAdmin":true}`,
			want: model.TodoPatch{},
		},
		"wrong type": {
			body:     `{"completed":"true"}`,
			wantErrs: []fieldErr{{Field: "completed", Err: errNotBoolean}},
		},
		"empty task": {
			body:     `{"task":""}`,
			wantErrs: []fieldErr{{Field: "task", Err: errEmpty}},
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			raw, err := decodeObject(strings.NewReader(tc.body))
			require.NoError(t, err)

			got, err := validatePatch(raw)
			if tc.wantErrs != nil {
				if diff := cmp.Diff(tc.wantErrs, fieldErrors(t, err), cmpopts.EquateErrors()); diff != "" {
					t.Errorf("errors mismatch (-want +got):\n%s", diff)
				}
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("patch mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		value   string
		want    int64
		wantErr bool
	}{
		"integer":  {value: "42", want: 42},
		"negative": {value: "-1", want: -1},
		"letters":  {value: "abc", wantErr: true},
		"float":    {value: "1.0", wantErr: true},
		"empty":    {value: "", wantErr: true},
		"overflow": {value: "99999999999999999999", wantErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/todos/x", nil)
			req.SetPathValue("id", tc.value)

			got, err := pathID(req)
			if tc.wantErr {
				errs := fieldErrors(t, err)
				require.Len(t, errs, 1)
				assert.Equal(t, "id", errs[0].Field)
				assert.ErrorIs(t, errs[0].Err, errNotInteger)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
