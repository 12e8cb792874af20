package cytonic

import (
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "datatype",
			err:      &DatatypeError{Value: "Foo[]", Reason: "empty type parameter"},
			sentinel: ErrBadTypeFormat,
			message:  `bad type string "Foo[]": empty type parameter`,
		},
		{
			name:     "arity",
			err:      &ArityError{Type: "map", Expected: 2, Actual: 1},
			sentinel: ErrArity,
			message:  "type map requires 2 parameter(s) but got 1",
		},
		{
			name:     "resolution",
			err:      &ResolutionError{Type: "Bogus"},
			sentinel: ErrUnresolvedType,
			message:  "type Bogus does not exist",
		},
		{
			name:     "exclusivity",
			err:      &ExclusivityError{Type: "Todo", First: []string{"values"}, Second: []string{"extends", "fields"}},
			sentinel: ErrExclusive,
			message:  "type Todo: values cannot be mixed with extends+fields",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := errors.Wrap(errors.WithStack(tt.err), "context")
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if got := tt.err.Error(); got != tt.message {
				t.Errorf("Error() = %q, want %q", got, tt.message)
			}
			if !strings.Contains(wrapped.Error(), tt.message) {
				t.Errorf("wrapped = %q, want to contain %q", wrapped, tt.message)
			}

			for _, other := range []error{ErrBadTypeFormat, ErrArity, ErrUnresolvedType, ErrExclusive, ErrBadPath} {
				if other != tt.sentinel && errors.Is(wrapped, other) {
					t.Errorf("unexpectedly matched %v", other)
				}
			}
		})
	}
}

func TestErrorCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeUnauthorized, http.StatusForbidden},
		{CodeConflict, http.StatusConflict},
		{CodeIllegalArgument, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestErrorCode_Valid(t *testing.T) {
	for _, c := range ErrorCodes {
		if !c.Valid() {
			t.Errorf("%s.Valid() = false", c)
		}
	}
	for _, c := range []ErrorCode{"", "not_found"} {
		if c.Valid() {
			t.Errorf("%q.Valid() = true", c)
		}
	}
}

func TestServiceError_WithParameter(t *testing.T) {
	base := NewServiceError(CodeNotFound, "TodoList:TodoListNotFound")
	withID := base.WithParameter("list_id", "abc")

	if base == withID {
		t.Fatal("WithParameter returned the receiver")
	}
	if base.Parameters != nil {
		t.Errorf("base.Parameters = %v, want nil", base.Parameters)
	}
	if want := map[string]any{"list_id": "abc"}; !reflect.DeepEqual(withID.Parameters, want) {
		t.Errorf("Parameters = %v, want %v", withID.Parameters, want)
	}
	if got, want := withID.Error(), "NOT_FOUND: TodoList:TodoListNotFound"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
