package cytonic

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for the failure classes of the compiler. Every error returned
// by this module matches exactly one of these with errors.Is.
var (
	// ErrBadTypeFormat is a malformed type reference string.
	ErrBadTypeFormat = errors.New("bad type format")

	// ErrArity is a builtin generic used with the wrong number of parameters.
	ErrArity = errors.New("wrong number of type parameters")

	// ErrUnresolvedType is a type name that is neither a builtin nor a known custom type.
	ErrUnresolvedType = errors.New("unresolved type")

	// ErrExclusive is a type definition that mixes mutually exclusive shapes.
	ErrExclusive = errors.New("mutually exclusive type shapes")

	// ErrBadPath is a malformed HTTP path or a path parameter mismatch.
	ErrBadPath = errors.New("bad http path")

	// ErrArgument is an invalid endpoint argument declaration.
	ErrArgument = errors.New("bad endpoint argument")

	// ErrDuplicateModule is a module name registered twice in a project.
	ErrDuplicateModule = errors.New("duplicate module")

	// ErrInvalidConfig is a definition file that fails structural validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DatatypeError reports a type reference string that does not match the grammar.
type DatatypeError struct {
	// Value is the complete type string that failed to parse.
	Value string
	// Reason describes what was wrong.
	Reason string
}

func (e *DatatypeError) Error() string {
	return fmt.Sprintf("bad type string %q: %s", e.Value, e.Reason)
}

func (e *DatatypeError) Is(target error) bool { return target == ErrBadTypeFormat }

// ArityError reports a builtin type used with the wrong number of parameters.
type ArityError struct {
	Type     string
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("type %s requires %d parameter(s) but got %d", e.Type, e.Expected, e.Actual)
}

func (e *ArityError) Is(target error) bool { return target == ErrArity }

// ResolutionError reports a type name that could not be resolved.
type ResolutionError struct {
	Type string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("type %s does not exist", e.Type)
}

func (e *ResolutionError) Is(target error) bool { return target == ErrUnresolvedType }

// ExclusivityError reports a type definition that declares two exclusive shapes.
type ExclusivityError struct {
	Type   string
	First  []string
	Second []string
}

func (e *ExclusivityError) Error() string {
	msg := fmt.Sprintf("%s cannot be mixed with %s", strings.Join(e.First, "+"), strings.Join(e.Second, "+"))
	if e.Type == "" {
		return msg
	}
	return "type " + e.Type + ": " + msg
}

func (e *ExclusivityError) Is(target error) bool { return target == ErrExclusive }

// ErrorCode is the error category surfaced in generated bindings.
type ErrorCode string

const (
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeIllegalArgument ErrorCode = "ILLEGAL_ARGUMENT"
	CodeInternal        ErrorCode = "INTERNAL"
)

// ErrorCodes lists every known error code in a stable order.
var ErrorCodes = []ErrorCode{CodeNotFound, CodeUnauthorized, CodeConflict, CodeIllegalArgument, CodeInternal}

// Valid reports whether c is one of the known codes.
func (c ErrorCode) Valid() bool {
	for _, known := range ErrorCodes {
		if c == known {
			return true
		}
	}
	return false
}

// HTTPStatus maps an ErrorCode to an HTTP status code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeIllegalArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ServiceError is the error envelope that generated bindings raise and that
// the external framework serializes.
type ServiceError struct {
	Code       ErrorCode      `json:"error_code"`
	Name       string         `json:"error_name"`
	Parameters map[string]any `json:"parameters"`
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Name)
}

// NewServiceError creates a service error with the given code and qualified name
// (e.g. "TodoList:TodoListNotFound").
func NewServiceError(code ErrorCode, name string) *ServiceError {
	return &ServiceError{Code: code, Name: name}
}

// WithParameter returns a copy of e with key set to value.
func (e *ServiceError) WithParameter(key string, value any) *ServiceError {
	params := make(map[string]any, len(e.Parameters)+1)
	for k, v := range e.Parameters {
		params[k] = v
	}
	params[key] = value
	return &ServiceError{Code: e.Code, Name: e.Name, Parameters: params}
}
