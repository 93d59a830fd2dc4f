package jsonapi

import (
	"fmt"
	"net/http"
	"strconv"
)

// RequestError is a structured failure produced by query normalization or
// payload deserialization. It carries everything needed to render a JSON:API
// error object, including the offending parameter or document pointer.
type RequestError struct {
	Status  int
	Code    string
	Title   string
	Detail  string
	Param   string
	Pointer string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s (parameter %s)", e.Detail, e.Param)
	}
	return e.Detail
}

// Object converts the error to its wire representation.
func (e *RequestError) Object() *ErrorObject {
	obj := &ErrorObject{
		Status: strconv.Itoa(e.Status),
		Code:   e.Code,
		Title:  e.Title,
		Detail: e.Detail,
	}
	if e.Param != "" || e.Pointer != "" {
		obj.Source = &ErrorSource{Parameter: e.Param, Pointer: e.Pointer}
	}
	return obj
}

// NewRequestError creates an error with the code and title derived from the
// HTTP status.
func NewRequestError(status int, detail string) *RequestError {
	return &RequestError{
		Status: status,
		Code:   errorCodeFromStatus(status),
		Title:  http.StatusText(status),
		Detail: detail,
	}
}

// InvalidFieldError reports a sparse-fieldset entry naming an undeclared
// field.
func InvalidFieldError(typ, field string) *RequestError {
	return &RequestError{
		Status: http.StatusBadRequest,
		Code:   "invalid_field",
		Title:  "Invalid Field",
		Detail: fmt.Sprintf("%s is not a declared field of type %s", field, typ),
		Param:  fmt.Sprintf("fields[%s]", typ),
	}
}

// InvalidRelationshipError reports an include path segment naming an
// undeclared relationship.
func InvalidRelationshipError(typ, segment string) *RequestError {
	return &RequestError{
		Status: http.StatusBadRequest,
		Code:   "invalid_relationship",
		Title:  "Invalid Relationship",
		Detail: fmt.Sprintf("%s is not a declared relationship of type %s", segment, typ),
		Param:  "include",
	}
}

// InvalidSortFieldError reports a sort parameter naming an undeclared
// attribute.
func InvalidSortFieldError(field string) *RequestError {
	return &RequestError{
		Status: http.StatusBadRequest,
		Code:   "invalid_sort",
		Title:  "Invalid Sort Field",
		Detail: fmt.Sprintf("%s is not a sortable field", field),
		Param:  "sort",
	}
}

// InvalidPageKeyError reports an unrecognized pagination option.
func InvalidPageKeyError(key string) *RequestError {
	return &RequestError{
		Status: http.StatusBadRequest,
		Code:   "invalid_page",
		Title:  "Invalid Page Option",
		Detail: fmt.Sprintf("%s is not a recognized pagination option", key),
		Param:  fmt.Sprintf("page[%s]", key),
	}
}

// MissingFilterError reports filter parameters arriving with no configured
// filter strategy.
func MissingFilterError() *RequestError {
	return &RequestError{
		Status: http.StatusBadRequest,
		Code:   "missing_filter_strategy",
		Title:  "Filtering Not Configured",
		Detail: "filter parameters are not supported for this resource",
		Param:  "filter",
	}
}

// MissingIDError reports a resource whose identifier field is absent.
func MissingIDError(typ string, cause error) *RequestError {
	detail := fmt.Sprintf("resource of type %s is missing its identifier", typ)
	if cause != nil {
		detail = cause.Error()
	}
	return &RequestError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "missing_id",
		Title:   "Missing Identifier",
		Detail:  detail,
		Pointer: "/data/id",
	}
}

// ErrorDocument builds an error document from request errors. The resulting
// document has no data member.
func ErrorDocument(errs ...*RequestError) *Document {
	objs := make([]*ErrorObject, 0, len(errs))
	for _, e := range errs {
		objs = append(objs, e.Object())
	}
	return &Document{Errors: objs}
}

// BuildErrorDocument builds an error document from wire error objects,
// filling in the status code and title pair on objects that lack them.
func BuildErrorDocument(status int, objs []*ErrorObject) *Document {
	for _, obj := range objs {
		if obj.Status == "" {
			obj.Status = strconv.Itoa(status)
		}
		if obj.Title == "" {
			obj.Title = http.StatusText(status)
		}
	}
	return &Document{Errors: objs}
}

// errorCodeFromStatus maps HTTP status codes to stable error codes.
func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusNotAcceptable:
		return "not_acceptable"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusUnprocessableEntity:
		return "unprocessable_entity"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	case http.StatusInternalServerError:
		return "internal_error"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		return "error"
	}
}
