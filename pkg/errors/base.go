package errors

import "net/http"

// Common errors shared by all modules (service code 00).
var (
	// OK indicates success. Not registered as an error.
	OK = &Errno{Code: 0, HTTP: http.StatusOK, Message: "OK"}

	// ErrInvalidParam indicates invalid request parameters.
	ErrInvalidParam = Register(New(MakeCode(ServiceCommon, CategoryRequest, 1), http.StatusBadRequest, "Invalid request parameters"))

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = Register(New(MakeCode(ServiceCommon, CategoryResource, 1), http.StatusNotFound, "Resource not found"))

	// ErrInternal indicates an unexpected internal error.
	ErrInternal = Register(New(MakeCode(ServiceCommon, CategoryInternal, 1), http.StatusInternalServerError, "Internal server error"))

	// ErrDatabase indicates a metadata store failure.
	ErrDatabase = Register(New(MakeCode(ServiceCommon, CategoryDatabase, 1), http.StatusInternalServerError, "Database error"))

	// ErrCache indicates a cache backend failure.
	ErrCache = Register(New(MakeCode(ServiceCommon, CategoryCache, 1), http.StatusInternalServerError, "Cache error"))

	// ErrTimeout indicates an operation exceeded its deadline.
	ErrTimeout = Register(New(MakeCode(ServiceCommon, CategoryTimeout, 1), http.StatusGatewayTimeout, "Operation timed out"))

	// ErrConfig indicates invalid or missing configuration.
	ErrConfig = Register(New(MakeCode(ServiceCommon, CategoryConfig, 1), http.StatusInternalServerError, "Configuration error"))
)
