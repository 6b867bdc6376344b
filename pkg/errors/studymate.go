package errors

import "net/http"

// Ingestion errors (service 20).
var (
	// ErrUnsupportedFormat indicates the file extension is not one of the
	// accepted document formats.
	ErrUnsupportedFormat = Register(New(MakeCode(ServiceIngest, CategoryRequest, 1), http.StatusBadRequest, "Unsupported file format"))

	// ErrCorruptFile indicates the file matched a supported extension but
	// could not be parsed.
	ErrCorruptFile = Register(New(MakeCode(ServiceIngest, CategoryRequest, 2), http.StatusUnprocessableEntity, "File is corrupt or unreadable"))

	// ErrFileTooLarge indicates the upload exceeds the configured size limit.
	ErrFileTooLarge = Register(New(MakeCode(ServiceIngest, CategoryRequest, 3), http.StatusRequestEntityTooLarge, "File exceeds the maximum allowed size"))

	// ErrEmptyDocument indicates extraction produced no usable text.
	ErrEmptyDocument = Register(New(MakeCode(ServiceIngest, CategoryRequest, 4), http.StatusUnprocessableEntity, "Document contains no extractable text"))

	// ErrIngestFailed indicates the ingestion pipeline failed past validation.
	ErrIngestFailed = Register(New(MakeCode(ServiceIngest, CategoryInternal, 1), http.StatusInternalServerError, "Document ingestion failed"))

	// ErrSessionDeleting indicates an upload raced a session delete.
	ErrSessionDeleting = Register(New(MakeCode(ServiceIngest, CategoryConflict, 1), http.StatusConflict, "Session is being deleted"))
)

// Retrieval errors (service 21).
var (
	// ErrIndexVersionMismatch indicates the query embedding version differs
	// from the version the session index was built with.
	ErrIndexVersionMismatch = Register(New(MakeCode(ServiceRetrieval, CategoryInternal, 1), http.StatusInternalServerError, "Embedding version does not match the session index"))

	// ErrDimensionMismatch indicates a vector of the wrong width reached the index.
	ErrDimensionMismatch = Register(New(MakeCode(ServiceRetrieval, CategoryInternal, 2), http.StatusInternalServerError, "Vector dimension does not match the session index"))

	// ErrRetrievalFailed indicates the retrieval pipeline failed.
	ErrRetrievalFailed = Register(New(MakeCode(ServiceRetrieval, CategoryInternal, 3), http.StatusInternalServerError, "Retrieval failed"))
)

// Session errors (service 22).
var (
	// ErrSessionNotFound indicates an unknown session ID.
	ErrSessionNotFound = Register(New(MakeCode(ServiceSession, CategoryResource, 1), http.StatusNotFound, "Session not found"))

	// ErrDocumentNotFound indicates an unknown document ID.
	ErrDocumentNotFound = Register(New(MakeCode(ServiceSession, CategoryResource, 2), http.StatusNotFound, "Document not found"))
)

// Context assembly errors (service 23).
var (
	// ErrUnknownMode indicates a study mode outside the known set.
	ErrUnknownMode = Register(New(MakeCode(ServiceContext, CategoryRequest, 1), http.StatusBadRequest, "Unknown study mode"))

	// ErrBudgetTooSmall indicates the token budget cannot fit even the
	// mode instruction.
	ErrBudgetTooSmall = Register(New(MakeCode(ServiceContext, CategoryConfig, 1), http.StatusInternalServerError, "Token budget too small for mode instruction"))
)

// Provider errors (service 90).
var (
	// ErrEmbeddingUnavailable indicates the embedding backend failed after
	// all retries.
	ErrEmbeddingUnavailable = Register(New(MakeCode(ServiceProvider, CategoryNetwork, 1), http.StatusServiceUnavailable, "Embedding service unavailable"))

	// ErrProviderTimeout indicates a provider call exceeded its deadline.
	ErrProviderTimeout = Register(New(MakeCode(ServiceProvider, CategoryTimeout, 1), http.StatusGatewayTimeout, "Provider request timed out"))

	// ErrProviderResponse indicates a malformed provider response.
	ErrProviderResponse = Register(New(MakeCode(ServiceProvider, CategoryInternal, 1), http.StatusBadGateway, "Invalid provider response"))
)
