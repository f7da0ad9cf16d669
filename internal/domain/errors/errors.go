package errors

import (
	"net/http"

	"waymark/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Route-related errors
	ErrRouteNotFound = NewBaseError(
		http.StatusNotFound,
		"ROUTE_NOT_FOUND",
		"找不到該路線",
		"",
	)

	ErrRouteValidation = NewBaseError(
		http.StatusBadRequest,
		"ROUTE_VALIDATION_FAILED",
		"路線檔案驗證失敗",
		"",
	)

	ErrRouteOwnershipViolation = NewBaseError(
		http.StatusForbidden,
		"ROUTE_OWNERSHIP_VIOLATION",
		"您沒有權限存取此路線",
		"",
	)

	ErrRouteCreationFailed = NewBaseError(
		http.StatusInternalServerError,
		"ROUTE_CREATION_FAILED",
		"建立路線失敗",
		"",
	)

	ErrRouteUpdateFailed = NewBaseError(
		http.StatusInternalServerError,
		"ROUTE_UPDATE_FAILED",
		"更新路線失敗",
		"",
	)

	// Search-related errors
	ErrSearchBoundsInvalid = NewBaseError(
		http.StatusBadRequest,
		"SEARCH_BOUNDS_INVALID",
		"查詢範圍座標無效",
		"",
	)

	ErrSearchPageInvalid = NewBaseError(
		http.StatusBadRequest,
		"SEARCH_PAGE_INVALID",
		"分頁參數無效",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"輸入資料驗證失敗",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"系統內部錯誤",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"存取被拒絕",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"找不到該資源",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "資料庫執行失敗"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// FileStorageError represents a blob store failure, implementing the AppError interface
type FileStorageError struct {
	err     error
	details string
}

// NewFileStorageError creates a file-store-related error
func NewFileStorageError(err error, details string) AppError {
	return &FileStorageError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *FileStorageError) Error() string {
	return errors.Wrap(e.err, "file storage failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *FileStorageError) HTTPCode() int {
	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *FileStorageError) ErrorCode() string {
	return "FILE_STORAGE_FAILED"
}

// Message returns the user-friendly error message
func (e *FileStorageError) Message() string {
	return "檔案儲存失敗"
}

// Details returns detailed error information
func (e *FileStorageError) Details() string {
	return e.details
}
