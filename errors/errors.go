package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Domain errors
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	ErrCodeAlreadyVoted    ErrorCode = "ALREADY_VOTED"
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"

	// Infrastructure errors
	ErrCodeDBError       ErrorCode = "DB_ERROR"
	ErrCodeExternalError ErrorCode = "EXTERNAL_ERROR"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus ánh xạ mã lỗi sang HTTP status
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeAlreadyVoted:
		return http.StatusConflict
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeUnauthorized, ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeExternalError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound tạo lỗi dạng "review with ID 7 not found"
func NotFound(entity string, id any) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s with ID %v not found", entity, id), nil)
}

func AlreadyVoted(voteType string) *AppError {
	verb := "upvoted"
	if voteType == "DOWNVOTE" {
		verb = "downvoted"
	}
	return NewAppError(ErrCodeAlreadyVoted, fmt.Sprintf("you have already %s this review", verb), nil)
}

func AlreadyExists(message string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, message, nil)
}

func InvalidArgument(message string) *AppError {
	return NewAppError(ErrCodeInvalidArgument, message, nil)
}

func Forbidden(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, nil)
}

func Internal(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

func External(message string, err error) *AppError {
	return NewAppError(ErrCodeExternalError, message, err)
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode kiểm tra err có mang mã lỗi code không
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}
