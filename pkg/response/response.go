package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "internship-tracker/backend/pkg/errors"
)

// Pagination page metadata
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData paged list payload
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// ── success ──

// OK 200 with the payload as the body
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 with the payload as the body
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// OKPage 200 with a paged list
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	c.JSON(http.StatusOK, PageData{
		List: list,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// ── errors ──

// Error writes {error, code}
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, gin.H{"error": message, "code": code})
}

// StatusOf maps an error kind to its HTTP status
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindConflict, apperrors.KindLocked:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindAuthorization:
		return http.StatusForbidden
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Body builds the error body, merging details into the top level
func Body(err error) (int, gin.H) {
	e, ok := apperrors.As(err)
	if !ok {
		return http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "INTERNAL"}
	}
	body := gin.H{"error": e.Message, "code": e.Code}
	for k, v := range e.Details {
		body[k] = v
	}
	return StatusOf(e.Kind), body
}

// FromError writes the error response for err
func FromError(c *gin.Context, err error) {
	status, body := Body(err)
	c.JSON(status, body)
}

// FromErrorWith writes the error response with extra fields
func FromErrorWith(c *gin.Context, err error, extra gin.H) {
	status, body := Body(err)
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// ── shortcuts ──

// BadRequest 400
func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
}
