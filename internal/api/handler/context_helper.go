package handler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"internship-tracker/backend/internal/dto"
	"internship-tracker/backend/internal/service"
	apperrors "internship-tracker/backend/pkg/errors"
	"internship-tracker/backend/pkg/response"
)

// context keys set by middleware.JWTAuth
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxAdvisorID = "advisor_id"
	CtxTokenJTI  = "token_jti"
	CtxTokenExp  = "token_exp"
)

// MustGetActor the authenticated caller. When the JWT middleware did not run
// it writes 401 and returns false; the caller should return.
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID := c.GetString(CtxUserID)
	role := c.GetString(CtxRole)
	if userID == "" || role == "" {
		response.Unauthorized(c, "UNAUTHENTICATED", "Authentication required")
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role, AdvisorID: c.GetString(CtxAdvisorID)}, true
}

// tokenFromContext jti and expiry of the access token in use
func tokenFromContext(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(CtxTokenExp)
	t, _ := exp.(time.Time)
	return c.GetString(CtxTokenJTI), t
}

// respondError writes the mapped error and records it for the request logger
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.FromError(c, err)
}

// bindError 400 naming the offending fields
func bindError(c *gin.Context, err error) {
	response.FromError(c, invalidRequest(err))
}

func invalidRequest(err error) *apperrors.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apperrors.Validation("INVALID_REQUEST", "Invalid or missing fields: "+strings.Join(fields, ", "))
	}
	return apperrors.Validation("INVALID_REQUEST", "Malformed request body")
}

// documentFromForm the multipart "document" file; nil when absent.
// The caller closes the returned func.
func documentFromForm(c *gin.Context) (*dto.Document, func(), error) {
	fh, err := c.FormFile("document")
	if err != nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	doc := &dto.Document{Filename: fh.Filename, Size: fh.Size, Content: f}
	return doc, func() { _ = f.Close() }, nil
}

func listQuery(c *gin.Context) (*dto.ListQuery, bool) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return nil, false
	}
	q.Normalize()
	return &q, true
}
