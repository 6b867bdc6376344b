// Package handler provides the StudyMate HTTP handlers.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// Response is the unified response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ok writes a success envelope.
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.OK.Code,
		Message: "success",
		Data:    data,
	})
}

// accepted writes a success envelope with 202, used for async ingestion.
func accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, Response{
		Code:    errors.OK.Code,
		Message: "accepted",
		Data:    data,
	})
}

// fail maps any error to its registered code and HTTP status.
func fail(c *gin.Context, err error) {
	e := errors.FromError(err)
	c.JSON(e.HTTPStatus(), Response{
		Code:    e.Code,
		Message: e.Message,
	})
}

// badRequest reports a binding or parameter error.
func badRequest(c *gin.Context, err error) {
	fail(c, errors.ErrInvalidParam.WithMessage("invalid request: "+err.Error()))
}

// pagination reads offset/limit query parameters with sane bounds.
func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
