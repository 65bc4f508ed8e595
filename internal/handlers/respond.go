package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/database"
	"github.com/Liyulingyue/PaddleLabel/internal/logger"
	"github.com/Liyulingyue/PaddleLabel/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// currentStore wraps the global connection.
func currentStore() *store.Store {
	return store.New(database.GetDB())
}

// respondError writes {"error", "code"} with the status mapped from the error code.
// Internal failures keep their detail in the log, not in the response.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := apperr.HTTPStatus(err)
	body := gin.H{"code": apperr.CodeOf(err)}

	var ae *apperr.AppError
	switch {
	case status >= http.StatusInternalServerError:
		logger.Named("http").Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		body["error"] = "Internal server error"
		body["code"] = apperr.CodeInternal
	case errors.As(err, &ae):
		body["error"] = ae.Message
		if len(ae.Meta) > 0 {
			body["meta"] = ae.Meta
		}
	default:
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// parseID reads a numeric path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || v == 0 {
		respondError(c, apperr.Newf(apperr.CodeInvalid, "invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(v), true
}

// bindJSON decodes the request body into v. An empty body is accepted when optional is set.
func bindJSON(c *gin.Context, v any, optional bool) bool {
	err := c.ShouldBindJSON(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	respondError(c, apperr.Wrap(err, apperr.CodeInvalid, "Invalid request body: "+err.Error()))
	return false
}
