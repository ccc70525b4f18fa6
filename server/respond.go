// Package server is the REST surface: gin handlers over the chat
// services, with the error taxonomy mapped onto HTTP status codes.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skillswap/logger"
	"skillswap/tools/errs"
)

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// fail maps an error onto the HTTP surface. The body carries the
// taxonomy code and message; internal detail stays in the logs.
func fail(c *gin.Context, err error) {
	var ce *errs.CodeError
	if !errors.As(err, &ce) {
		ce = errs.ErrInternal
	}
	status := httpStatus(ce.Code)
	if status >= http.StatusInternalServerError {
		logger.Errorf("[http] %s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		logger.Infof("[http] %s %s -> %d: %v", c.Request.Method, c.FullPath(), status, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"code": ce.Code, "msg": ce.Msg})
}

func httpStatus(code int) int {
	switch code {
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeForbidden:
		return http.StatusForbidden
	case errs.CodeInvalidArgument:
		return http.StatusBadRequest
	case errs.CodeCapacityExceeded:
		return http.StatusConflict
	case errs.CodeAuth:
		return http.StatusUnauthorized
	case errs.CodeTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// pathID parses the named uuid path parameter, failing the request
// with InvalidArgument when malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, errs.ErrInvalidArgument.WithDetail(name+" must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}
