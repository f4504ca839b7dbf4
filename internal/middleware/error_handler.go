package middleware

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ErrorHandler renders every error as {"message": ...}. Domain errors that
// reach it unmapped still get their matching status code. Other errors are
// logged and answered with the bare status text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	case errors.Is(err, models.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrValidation):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrInvalidState):
		code, msg = http.StatusConflict, err.Error()
	}

	if code >= http.StatusInternalServerError {
		log.WithError(err).WithField("uri", c.Request().RequestURI).Error("request failed")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
