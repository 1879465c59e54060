package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				if translator != nil {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				} else {
					fldErrs[vErr.Field()] = vErr.Error()
				}
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if core.IsNotConfigured(err) {
				code = http.StatusServiceUnavailable
				message = errors.Cause(err).Error()
				logger.Warn("service not configured", err, "path", ctx.Path())
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			if id, ok := getContextIdentity(ctx); ok {
				logger.Error(msg, errors.Wrap(err, msg), id)
			} else {
				logger.Error(msg, errors.Wrap(err, msg))
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
			if ctx.Echo().Debug {
				message = err.Error()
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// upstreamError logs a failed upstream call and hides it behind a generic message.
// Configuration & validation errors pass through unchanged.
func upstreamError(ctx echo.Context, logger core.Logger, err error, msg string) error {
	switch errors.Cause(err).(type) {
	case *core.ValidationError, validator.ValidationErrors, *echo.HTTPError:
		return err
	}
	if core.IsNotConfigured(err) {
		return err
	}
	args := []interface{}{errors.Wrap(err, msg), "path", ctx.Path()}
	if id, ok := getContextIdentity(ctx); ok {
		args = append(args, id)
	}
	logger.Error(msg, args...)
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

