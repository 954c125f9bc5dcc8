package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-client/internal/api/http/handlers"
	"github.com/spec-kit/hr-client/internal/guard"
	"github.com/spec-kit/hr-client/internal/navigation"
	"github.com/spec-kit/hr-client/internal/observability"
	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

// ShellRedirects maps error codes to the page a GET request is sent to
// instead of an error body.
func ShellRedirects() map[string]string {
	return map[string]string{
		apperrors.CodeSessionExpired: navigation.LoginPath,
		apperrors.CodeMalformedToken: navigation.LoginPath,
		apperrors.CodeForbidden:      navigation.AccessDeniedPath,
	}
}

// RegisterMiddlewares attaches global middlewares such as error handling and
// logging. redirects may be nil for a pure JSON API.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, redirects map[string]string) {
	logger = observability.OrNop(logger)
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, redirects))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, redirects map[string]string) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				if target, ok := redirects[domainErr.Code]; ok && c.Method() == fiber.MethodGet {
					err = c.Redirect(target, fiber.StatusSeeOther)
					return
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError also understands fiber's own errors, which handlers and
// the bearer middleware return for plain HTTP failures.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperrors.CodeUnclassified
		switch fiberErr.Code {
		case fiber.StatusUnauthorized:
			code = apperrors.CodeUnauthorized
		case fiber.StatusForbidden:
			code = apperrors.CodeForbidden
		case fiber.StatusNotFound:
			code = apperrors.CodeNotFound
		case fiber.StatusBadRequest:
			code = apperrors.CodeValidationFailed
		}
		return apperrors.NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

// guardMiddleware runs the checkers for route on every request and
// redirects on the first denial.
func guardMiddleware(route guard.Route, checkers ...guard.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := guard.Chain(route, checkers...)
		if !decision.Allowed {
			return handlers.GuardRedirect(c, decision)
		}
		return c.Next()
	}
}
