package http

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/hr-client/pkg/util"
)

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"unauthorized", fiber.NewError(fiber.StatusUnauthorized, "missing bearer token"), apperrors.CodeUnauthorized, fiber.StatusUnauthorized},
		{"forbidden", fiber.NewError(fiber.StatusForbidden, "insufficient role"), apperrors.CodeForbidden, fiber.StatusForbidden},
		{"not found", fiber.ErrNotFound, apperrors.CodeNotFound, fiber.StatusNotFound},
		{"bad request", fiber.ErrBadRequest, apperrors.CodeValidationFailed, fiber.StatusBadRequest},
		{"throttled", fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts"), apperrors.CodeUnclassified, fiber.StatusTooManyRequests},
		{"domain error passes through", apperrors.NewInvalidCredentials(), apperrors.CodeInvalidCredentials, fiber.StatusUnauthorized},
		{"plain error is internal", errors.New("boom"), apperrors.CodeInternal, fiber.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			de := toDomainError(tc.err)
			if de.Code != tc.code || de.HTTPStatus != tc.status {
				t.Fatalf("got %s/%d, want %s/%d", de.Code, de.HTTPStatus, tc.code, tc.status)
			}
		})
	}
}
