package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("load employees: %w", NewForbidden(""))
	if !IsCode(err, CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %q", CodeOf(err))
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatal("plain errors carry no code")
	}
}

func TestToDomainErrorFallsBackToInternal(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	if de.Code != CodeInternal || de.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected %+v", de)
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestUnclassifiedMessageFallback(t *testing.T) {
	de := ToDomainError(NewUnclassified(http.StatusConflict, ""))
	if de.Message != MsgUnclassified || de.HTTPStatus != http.StatusConflict {
		t.Fatalf("unexpected %+v", de)
	}
	de = ToDomainError(NewUnclassified(http.StatusConflict, "login already taken"))
	if de.Message != "login already taken" {
		t.Fatalf("unexpected message %q", de.Message)
	}
}

func TestSessionExpiredUnwrapsCause(t *testing.T) {
	cause := errors.New("token expired")
	err := NewSessionExpired(cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
}
