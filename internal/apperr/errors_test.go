package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/habari-news/habari/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("category is required")

	if err.Error() != "category is required" {
		t.Errorf("expected 'category is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid article id", inner)

	if err.Error() != "invalid article id: parse failed" {
		t.Errorf("expected 'invalid article id: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("unknown category")

	wrapped := fmt.Errorf("failed to list: %w", original)
	doubleWrapped := fmt.Errorf("handler error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "unknown category" {
		t.Errorf("expected 'unknown category', got %q", ve.Message)
	}
}

func TestNotFoundError_Wrap(t *testing.T) {
	inner := fmt.Errorf("no rows")
	err := apperr.NewNotFoundWrap("article not found", inner)

	if err.Error() != "article not found: no rows" {
		t.Errorf("expected 'article not found: no rows', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}

	var nfe *apperr.NotFoundError
	if !errors.As(fmt.Errorf("handler error: %w", err), &nfe) {
		t.Fatal("errors.As should find NotFoundError through wrapping")
	}
}

func TestErrors_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}

	var nfe *apperr.NotFoundError
	if errors.As(wrapped, &nfe) {
		t.Fatal("errors.As should NOT find NotFoundError in plain error chain")
	}
}
