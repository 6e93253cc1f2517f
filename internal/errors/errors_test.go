package errors

import (
	"fmt"
	"testing"
)

func TestHawkError_Error(t *testing.T) {
	err := &HawkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "saved post not found",
	}

	expected := "NOT_FOUND: saved post not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("creativeData is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "creativeData is required" {
		t.Errorf("Message = %q, want %q", err.Message, "creativeData is required")
	}
}

func TestNewUnknownAction(t *testing.T) {
	err := NewUnknownAction("frobnicate")

	if err.Code != ErrUnknownAction {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnknownAction)
	}
	if err.Message != "unknown action: frobnicate" {
		t.Errorf("Message = %q, want %q", err.Message, "unknown action: frobnicate")
	}
	if err.Details["action"] != "frobnicate" {
		t.Errorf("Details[action] = %v, want %q", err.Details["action"], "frobnicate")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("abc123")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["id"] != "abc123" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "abc123")
	}
}

func TestNewCooldown(t *testing.T) {
	err := NewCooldown("Please wait before capturing again")

	if err.Code != ErrCooldown {
		t.Errorf("Code = %q, want %q", err.Code, ErrCooldown)
	}
	if err.Status != 429 {
		t.Errorf("Status = %d, want 429", err.Status)
	}
}

func TestNewTimeout(t *testing.T) {
	err := NewTimeout("linkedin")

	if err.Code != ErrTimeout {
		t.Errorf("Code = %q, want %q", err.Code, ErrTimeout)
	}
	if err.Details["platform"] != "linkedin" {
		t.Errorf("Details[platform] = %v, want %q", err.Details["platform"], "linkedin")
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("boom"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "boom" {
		t.Errorf("Message = %q, want %q", err.Message, "boom")
	}

	nilErr := NewInternal(nil)
	if nilErr.Message != "internal error" {
		t.Errorf("Message = %q, want %q", nilErr.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("x")
	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrTimeout) {
		t.Error("Is(err, ErrTimeout) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is(plain, ErrNotFound) = true, want false")
	}
}
