package api

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{
			name:       "missing task",
			err:        errors.New("service call failed: task not found"),
			wantStatus: fiber.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "missing user",
			err:        errors.New("user not found"),
			wantStatus: fiber.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:        "validation failure keeps the field message",
			err:         errors.New("service call failed: validation failed: title is required"),
			wantStatus:  fiber.StatusBadRequest,
			wantError:   "validation_error",
			wantMessage: "title is required",
		},
		{
			name:       "bad credentials",
			err:        errors.New("invalid email or password"),
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "duplicate account",
			err:        errors.New("user with this email already exists"),
			wantStatus: fiber.StatusConflict,
			wantError:  "conflict",
		},
		{
			name:       "registration input error",
			err:        errors.New("password must be at least 8 characters"),
			wantStatus: fiber.StatusBadRequest,
			wantError:  "bad_request",
		},
		{
			name:        "unknown errors stay opaque",
			err:         errors.New("disk exploded: sector 7 unreadable"),
			wantStatus:  fiber.StatusInternalServerError,
			wantError:   "internal_error",
			wantMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handlers{}
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return h.mapServiceError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if tt.wantMessage != "" && body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestTrimServiceError(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"service call failed: validation failed: title is required", "title is required"},
		{"plain message", "plain message"},
		{"trailing colon: ", "trailing colon: "},
	}

	for _, tt := range tests {
		if got := trimServiceError(tt.in); got != tt.want {
			t.Errorf("trimServiceError(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
