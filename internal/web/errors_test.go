package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JonMunkholm/SendyUpload/internal/sendy"
	"github.com/JonMunkholm/SendyUpload/internal/upload"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"nil", nil, "", 0},
		{"no file", errNoFile, "FILE004", http.StatusBadRequest},
		{"no list", errNoList, "LIST001", http.StatusBadRequest},
		{"wrapped too large", fmt.Errorf("%w: 20MB", errFileTooLarge), "FILE001", http.StatusRequestEntityTooLarge},
		{"missing config", sendy.ErrMissingConfig, "CFG001", http.StatusInternalServerError},
		{"busy", upload.ErrTooManyUploads, "UPL002", http.StatusServiceUnavailable},
		{"deadline", fmt.Errorf("acquire: %w", context.DeadlineExceeded), "UPL005", http.StatusGatewayTimeout},
		{"rate", errRateLimited, "RATE001", http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), "ERR000", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestMapError_KeepsOriginalWording(t *testing.T) {
	if got := MapError(errNoFile).Message; got != "No file uploaded." {
		t.Errorf("Message = %q", got)
	}
	if got := MapError(errNoList).Message; got != "No Sendy List ID provided." {
		t.Errorf("Message = %q", got)
	}
}
