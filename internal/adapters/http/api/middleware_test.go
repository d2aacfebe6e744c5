package api

import (
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		errType  string
		severity string
		failed   bool
	}{
		{http.StatusOK, "", "", false},
		{http.StatusAccepted, "", "", false},
		{http.StatusBadRequest, "client_error", "medium", true},
		{http.StatusNotFound, "not_found", "medium", true},
		{http.StatusTooManyRequests, "rate_limit", "medium", true},
		{http.StatusInternalServerError, "server_error", "high", true},
		{http.StatusServiceUnavailable, "unavailable", "high", true},
	}
	for _, tt := range tests {
		errType, severity, failed := classifyStatus(tt.status)
		if errType != tt.errType || severity != tt.severity || failed != tt.failed {
			t.Errorf("classifyStatus(%d) = %q, %q, %v; want %q, %q, %v",
				tt.status, errType, severity, failed, tt.errType, tt.severity, tt.failed)
		}
	}
}
