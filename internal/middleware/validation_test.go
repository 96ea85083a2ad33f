package middleware

import (
	"strings"
	"testing"

	"github.com/mathieu-neron/cineflix-go/internal/model"
)

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		{"hashed id", "vid_a1b2c3d4", "vid_a1b2c3d4", false},
		{"fallback id", "vid_12345", "vid_12345", false},
		{"trims whitespace", "  vid_abc  ", "vid_abc", false},
		{"empty", "", "", true},
		{"missing prefix", "a1b2c3d4", "", true},
		{"prefix only", "vid_", "", true},
		{"too long", "vid_" + strings.Repeat("a", 61), "", true},
		{"exactly 64", "vid_" + strings.Repeat("a", 60), "vid_" + strings.Repeat("a", 60), false},
		{"regex injection", "vid_.*", "", true},
		{"unicode", "vid_abcé", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateVideoID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.wantID {
				t.Errorf("got %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"positive", "123456789", 123456789, false},
		{"negative channel style", "-1001234", -1001234, false},
		{"trims whitespace", " 42 ", 42, false},
		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"not a number", "abc", 0, true},
		{"overflow", "99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateUserID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    model.Category
		wantErr bool
	}{
		{"", "", false},
		{"movie", model.CategoryMovie, false},
		{" Series ", model.CategorySeries, false},
		{"other", model.CategoryOther, false},
		{"cartoon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, errMsg := ValidateCategory(tt.input)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("error = %q, wantErr %v", errMsg, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSearch(t *testing.T) {
	if _, msg := ValidateSearch("   "); msg == "" {
		t.Error("blank query should be rejected")
	}
	if _, msg := ValidateSearch(strings.Repeat("ক", MaxSearchLen+1)); msg == "" {
		t.Error("overlong query should be rejected")
	}
	if got, msg := ValidateSearch(" matrix "); msg != "" || got != "matrix" {
		t.Errorf("got %q (%s), want matrix", got, msg)
	}
}

func TestParseBoundedInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"default", "", 50, false},
		{"value", "10", 10, false},
		{"clamped", "1000", 200, false},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
		{"junk", "ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ParseBoundedInt(tt.input, DefaultListLimit, MaxListLimit)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("error = %q, wantErr %v", errMsg, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/api/users/12345", "/api/users/:userId"},
		{"/api/users/12345/ban", "/api/users/:userId/ban"},
		{"/api/videos/vid_abcd1234", "/api/videos/vid_abcd1234"},
		{"/health/live", "/health/live"},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.in); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
