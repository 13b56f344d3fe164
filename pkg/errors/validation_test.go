package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "xterm", false},
		{"valid with dot", "GNUstep.app", false},
		{"valid with space", "Web Browser", false},
		{"valid unicode", "Téléphone", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantCode Code
	}{
		{"valid", "xterm -e top", false, ""},
		{"valid with tab", "xterm\t-e top", false, ""},
		{"valid with quotes", `sh -c "echo %s"`, false, ""},

		{"empty", "", true, ErrCodeUnresolvedCommand},
		{"blank", "   ", true, ErrCodeUnresolvedCommand},
		{"placeholder", "-", true, ErrCodeUnresolvedCommand},
		{"null byte", "xterm\x00", true, ErrCodeInvalidInput},
		{"newline", "xterm\nrm", true, ErrCodeInvalidInput},
		{"too long", strings.Repeat("x", 5000), true, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCommand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && GetCode(err) != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestValidateDrawerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"generated", "Drawer 1", false},
		{"custom", "dev-tools", false},
		{"dotted", "my.tools", false},

		{"empty", "", true},
		{"leading space", " Drawer", true},
		{"slash", "a/b", true},
		{"control", "Drawer\x07", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDrawerName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDrawerName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStoreKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "default", false},
		{"valid with dash", "screen-0", false},
		{"valid with dot", "host.screen0", false},

		{"empty", "", true},
		{"traversal", "..", true},
		{"embedded traversal", "a..b", true},
		{"slash", "a/b", true},
		{"leading dot", ".hidden", true},
		{"too long", strings.Repeat("k", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStoreKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStoreKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
