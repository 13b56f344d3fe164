package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a WM instance or class name read from a persisted
// record or an API request.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidateCommand validates a launch command. The placeholder "-" means
// "no command" and is rejected here; callers handle it before validating.
func ValidateCommand(cmd string) error {
	trimmed := strings.TrimSpace(cmd)
	if trimmed == "" || trimmed == "-" {
		return New(ErrCodeUnresolvedCommand, "command cannot be empty")
	}

	if len(cmd) > 4096 {
		return New(ErrCodeInvalidInput, "command too long (max 4096 characters)")
	}

	// Tabs are legal inside shell commands.
	for _, r := range cmd {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidInput, "command contains invalid control characters")
		}
	}

	return nil
}

// drawerNameRegex matches names the drawer factory generates or users type.
var drawerNameRegex = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} ._-]*$`)

// ValidateDrawerName validates a drawer name.
func ValidateDrawerName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if !drawerNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid drawer name: %q", name)
	}

	return nil
}

// storeKeyRegex matches keys safe for every store backend, including file names.
var storeKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateStoreKey validates a state key used by file, redis and mongo stores.
// It rejects keys that could escape the file store's directory.
func ValidateStoreKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "store key cannot be empty")
	}

	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "store key too long (max 128 characters)")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidInput, "store key cannot contain path traversal sequences (..)")
	}

	if !storeKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid store key: %q", key)
	}

	return nil
}
