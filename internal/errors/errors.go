package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/logger"
	"github.com/julianstephens/wellday/internal/validation"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Hint suggests a next step for errors the user can act on, or "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case api.IsUnauthorized(err):
		return "Hint: sign in with 'wellday auth login' or store a token with 'wellday auth token'."
	case api.IsTransport(err):
		return "Hint: check that the backend is reachable (see 'wellday doctor'), or pass --offline to use cached data."
	case validation.IsValidation(err):
		return "Hint: fix the fields above and try again."
	default:
		return ""
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "%s\n", hint)
		}
		os.Exit(1)
	}
}
