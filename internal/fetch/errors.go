// Package fetch implements the multi-strategy sheet fetch: an ordered list
// of transports (authenticated values API, public CSV exports, XLSX
// export) tried strictly sequentially with per-strategy timeouts and
// classified failures.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/kitchenops/demosync/pkg/sheets"
)

// ErrorClass buckets strategy failures by what the operator can do about
// them.
type ErrorClass string

const (
	ClassPermission ErrorClass = "permission" // sheet not shared / auth rejected
	ClassNotFound   ErrorClass = "not_found"
	ClassTimeout    ErrorClass = "timeout"
	ClassMalformed  ErrorClass = "malformed" // response is not sheet data
	ClassOther      ErrorClass = "other"
)

// StrategyError is a classified failure from one strategy attempt.
type StrategyError struct {
	Strategy string
	Class    ErrorClass
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Strategy, e.Class, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// Remediation returns the human-readable diagnostic for the class,
// distinguishing sharing problems from plain network trouble.
func (e *StrategyError) Remediation() string {
	switch e.Class {
	case ClassPermission:
		return "the spreadsheet is not shared publicly (or the service account lacks access); check sharing settings"
	case ClassNotFound:
		return "the spreadsheet or sheet tab was not found; check the configured spreadsheet id and gid"
	case ClassTimeout:
		return "the fetch timed out; the sheet service may be slow or unreachable"
	case ClassMalformed:
		return "the response was not spreadsheet data; the export URL may be wrong"
	default:
		return "a network error occurred while fetching the sheet"
	}
}

// Classify wraps an error from a strategy attempt with its class. Already
// classified errors pass through unchanged.
func Classify(strategy string, err error) *StrategyError {
	var se *StrategyError
	if errors.As(err, &se) {
		return se
	}

	class := ClassOther
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		class = ClassTimeout
	case errors.Is(err, sheets.ErrPermission):
		class = ClassPermission
	case errors.Is(err, sheets.ErrNotFound):
		class = ClassNotFound
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			class = ClassTimeout
		} else if msg := strings.ToLower(err.Error()); strings.Contains(msg, "deadline exceeded") ||
			strings.Contains(msg, "timeout") {
			class = ClassTimeout
		}
	}

	return &StrategyError{Strategy: strategy, Class: class, Err: err}
}

// permissionPhrases appear in the HTML error pages Google serves when a
// sheet is not shared publicly.
var permissionPhrases = []string{
	"sign in",
	"accounts.google.com",
	"sharing settings",
	"you need access",
}

// ClassifyExport inspects a public-export HTTP response and returns nil if
// it plausibly contains sheet data, or a classified error otherwise.
func ClassifyExport(strategy string, status int, contentType string, body []byte) *StrategyError {
	lowered := strings.ToLower(string(body))

	isHTML := strings.Contains(contentType, "text/html") || strings.Contains(lowered, "<html")
	if isHTML {
		for _, phrase := range permissionPhrases {
			if strings.Contains(lowered, phrase) {
				return &StrategyError{
					Strategy: strategy,
					Class:    ClassPermission,
					Err:      fmt.Errorf("got html sign-in page (status %d)", status),
				}
			}
		}
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusForbidden:
		return &StrategyError{
			Strategy: strategy,
			Class:    ClassPermission,
			Err:      fmt.Errorf("export rejected with status %d", status),
		}
	case status == http.StatusNotFound:
		return &StrategyError{
			Strategy: strategy,
			Class:    ClassNotFound,
			Err:      fmt.Errorf("export returned status %d", status),
		}
	case status != http.StatusOK:
		return &StrategyError{
			Strategy: strategy,
			Class:    ClassOther,
			Err:      fmt.Errorf("export returned status %d", status),
		}
	case isHTML:
		return &StrategyError{
			Strategy: strategy,
			Class:    ClassMalformed,
			Err:      fmt.Errorf("expected sheet data, got html"),
		}
	case len(body) == 0:
		return &StrategyError{
			Strategy: strategy,
			Class:    ClassMalformed,
			Err:      fmt.Errorf("empty export body"),
		}
	}
	return nil
}
