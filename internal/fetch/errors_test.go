package fetch

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenops/demosync/pkg/sheets"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect ErrorClass
	}{
		{"deadline", context.DeadlineExceeded, ClassTimeout},
		{"wrapped deadline", eris.Wrap(context.DeadlineExceeded, "fetch: attempt"), ClassTimeout},
		{"permission sentinel", eris.Wrap(sheets.ErrPermission, "sheets: get values"), ClassPermission},
		{"not found sentinel", eris.Wrap(sheets.ErrNotFound, "sheets: get values"), ClassNotFound},
		{"timeout message", errors.New("dial tcp: i/o timeout"), ClassTimeout},
		{"plain", errors.New("connection refused"), ClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := Classify("gviz-csv", tt.err)
			assert.Equal(t, tt.expect, se.Class)
			assert.Equal(t, "gviz-csv", se.Strategy)
		})
	}
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	orig := &StrategyError{Strategy: "export-csv", Class: ClassPermission, Err: errors.New("403")}
	se := Classify("other-name", eris.Wrap(orig, "fetch: attempt"))
	assert.Same(t, orig, se)
}

func TestStrategyError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	se := &StrategyError{Strategy: "s", Class: ClassOther, Err: inner}
	assert.ErrorIs(t, se, inner)
	assert.Contains(t, se.Error(), "boom")
	assert.Contains(t, se.Error(), "other")
}

func TestClassifyExport(t *testing.T) {
	signIn := []byte(`<html><body>Sign in to continue to accounts.google.com</body></html>`)

	tests := []struct {
		name        string
		status      int
		contentType string
		body        []byte
		expect      ErrorClass // "" means no error
	}{
		{"csv ok", http.StatusOK, "text/csv", []byte("a,b\n"), ""},
		{"sign-in page with 200", http.StatusOK, "text/html", signIn, ClassPermission},
		{"sign-in page no content type", http.StatusOK, "", signIn, ClassPermission},
		{"forbidden", http.StatusForbidden, "text/plain", []byte("nope"), ClassPermission},
		{"bad request", http.StatusBadRequest, "text/plain", nil, ClassPermission},
		{"not found", http.StatusNotFound, "text/html", []byte("<html>404</html>"), ClassNotFound},
		{"server error", http.StatusBadGateway, "text/plain", []byte("bad"), ClassOther},
		{"html instead of data", http.StatusOK, "text/html", []byte("<html>hello</html>"), ClassMalformed},
		{"empty body", http.StatusOK, "text/csv", nil, ClassMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := ClassifyExport("export-csv", tt.status, tt.contentType, tt.body)
			if tt.expect == "" {
				assert.Nil(t, se)
				return
			}
			require.NotNil(t, se)
			assert.Equal(t, tt.expect, se.Class)
		})
	}
}

func TestRemediation_DistinguishesClasses(t *testing.T) {
	perm := &StrategyError{Class: ClassPermission}
	timeout := &StrategyError{Class: ClassTimeout}
	assert.Contains(t, perm.Remediation(), "sharing")
	assert.Contains(t, timeout.Remediation(), "timed out")
	assert.NotEqual(t, perm.Remediation(), timeout.Remediation())
}
