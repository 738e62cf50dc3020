// ABOUTME: Tests for the status command
// ABOUTME: Verifies session status output formatting and exit codes

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunStatus_LoggedIn(t *testing.T) {
	d, srv := newTestDeps(t, "abc")

	var buf bytes.Buffer
	if code := runStatus(d, &buf); code != exitOK {
		t.Errorf("expected exit 0, got %d", code)
	}

	for _, want := range []string{srv.URL, "session.json", "logged in"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got %q", want, buf.String())
		}
	}
	if srv.TotalCalls() != 0 {
		t.Error("expected status to make no requests")
	}
}

func TestRunStatus_LoggedOut(t *testing.T) {
	d, _ := newTestDeps(t, "")

	var buf bytes.Buffer
	if code := runStatus(d, &buf); code != exitUnauthorized {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "not logged in") {
		t.Errorf("expected not logged in, got %q", buf.String())
	}
}

func TestRunStatus_JSON(t *testing.T) {
	withJSONOutput(t)
	d, _ := newTestDeps(t, "abc")

	var buf bytes.Buffer
	runStatus(d, &buf)

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["authenticated"] != true {
		t.Errorf("expected authenticated true, got %v", parsed["authenticated"])
	}
	if parsed["api_url"] != d.cfg.APIURL {
		t.Errorf("expected api_url %s, got %v", d.cfg.APIURL, parsed["api_url"])
	}
}
