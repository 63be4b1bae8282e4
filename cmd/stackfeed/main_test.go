package main

import (
	"strings"
	"testing"
)

func TestExecute_Version(t *testing.T) {
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"--version"})
	if err != nil {
		t.Errorf("Expected no error for --version, got: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"--help"})
	if err != nil {
		t.Errorf("Expected no error for --help, got: %v", err)
	}
}

func TestExecute_InvalidFlag(t *testing.T) {
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"--invalid-flag"})
	if err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestExecute_IngestRequiresCategory(t *testing.T) {
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"ingest"})
	if err == nil {
		t.Error("Expected error for ingest without a category")
	}
}

func TestExecute_IngestUnknownCategory(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"ingest", "not-a-real-category", "--data-dir", dir})
	if err == nil {
		t.Error("Expected error for unknown category")
	}
	if !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("Expected unknown category error, got: %v", err)
	}
}

func TestExecute_ListEmptyStore(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"list", "--data-dir", dir})
	if err != nil {
		t.Errorf("Expected no error for list on empty store, got: %v", err)
	}
}

func TestExecute_ListInvalidOrder(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"list", "--data-dir", dir, "--order", "magic"})
	if err == nil {
		t.Error("Expected error for invalid order key")
	}
}

func TestExecute_ShowMissingQuestion(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"show", "12345", "--data-dir", dir})
	if err == nil {
		t.Error("Expected error for missing question")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestExecute_DeleteNothing(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"delete", "12345", "--data-dir", dir})
	if err != nil {
		t.Errorf("Expected no error deleting a missing id, got: %v", err)
	}
}

func TestExecute_SearchEmptyStore(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"search", "goroutine", "--data-dir", dir})
	if err != nil {
		t.Errorf("Expected no error searching an empty store, got: %v", err)
	}
}

func TestExecute_ExportInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"export", "--data-dir", dir, "--format", "yaml"})
	if err == nil {
		t.Error("Expected error for invalid export format")
	}
}

func TestExecute_ExportAtom(t *testing.T) {
	dir := t.TempDir()
	out := dir + "/feed.xml"
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"export", "--data-dir", dir, "--format", "atom", "--out", out})
	if err != nil {
		t.Errorf("Expected no error for atom export, got: %v", err)
	}
}

func TestExecute_ServeInvalidTransport(t *testing.T) {
	err := Execute("1.0.0", "abc123", "stackfeed", []string{"serve", "--transport", "invalid"})
	if err == nil {
		t.Error("Expected error for invalid transport")
	}
	if !strings.Contains(err.Error(), "transport") {
		t.Errorf("Expected error about transport, got: %v", err)
	}
}

func TestRunMain_Success(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	// --help should succeed
	runMain([]string{"stackfeed", "--help"}, mockExit)

	if exitCode != -1 {
		t.Errorf("Expected no exit call for --help, got exit code: %d", exitCode)
	}
}

func TestRunMain_Failure(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	runMain([]string{"stackfeed", "--invalid"}, mockExit)

	if exitCode != 1 {
		t.Errorf("Expected exit code 1 for invalid flag, got: %d", exitCode)
	}
}
