package app

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestRegisterServeFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterServeFlags(flags)

	// Verify all flags are registered
	expectedFlags := []string{
		"transport",
		"host",
		"port",
		"auth-type",
		"auth-basic-username",
		"auth-basic-password",
		"auth-api-keys",
	}

	for _, name := range expectedFlags {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected flag %q to be registered", name)
		}
	}
}

func TestRegisterServeFlags_Shorthand(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterServeFlags(flags)

	shorthandFlags := map[string]string{
		"transport":           "t",
		"host":                "H",
		"port":                "p",
		"auth-type":           "a",
		"auth-basic-username": "u",
		"auth-basic-password": "P",
		"auth-api-keys":       "k",
	}

	for name, shorthand := range shorthandFlags {
		flag := flags.Lookup(name)
		if flag == nil {
			t.Errorf("Flag %q not found", name)
			continue
		}
		if flag.Shorthand != shorthand {
			t.Errorf("Flag %q expected shorthand %q, got %q", name, shorthand, flag.Shorthand)
		}
	}
}

func TestRegisterServeFlags_SetValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterServeFlags(flags)

	err := flags.Parse([]string{
		"--transport", "sse",
		"--host", "localhost",
		"--port", "9090",
		"--auth-type", "basic",
	})
	if err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	transport, _ := flags.GetString("transport")
	if transport != "sse" {
		t.Errorf("Expected transport 'sse', got '%s'", transport)
	}

	host, _ := flags.GetString("host")
	if host != "localhost" {
		t.Errorf("Expected host 'localhost', got '%s'", host)
	}

	port, _ := flags.GetInt("port")
	if port != 9090 {
		t.Errorf("Expected port 9090, got %d", port)
	}

	authType, _ := flags.GetString("auth-type")
	if authType != "basic" {
		t.Errorf("Expected auth-type 'basic', got '%s'", authType)
	}
}

func TestRegisterIngestFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterIngestFlags(flags)

	expectedFlags := []string{
		"data-dir",
		"site",
		"limit",
		"sort",
		"fetch-delay",
		"lock-timeout",
		"max-results",
	}

	for _, name := range expectedFlags {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected flag %q to be registered", name)
		}
	}
}

func TestRegisterIngestFlags_SetValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterIngestFlags(flags)

	err := flags.Parse([]string{
		"--data-dir", "/tmp/feed",
		"--limit", "25",
		"--sort", "creation",
		"--fetch-delay", "250ms",
	})
	if err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	dataDir, _ := flags.GetString("data-dir")
	if dataDir != "/tmp/feed" {
		t.Errorf("Expected data-dir '/tmp/feed', got '%s'", dataDir)
	}

	limit, _ := flags.GetInt("limit")
	if limit != 25 {
		t.Errorf("Expected limit 25, got %d", limit)
	}

	sort, _ := flags.GetString("sort")
	if sort != "creation" {
		t.Errorf("Expected sort 'creation', got '%s'", sort)
	}

	delay, _ := flags.GetDuration("fetch-delay")
	if delay != 250*time.Millisecond {
		t.Errorf("Expected fetch-delay 250ms, got %v", delay)
	}
}
