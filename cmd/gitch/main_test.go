package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setupEnv points the CLI at server and at a renderer that does not exist
func setupEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("GITHUB_API_URL", apiURL)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("RENDERER_BIN", filepath.Join(t.TempDir(), "no-chafa"))
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "text")
}

func newAPIServer(t *testing.T, authorization *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authorization != nil && r.URL.Path == "/users/octocat" {
			*authorization = r.Header.Get("Authorization")
		}

		switch r.URL.Path {
		case "/users/octocat":
			fmt.Fprint(w, `{"login":"octocat","id":583231,"name":"The Octocat","bio":"Loves cats and code","followers":20,"public_repos":8}`)
		case "/users/octocat/repos":
			fmt.Fprint(w, `[]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunPrintsProfile(t *testing.T) {
	server := newAPIServer(t, nil)
	setupEnv(t, server.URL)

	code, stdout, _ := runCLI("--no-color", "octocat")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "octocat")
	assert.Contains(t, stdout, "Loves cats and code")
	assert.True(t, strings.HasPrefix(stdout, "The Octocat (octocat)@github"))
}

func TestRunUserNotFound(t *testing.T) {
	server := newAPIServer(t, nil)
	setupEnv(t, server.URL)

	code, stdout, stderr := runCLI("nobody")

	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "not found")
	assert.Contains(t, stderr, "nobody")
	assert.NotContains(t, stderr, "goroutine")
}

func TestRunInvalidLogin(t *testing.T) {
	server := newAPIServer(t, nil)
	setupEnv(t, server.URL)

	code, stdout, stderr := runCLI("../orgs/github")

	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "not a valid GitHub login")
}

func TestRunNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	apiURL := server.URL
	server.Close()
	setupEnv(t, apiURL)

	code, _, stderr := runCLI("octocat")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "network error")
}

func TestRunSendsToken(t *testing.T) {
	var authorization string
	server := newAPIServer(t, &authorization)
	setupEnv(t, server.URL)
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")

	code, _, _ := runCLI("--skip-repos", "octocat")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Bearer ghp_from_env", authorization)
}

func TestRunUsageErrors(t *testing.T) {
	server := newAPIServer(t, nil)
	setupEnv(t, server.URL)

	testCases := []struct {
		name string
		args []string
	}{
		{name: "Too many usernames", args: []string{"octocat", "torvalds"}},
		{name: "Unknown flag", args: []string{"--bogus"}},
		{name: "Bad size", args: []string{"--size", "24", "octocat"}},
		{name: "Zero size", args: []string{"--size", "0x12", "octocat"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, stdout, _ := runCLI(tc.args...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
		})
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	code, stdout, _ := runCLI("--version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "gitch dev\n", stdout)

	code, _, stderr := runCLI("--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "Usage: gitch")
}

func TestParseSize(t *testing.T) {
	testCases := []struct {
		input  string
		width  int
		height int
		valid  bool
	}{
		{input: "24x12", width: 24, height: 12, valid: true},
		{input: "40X20", width: 40, height: 20, valid: true},
		{input: "24", valid: false},
		{input: "ax12", valid: false},
		{input: "24x-1", valid: false},
		{input: "1x2x3", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			width, height, err := parseSize(tc.input)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.width, width)
			assert.Equal(t, tc.height, height)
		})
	}
}
