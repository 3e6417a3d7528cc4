package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_API_URL", "HTTP_TIMEOUT", "AVATAR_WIDTH", "AVATAR_HEIGHT",
		"AVATAR_TIMEOUT", "RENDERER_BIN", "RENDER_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	require.NoError(t, Load())

	assert.Equal(t, "", AppConfig.GitHub.Token)
	assert.Equal(t, "https://api.github.com", AppConfig.GitHub.APIURL)
	assert.Equal(t, 10, AppConfig.GitHub.Timeout)
	assert.Equal(t, 24, AppConfig.Avatar.Width)
	assert.Equal(t, 12, AppConfig.Avatar.Height)
	assert.Equal(t, 5, AppConfig.Avatar.Timeout)
	assert.Equal(t, "chafa", AppConfig.Renderer.Binary)
	assert.Equal(t, "warn", AppConfig.Log.Level)
	assert.Equal(t, "text", AppConfig.Log.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "  secret-token \n")
	t.Setenv("GITHUB_API_URL", "http://localhost:9999")
	t.Setenv("HTTP_TIMEOUT", "3")
	t.Setenv("AVATAR_WIDTH", "32")
	t.Setenv("RENDERER_BIN", "/opt/bin/chafa")
	t.Setenv("LOG_LEVEL", "debug")

	require.NoError(t, Load())

	assert.Equal(t, "secret-token", AppConfig.GitHub.Token)
	assert.Equal(t, "http://localhost:9999", AppConfig.GitHub.APIURL)
	assert.Equal(t, 3, AppConfig.GitHub.Timeout)
	assert.Equal(t, 32, AppConfig.Avatar.Width)
	assert.Equal(t, "/opt/bin/chafa", AppConfig.Renderer.Binary)
	assert.Equal(t, "debug", AppConfig.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RENDERER_BIN", "")
	require.NoError(t, os.Unsetenv("RENDERER_BIN"))
	require.NoError(t, os.WriteFile(".env", []byte("RENDERER_BIN=/from/dotenv\n"), 0o600))

	require.NoError(t, Load())
	assert.Equal(t, "/from/dotenv", AppConfig.Renderer.Binary)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	chdir(t, t.TempDir())

	assert.NoError(t, Load())
}

func TestLoadReportsBrokenDotEnv(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "Unterminated quote",
			setup: func(t *testing.T) {
				require.NoError(t, os.WriteFile(".env", []byte("GITHUB_TOKEN=\"unterminated\n"), 0o600))
			},
		},
		{
			name: "Directory instead of file",
			setup: func(t *testing.T) {
				require.NoError(t, os.Mkdir(filepath.Join(".", ".env"), 0o700))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			tc.setup(t)

			err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), ".env")
		})
	}
}

func TestGetEnvAsIntRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected int
	}{
		{name: "Not a number", value: "ten", expected: 7},
		{name: "Zero", value: "0", expected: 7},
		{name: "Negative", value: "-4", expected: 7},
		{name: "Valid", value: "12", expected: 12},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("GITCH_TEST_INT", tc.value)
			assert.Equal(t, tc.expected, getEnvAsInt("GITCH_TEST_INT", 7))
		})
	}
}

// chdir switches the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}
