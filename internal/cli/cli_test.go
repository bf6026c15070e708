package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const cliToken = "cli-token"

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	authed := func(r *http.Request) bool {
		if c, err := r.Cookie("arc_session"); err == nil {
			return c.Value == cliToken
		}
		return r.Header.Get("Authorization") == "Bearer "+cliToken
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "arc_session", Value: cliToken, Path: "/"})
		_, _ = w.Write([]byte(`{"message":"Logged in","user":{"id":"u-1","email":"a@x.com","isPremium":false}}`))
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Logged out"}`))
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			http.Error(w, "Unauthorized", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","email":"a@x.com","isPremium":false}`))
	})
	mux.HandleFunc("POST /create-payment", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			http.Error(w, "User not logged in", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{"id":"cs_test_1"}`))
	})
	mux.HandleFunc("POST /api/arc-core", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"id":"c-1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"core: ` + body["prompt"] + `"}}]}`))
	})
	mux.HandleFunc("POST /api/arc-plus", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Arc-Plus access required", http.StatusForbidden)
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ready","checks":{"users":"ok"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// runCLI executes the root command with a private config file
func runCLI(t *testing.T, configPath, server, stdin string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	cfgFile, outputFormat, serverURL, apiClient = "", "table", "", nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", configPath, "--server", server}, args...))

	err := Execute()
	return out.String(), err
}

func newConfigPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: table\n"), 0600))
	return path
}

func TestAuthFlow(t *testing.T) {
	srv := fakeServer(t)
	cfg := newConfigPath(t)

	_, err := runCLI(t, cfg, srv.URL, "", "auth", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")

	out, err := runCLI(t, cfg, srv.URL, "", "auth", "login", "--email", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as a@x.com (arc-core)")

	raw, err := os.ReadFile(cfg)
	require.NoError(t, err)
	var saved map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &saved))
	auth, ok := saved["auth"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, cliToken, auth["token"])

	// a new process reuses the stored token
	out, err = runCLI(t, cfg, srv.URL, "", "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Email:    a@x.com")
	assert.Contains(t, out, "Tier:     arc-core")

	out, err = runCLI(t, cfg, srv.URL, "", "-o", "json", "auth", "whoami")
	require.NoError(t, err)
	var user map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &user))
	assert.Equal(t, "u-1", user["id"])

	out, err = runCLI(t, cfg, srv.URL, "", "auth", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out successfully")

	_, err = runCLI(t, cfg, srv.URL, "", "auth", "whoami")
	assert.Error(t, err)
}

func TestLoginPromptsForEmail(t *testing.T) {
	srv := fakeServer(t)
	cfg := newConfigPath(t)

	out, err := runCLI(t, cfg, srv.URL, "a@x.com\n", "auth", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Logged in as a@x.com")
}

func TestBillingAndCompletion(t *testing.T) {
	srv := fakeServer(t)
	cfg := newConfigPath(t)

	_, err := runCLI(t, cfg, srv.URL, "", "auth", "login", "--email", "a@x.com")
	require.NoError(t, err)

	out, err := runCLI(t, cfg, srv.URL, "", "billing", "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "Checkout session: cs_test_1")

	out, err = runCLI(t, cfg, srv.URL, "", "complete", "core", "hello", "there")
	require.NoError(t, err)
	assert.Equal(t, "core: hello there\n", out)

	// piped prompt
	out, err = runCLI(t, cfg, srv.URL, "from stdin\n", "complete", "core")
	require.NoError(t, err)
	assert.Equal(t, "core: from stdin\n", out)

	_, err = runCLI(t, cfg, srv.URL, "", "complete", "plus", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Arc-Plus access required")
}

func TestConfigCommands(t *testing.T) {
	cfg := newConfigPath(t)
	unused := "http://127.0.0.1:1"

	out, err := runCLI(t, cfg, unused, "", "config", "set", "cookie_name", "custom")
	require.NoError(t, err)
	assert.Contains(t, out, "Set cookie_name = custom")

	out, err = runCLI(t, cfg, unused, "", "config", "get", "cookie_name")
	require.NoError(t, err)
	assert.Equal(t, "cookie_name: custom\n", out)

	out, err = runCLI(t, cfg, unused, "", "config", "get", "missing")
	require.NoError(t, err)
	assert.Contains(t, out, "(not set)")

	_, err = runCLI(t, cfg, unused, "", "config", "set", "auth.token", "secret")
	require.NoError(t, err)

	out, err = runCLI(t, cfg, unused, "", "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cookie_name")
	assert.Contains(t, out, "(credentials stored)")
	assert.NotContains(t, out, "secret")
}

func TestStatus(t *testing.T) {
	srv := fakeServer(t)
	cfg := newConfigPath(t)

	out, err := runCLI(t, cfg, srv.URL, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Server:   [+] ready")
	assert.Contains(t, out, "users:")
	assert.Contains(t, out, "not signed in")

	out, err = runCLI(t, cfg, srv.URL, "", "-o", "yaml", "status")
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "ready", summary["server"])
}
