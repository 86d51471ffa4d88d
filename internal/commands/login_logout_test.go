package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

const oauthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func runAuthCommand(ctx context.Context, cmd commands.Command, cfg *config.Config) (stdout, stderr string, code int) {
	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(ctx, cfg, nil, nil, nil, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr, code := runAuthCommand(context.Background(), &commands.LoginCmd{}, &config.Config{Dir: dir})

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "oauth_client.json not found in "+dir) {
		t.Errorf("expected setup instructions, got %q", stderr)
	}
}

func TestLoginCommand_InvalidOAuthClient(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.OAuthClientFile, `{"nope":true}`)

	_, stderr, code := runAuthCommand(context.Background(), &commands.LoginCmd{}, &config.Config{Dir: dir})
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid oauth_client.json") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// A stored token that cannot be refreshed must not count as logged in.
func TestLoginCommand_UnusableToken(t *testing.T) {
	tokens := map[string]string{
		"corrupt":     `{not json`,
		"no refresh":  `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
		"access only": `{"access_token":"expired","token_type":"Bearer"}`,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.OAuthClientFile, oauthClient)
			writeFile(t, dir, config.TokenFile, token)

			// cancelled so the callback wait returns at once
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			stdout, _, code := runAuthCommand(ctx, &commands.LoginCmd{}, &config.Config{Dir: dir})
			if stdout == "already logged in\n" {
				t.Error("should not say 'already logged in' with an unusable token")
			}
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
		})
	}
}

func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	dir := t.TempDir()
	oauthPath := writeFile(t, dir, config.OAuthClientFile, oauthClient)
	tokenPath := writeFile(t, dir, config.TokenFile, `{"access_token":"test","refresh_token":"test"}`)
	tasksPath := writeFile(t, dir, "tasks.json", `[]`)

	stdout, stderr, code := runAuthCommand(context.Background(), &commands.LogoutCmd{}, &config.Config{Dir: dir})
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	for _, keep := range []string{oauthPath, tasksPath} {
		if _, err := os.Stat(keep); err != nil {
			t.Errorf("%s should NOT have been deleted", filepath.Base(keep))
		}
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	tests := []struct {
		quiet bool
		want  string
	}{
		{false, "not logged in\n"},
		{true, ""},
	}

	for _, tt := range tests {
		stdout, stderr, code := runAuthCommand(context.Background(), &commands.LogoutCmd{}, &config.Config{Dir: t.TempDir(), Quiet: tt.quiet})
		if code != exitcode.Success {
			t.Errorf("quiet=%v: expected exit code %d, got %d", tt.quiet, exitcode.Success, code)
		}
		if stderr != "" {
			t.Errorf("quiet=%v: expected no stderr, got %q", tt.quiet, stderr)
		}
		if stdout != tt.want {
			t.Errorf("quiet=%v: expected %q, got %q", tt.quiet, tt.want, stdout)
		}
	}
}
