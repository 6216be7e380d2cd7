package google

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTokenFileForAccount(t *testing.T) {
	tests := []struct {
		account string
		want    string
	}{
		{account: "default", want: "google.token"},
		{account: "", want: "google.token"},
		{account: "work", want: "google-work.token"},
	}

	for _, tt := range tests {
		got := filepath.Base(tokenFileForAccount(tt.account))
		if got != tt.want {
			t.Errorf("tokenFileForAccount(%q) = %s, want %s", tt.account, got, tt.want)
		}
	}
}

func TestHasTokenForAccountMissing(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if HasTokenForAccount("nobody") {
		t.Error("HasTokenForAccount reported a token in an empty cache dir")
	}
}

func TestGetOAuthConfigScopes(t *testing.T) {
	conf := GetOAuthConfig()

	var hasTasks, hasCalendar bool
	for _, scope := range conf.Scopes {
		if strings.HasSuffix(scope, "/auth/tasks") {
			hasTasks = true
		}
		if strings.HasSuffix(scope, "/auth/calendar") {
			hasCalendar = true
		}
	}
	if !hasTasks || !hasCalendar {
		t.Errorf("OAuth config missing required scopes: %v", conf.Scopes)
	}
}

func TestGetAuthenticationErrorMessage(t *testing.T) {
	msg := GetAuthenticationErrorMessage("work")
	if !strings.Contains(msg, "work") || !strings.Contains(msg, "google_get_auth_url") {
		t.Errorf("unexpected guidance message: %s", msg)
	}
}
