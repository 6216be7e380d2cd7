package google

// DefaultOAuthScopes are the Google OAuth scopes required for full
// functionality. These scopes are used consistently across the
// application for OAuth configurations.
//
// The scopes provide access to:
//   - Google Tasks: full access
//   - Google Calendar: full access
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Tasks scope
	"https://www.googleapis.com/auth/tasks",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
