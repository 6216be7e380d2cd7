package common

import (
	"context"
)

// GetAccountFromArgs extracts the account name from request arguments,
// defaulting to "default". The context parameter is kept so transports
// that carry authenticated user identity can override the account later
// without changing every call site.
func GetAccountFromArgs(_ context.Context, args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}
