// Package google holds the shared OAuth2 plumbing for the Google API
// clients: the OAuth configuration, per-account token files on disk, and
// the TokenProvider abstraction the clients consume.
package google
