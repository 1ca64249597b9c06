// Package config loads starter kit settings from the process environment.
//
// Settings split into two groups: fatal ones (the model client refuses to
// construct without them) and optional ones that merely switch features on or
// off (Entra ID auth, auth handler, remote tool servers). A .env file in the
// working directory is honored for local development.
package config
