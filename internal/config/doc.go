// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file, an optional .env file and
// environment variables. A missing SECRET_KEY is a startup-fatal error.
package config
