// Package config holds the decoder's resource limits and the CLI's
// rendering options behind a single atomically-swapped global, so the
// command-line driver can read consistent settings without a mutex on
// every access.
package config

// Config controls resource limits passed to bencode.DecodeLimits and the
// rendering options cmd/bencat applies to its output.
type Config struct {
	// DepthLimit caps open-container nesting during decode. 0 uses
	// bencode.DefaultDepthLimit.
	DepthLimit int

	// TokenLimit caps the number of tokens a single decode may emit. 0
	// uses bencode.DefaultTokenLimit.
	TokenLimit int

	// Color enables ANSI color in cmd/bencat's error and log output.
	Color bool

	// Pretty selects 4-space-indented JSON output over the compact
	// single-line form.
	Pretty bool
}

// defaultConfig returns the settings cmd/bencat starts with absent any
// flags.
func defaultConfig() Config {
	return Config{
		DepthLimit: 0, // bencode.DefaultDepthLimit
		TokenLimit: 0, // bencode.DefaultTokenLimit
		Color:      true,
		Pretty:     true,
	}
}
