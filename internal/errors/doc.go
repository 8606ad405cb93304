// Package errors provides structured, actionable error messages for the
// htmldiff CLI and live-reload server.
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: htmldiff.json loading and validation
//   - cli: command-line argument and file-path errors
//   - livereload: live-reload server setup failures (bind address, watch paths)
//
// Diff-level errors returned by the diff engine itself use the separate
// internal/errcat taxonomy, not this package.
//
// # Error Codes
//
// Some errors carry a stable, documented code (e.g., "E001") looked up
// from a small registry; conditions that don't warrant one use Newf
// with a formatted message instead.
//
// # Usage
//
//	err := errors.New("E003").
//	    WithDetail("got -1").
//	    WithSuggestion("set server.port to a value in [0,65535]")
//
//	fmt.Println(err.Format())
//	// Output:
//	// Error E003: invalid port number
//	//
//	//   got -1
//	//
//	//   Hint: set server.port to a value in [0,65535]
//	//
//	//   Learn more: https://htmldiff.dev/docs/errors/E003
package errors
