// Package log builds the slog loggers used by bakeryscan.
//
// Every logger is wrapped in a SecureHandler, which masks request secrets
// (cookies, authorization headers, proxy credentials, API tokens) before
// records reach the output. Console output uses tint for colored, compact
// lines; text and JSON formats are available for files and log shippers.
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	logger.Info("fetching", "url", u, "cookie", c) // cookie is masked
package log
