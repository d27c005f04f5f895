// Package fetch retrieves bakery web pages over HTTP.
//
// A Client builds *http.Client values with the configured timeout,
// browser-like headers and an optional SOCKS5 proxy. A Fetcher performs a
// single GET per page with no retries and converts every failure into a
// *model.Failure, so callers never have to handle panics or partial reads.
package fetch
