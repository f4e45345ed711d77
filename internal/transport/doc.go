// Package transport provides the HTTP client used for every upstream call.
//
// Requests are retried on a fixed schedule when the failure looks transient
// (timeouts, refused or reset connections, HTTP 408, 429 and 5xx). Other
// failures are returned after a single attempt. All clients share one
// connection pool with bounded connect, header and body phases.
package transport
