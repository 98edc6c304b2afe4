// Package observability builds the process logger and the HTTP request
// metrics exported on the metrics port.
package observability
