// Package http contains the HTTP transport layer: the chi router, the
// session-scoped cleaning API, and the exports and health endpoints. All
// error responses are RFC 7807 problem documents.
package http
