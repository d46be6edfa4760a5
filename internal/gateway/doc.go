// Package gateway implements the maze aggregation gateway.
//
// # Overview
//
// The gateway holds no state. Each inbound request maps to exactly one
// upstream call:
//
//	GET|PUT   /maze/user/{username}  ->  <user_url>/{username}
//	GET|POST  /maze/grue             ->  <grue_url>/grue
//	GET|PUT   /maze/grue/{uuid}      ->  <grue_url>/grue/{uuid}
//	GET|HEAD  /maze/health           ->  answered locally
//
// # Forwarding Contract
//
// PUT and POST bodies are forwarded verbatim as application/json, along with
// the caller's Authorization header and request id.
//
// An upstream 200 is passed through unchanged: the outbound body is the
// upstream body byte for byte. Any other status becomes
//
//	{"ok":false,"error":"request failed: <upstream body>"}
//
// and a transport failure (dial error, timeout) becomes
//
//	{"ok":false,"error":"request failed: <error>"}
//
// Failures answer 502 unless server.legacy_status is set, in which case they
// answer 200 and callers inspect "ok".
//
// # Timeouts
//
// Each upstream call is bounded by upstreams.timeout and by the inbound
// request's context. There are no retries.
package gateway
