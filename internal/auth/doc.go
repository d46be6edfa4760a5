// Package auth provides optional bearer-token authentication for the maze
// services and gateway.
//
// # Tokens
//
// Tokens are HS256 JWTs signed with auth.jwt_secret. The "sub" claim names
// the caller; "exp" bounds the token's life. Mint one with:
//
//	maze-gateway token --subject ops
//
// # HTTP Middleware
//
// HTTPAuthMiddleware rejects requests without a valid token with an
// Unauthorized result envelope. Health and metrics paths are listed in
// MiddlewareOptions.OpenPaths and stay reachable without a token. When
// auth.jwt_secret is empty the middleware is not installed at all.
//
// The authenticated subject is available to handlers via SubjectFromContext.
package auth
