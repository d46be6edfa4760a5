// ABOUTME: Entry point for the grue record service
// ABOUTME: Serves grue create, read, update, and delete over HTTP

package main

import "github.com/2389/maze-gateway/internal/cli"

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	cli.Execute(cli.GrueService(version))
}
