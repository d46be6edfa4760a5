// ABOUTME: Entry point for the maze aggregation gateway
// ABOUTME: Forwards user and grue requests to their upstream services

package main

import "github.com/2389/maze-gateway/internal/cli"

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	cli.Execute(cli.GatewayService(version))
}
