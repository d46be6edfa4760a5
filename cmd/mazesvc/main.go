// ABOUTME: Entry point for the maze grid service
// ABOUTME: Serves maze initialization, cell queries, and cell updates over HTTP

package main

import "github.com/2389/maze-gateway/internal/cli"

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	cli.Execute(cli.MazeService(version))
}
