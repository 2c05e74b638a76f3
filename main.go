// Package main is the entry point for the lolpos CLI tool, which fetches
// League of Legends match timelines and extracts normalized player positions.
package main

import "github.com/pable/go-lol-positions/cmd"

func main() {
	cmd.Execute()
}
