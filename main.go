// Package main is the entry point for the tf2stats CLI tool, which parses
// TF2 demo files and computes player/round performance metrics.
package main

import "github.com/leighmacdonald/tf2stats/cmd"

func main() {
	cmd.Execute()
}
