// Package main is the entry point for the arrowstats CLI tool, which
// aggregates archery scores into breakdowns, rankings and percentiles.
package main

import "github.com/pable/go-archery-stats/cmd"

func main() {
	cmd.Execute()
}
