// Package main is the entry point for the tennismetrics CLI tool, which
// ingests per-frame tennis tracking output and computes rally statistics.
package main

import "github.com/pable/go-tennis-metrics/cmd"

func main() {
	cmd.Execute()
}
