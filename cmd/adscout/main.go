// Package main is the entry point for the adscout CLI client.
package main

import (
	"github.com/adscout/adscout/cmd/adscout/cmd"
)

func main() {
	cmd.Execute()
}
