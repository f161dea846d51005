// main is the entry point for the pitfeat CLI.
package main

import (
	"github.com/huangsam/pitfeat/cmd"
	"github.com/huangsam/pitfeat/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("pitfeat", err)
	}
}
