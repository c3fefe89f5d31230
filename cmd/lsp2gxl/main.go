package main

import (
	"os"

	"github.com/uni-bremen-agst/LSP2GXL/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
