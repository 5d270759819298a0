package main

import (
	"os"

	"github.com/mensylisir/procdriver/cmd/procdriver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
