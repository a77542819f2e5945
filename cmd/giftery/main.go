package main

import (
	"fmt"
	"os"

	"github.com/samvad-hq/giftery-client/cmd/giftery/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "giftery: %v\n", err)
		os.Exit(1)
	}
}
