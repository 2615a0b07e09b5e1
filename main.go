package main

import (
	"os"

	"github.com/chiheye/LLMGraphChat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
