package main

import (
	"os"

	"github.com/alshwehdya-source/quiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
