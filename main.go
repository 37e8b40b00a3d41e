package main

import (
	"os"

	"github.com/Tameem1/quran-chatbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
