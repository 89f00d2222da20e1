package main

import (
	"os"
)

// -------------------- MAIN --------------------

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
