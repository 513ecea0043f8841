// Package main provides the Tutor CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Tutor %s\n", version)
		return
	}

	fmt.Println("Tutor - Trainers for Gorgonia Networks")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/quadratic and examples/regression for usage.")
}
