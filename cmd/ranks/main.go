// Command ranks manages gap-free list positions from the command line.
package main

import (
	"os"

	"github.com/mesh-intelligence/ranks/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
