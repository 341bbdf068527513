// nestpack — greedy 2D bin packer for cutting-stock layouts, panel
// nesting, and texture atlases.
//
// Build:
//
//	go build -o nestpack ./cmd/nestpack
package main

import (
	"os"

	"github.com/piwi3910/nestpack/internal/cli"
)

// Injected via ldflags at build time.
var (
	version = "dev"
	commit  = ""
)

func main() {
	cli.SetVersion(version, commit)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
