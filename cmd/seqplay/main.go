// Command seqplay plays point-cloud sequences through the particle sync
// engine against an in-memory scene.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/pointseq/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
