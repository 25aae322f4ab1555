// Command wikiforge drives the multi-agent wiki publishing pipeline from
// the command line: publishing a topic brief, scanning an output directory
// for unresolved cross-page references, and resuming a checkpointed run.
package main

import (
	"fmt"
	"os"

	"github.com/wikiforge/wikiforge/internal/cli"
)

func main() {
	if len(os.Args) == 1 {
		fmt.Println("wikiforge - multi-agent wiki publishing pipeline")
		return
	}
	os.Exit(cli.Execute())
}
