// Command trueform compiles declarative part documents: it validates
// and normalizes intent, builds the feature dependency graph, computes
// a deterministic build schedule, executes it against a kernel
// backend, and can package the result into a build archive.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trueform",
	Short: "Compile declarative part documents into kernel build results",
	Long: `trueform turns a declarative part document (JSON or YAML) into a
scheduled, executed build: it validates and normalizes the intent,
infers the feature dependency graph, computes a deterministic build
order, and runs it against a kernel backend.`,
}

func main() {
	rootCmd.AddCommand(
		compileCmd(),
		scheduleCmd(),
		hashCmd(),
		cachekeyCmd(),
		archiveCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
