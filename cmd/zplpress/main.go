// zplpress builds ZPL label documents from YAML definitions, sends them to
// printers and runs printer diagnostics.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	printerPath string
	outputPath  string
	dbPath      string
)

func main() {
	root := &cobra.Command{
		Use:           "zplpress",
		Short:         "Build and print ZPL labels, query printer diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&printerPath, "printer", "p", "", "printer definition YAML")

	root.AddCommand(renderCommand(), sendCommand(), previewCommand(),
		infoCommand(), statusCommand(), configCommand(), errorsCommand(),
		formatsCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
