package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/coursepack/internal/config"
	"github.com/jackzampolin/coursepack/internal/materials"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a materials directory with a default config",
	Long: `Init creates the conventional materials layout (default ./materials):

  <dir>/pdfs/        put the source PDFs here
  <dir>/output/      the textbook is written here
  <dir>/config.yaml  default configuration

and lists the inputs that still need to be added.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		dir := materials.New(path)
		verb := "Created"
		if dir.Exists() {
			verb = "Using existing"
		}
		if err := dir.EnsureExists(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if _, err := os.Stat(dir.ConfigPath()); os.IsNotExist(err) {
			cfg := config.DefaultConfig()
			cfg.Paths = config.PathsFor(dir)
			if err := config.Write(dir.ConfigPath(), cfg); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote default config to %s\n", dir.ConfigPath())
		}

		missing := dir.Missing()
		if len(missing) == 0 {
			fmt.Fprintf(out, "%s is ready; run coursepack build -m %s\n", dir.Path(), dir.Path())
			return nil
		}
		fmt.Fprintf(out, "%s %s. Still missing:\n", verb, dir.Path())
		for _, m := range missing {
			fmt.Fprintf(out, "  %s\n", m)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
