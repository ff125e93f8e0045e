package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "clipforge <input>",
		Short:        "Cut random portrait segments from a video and enrich them",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "", "Path to a yaml config file")
	root.PersistentFlags().String("out", "", "Output directory root")
	root.Flags().Int("count", 0, "Number of segments")
	root.Flags().Float64("min", 0, "Minimum segment duration in seconds")
	root.Flags().Float64("max", 0, "Maximum segment duration in seconds")
	root.Flags().String("position", "", "Title box position: top, bottom or center")

	watch := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Process every video dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0])
		},
	}
	root.AddCommand(watch)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
