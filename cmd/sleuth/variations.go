package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/sleuth/pkg/fuzzy"
)

var variationsCmd = &cobra.Command{
	Use:   "variations <name>",
	Short: "Print the spelling variants searched for a name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		m := fuzzy.New(fuzzy.WithLogger(logger))
		for _, v := range m.Variations(strings.Join(args, " ")) {
			fmt.Fprintln(os.Stdout, v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variationsCmd)
}
