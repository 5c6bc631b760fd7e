package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/sleuth/pkg/casestore"
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Inspect saved cases",
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // read-only

		cases, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tQUERY\tRESULTS\tUPDATED")
		for _, c := range cases {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, c.Name, c.Query, c.ResultCount, c.UpdatedAt.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var caseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved case as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportCase(cmd, args[0], casestore.FormatJSON)
	},
}

var caseExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved case as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format") //nolint:errcheck // flag is registered
		return exportCase(cmd, args[0], format)
	},
}

func init() {
	caseExportCmd.Flags().String("format", casestore.FormatJSON, "output format: json or yaml")
	caseCmd.AddCommand(caseListCmd, caseShowCmd, caseExportCmd)
	rootCmd.AddCommand(caseCmd)
}

func exportCase(cmd *cobra.Command, id, format string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close() //nolint:errcheck // read-only

	c, err := store.Load(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("case %s: %w", id, err)
	}
	return casestore.Export(os.Stdout, c, format)
}
