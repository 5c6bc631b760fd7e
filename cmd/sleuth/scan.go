package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

var scanCmd = &cobra.Command{
	Use:   "scan <query>",
	Short: "Search for a name or analyze a URL",
	Long: `scan treats a query starting with http://, https:// or www. as a single page
to analyze; anything else is searched for, along with its spelling variants.
Results are printed as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	addFilterFlags(f)
	f.Bool("save", false, "save the results as a case")
	f.String("case-name", "", "name of the saved case (default: the query)")

	rootCmd.AddCommand(scanCmd)
}

func addFilterFlags(f *pflag.FlagSet) {
	f.StringSlice("category", nil, "only show these categories (web, social, forum, ...)")
	f.StringSlice("access", nil, "only show these access statuses (free, paywall, ...)")
	f.Bool("hide-duplicates", false, "hide results flagged as duplicates")
	f.Bool("hide-adult", false, "hide adult content")
	f.Float64("min-confidence", 0, "minimum confidence score (0-1)")
	f.StringSlice("include-domain", nil, "only show domains containing these strings")
	f.StringSlice("exclude-domain", nil, "hide domains containing these strings")
	f.String("from", "", "only show results found on or after this date (YYYY-MM-DD)")
	f.String("to", "", "only show results found on or before this date (YYYY-MM-DD)")
}

func runScan(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	results, err := a.scanner.Scan(ctx, query, filter)
	if err != nil {
		return fmt.Errorf("scan %q: %w", query, err)
	}

	if save, _ := cmd.Flags().GetBool("save"); save { //nolint:errcheck // flag is registered
		name, _ := cmd.Flags().GetString("case-name") //nolint:errcheck // flag is registered
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck // read-only after save
		c := result.NewCase(name, query)
		c.Results = results
		if err := store.Save(ctx, c); err != nil {
			return fmt.Errorf("save case: %w", err)
		}
		logger.Info("case saved", "id", c.ID, "results", len(results))
	}

	return outputJSON(os.Stdout, results)
}

// filterFromFlags builds a filter, or nil when no filter flag was set.
func filterFromFlags(cmd *cobra.Command) (*result.Filter, error) {
	f := cmd.Flags()
	var flt result.Filter
	set := false

	if v, _ := f.GetStringSlice("category"); len(v) > 0 { //nolint:errcheck // flag is registered
		for _, c := range v {
			flt.Categories = append(flt.Categories, result.Category(strings.ToLower(c)))
		}
		set = true
	}
	if v, _ := f.GetStringSlice("access"); len(v) > 0 { //nolint:errcheck // flag is registered
		for _, a := range v {
			flt.AccessStatuses = append(flt.AccessStatuses, result.AccessStatus(strings.ToLower(a)))
		}
		set = true
	}
	flt.HideDuplicates, _ = f.GetBool("hide-duplicates")  //nolint:errcheck // flag is registered
	flt.HideAdult, _ = f.GetBool("hide-adult")            //nolint:errcheck // flag is registered
	flt.MinConfidence, _ = f.GetFloat64("min-confidence") //nolint:errcheck // flag is registered
	if v, _ := f.GetStringSlice("include-domain"); len(v) > 0 { //nolint:errcheck // flag is registered
		flt.IncludeDomains = v
	}
	if v, _ := f.GetStringSlice("exclude-domain"); len(v) > 0 { //nolint:errcheck // flag is registered
		flt.ExcludeDomains = v
	}
	if flt.HideDuplicates || flt.HideAdult || flt.MinConfidence > 0 || len(flt.IncludeDomains) > 0 || len(flt.ExcludeDomains) > 0 {
		set = true
	}

	var err error
	if flt.From, err = dateFlag(cmd, "from", false); err != nil {
		return nil, err
	}
	if flt.To, err = dateFlag(cmd, "to", true); err != nil {
		return nil, err
	}
	if flt.From != nil || flt.To != nil {
		set = true
	}

	if !set {
		return nil, nil //nolint:nilnil // no filter requested
	}
	return &flt, nil
}

// dateFlag parses a YYYY-MM-DD flag. endOfDay moves the bound to the last
// instant of that day.
func dateFlag(cmd *cobra.Command, name string, endOfDay bool) (*time.Time, error) {
	v, _ := cmd.Flags().GetString(name) //nolint:errcheck // flag is registered
	if v == "" {
		return nil, nil //nolint:nilnil // flag not set
	}
	t, err := time.ParseInLocation(time.DateOnly, v, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
