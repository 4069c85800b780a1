package cmd

import (
	"fmt"
	"strconv"

	"github.com/reillypo/nps-explorer/internal/build"
	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List the states of the park directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		states, err := explorer.States(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range states.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var sitesCmd = &cobra.Command{
	Use:   "sites <state>",
	Short: "List the national sites of a state.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sites, err := explorer.Sites(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, separator)
		fmt.Fprintln(out, "List of national sites in "+args[0])
		fmt.Fprintln(out, separator)
		printSites(out, sites)
		return nil
	},
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby <state> <number>",
	Short: "List places near the n-th site of a state.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil || n < 1 {
			return fmt.Errorf("site number must be a positive integer, got %q", args[1])
		}

		sites, err := explorer.Sites(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if n > len(sites) {
			return fmt.Errorf("%s lists %d sites, got %d", args[0], len(sites), n)
		}

		site := sites[n-1]
		result, err := explorer.Nearby(cmd.Context(), site)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, separator)
		fmt.Fprintln(out, "Places near "+site.Name())
		fmt.Fprintln(out, separator)
		printPlaces(out, result.Places)
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the local cache.",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and entries. Keys are shown as fingerprints.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats := explorer.CacheStats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache file: %s\n", stats.Path)
		fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
		fmt.Fprintf(out, "Document size: %d bytes\n", stats.DocumentBytes)
		for _, item := range stats.Items {
			fmt.Fprintf(out, "  %s  %-4s  %d bytes\n", item.Fingerprint, item.Kind, item.SizeBytes)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache document.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := explorer.CacheStats().Path
		if err := explorer.ClearCache(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nps %s (built %s)\n", build.FullVersion(), build.BuildTime)
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
