package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"themelab-hq/triton/pkg/runner"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List validation profiles",
	Long: `List the canonical validation profiles with their rule scope,
per-file timeout, and fail level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRULES\tFILE TIMEOUT\tFAIL LEVEL")
		for _, name := range runner.ProfileNames() {
			prof, err := runner.ProfileByName(name)
			if err != nil {
				return err
			}
			scope := "all"
			if prof.Rules != nil {
				scope = fmt.Sprintf("%d selected", len(prof.Rules))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				prof.Name, scope, prof.EffectiveTimeout(), prof.FailLevel)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
