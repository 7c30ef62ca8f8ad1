package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/allergen-profile/internal/journal"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show changes recorded in a journal file",
		Long:  "Print the allergy changes stored in a journal file as JSON. Needs --journal or $ALLERGEN_PROFILE_JOURNAL.",
		Args:  cobra.NoArgs,
		Run:   runHistory,
	}

	cmd.Flags().StringP("profile", "p", "", "Filter by person name")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("profile")

	dsn := getJournalDSN()
	if dsn == journal.MemoryDSN {
		exitErr("history", fmt.Errorf("no journal file (use --journal or $ALLERGEN_PROFILE_JOURNAL)"))
	}

	j, err := journal.Open(cmd.Context(), dsn)
	if err != nil {
		exitErr("open journal", err)
	}
	defer j.Close()

	entries, err := j.List(cmd.Context(), name)
	if err != nil {
		exitErr("history", err)
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	b, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
