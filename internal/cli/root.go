// Package cli implements the allergen-profile CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/allergen-profile/internal/journal"
	"github.com/rcliao/allergen-profile/internal/profile"
	"github.com/rcliao/allergen-profile/internal/session"
)

var revision = "unknown"

var (
	journalDSN string
	configPath string
	dbg        bool
	noColor    bool
)

// RootCmd is the top-level command. Without a subcommand it starts the
// interactive session.
var RootCmd = &cobra.Command{
	Use:     "allergen-profile",
	Short:   "Track a person's allergies as a bitmask",
	Long:    "Interactive allergy tracker. Enter a number to add allergy bits, q to quit, a to list allergies, i for info, c to remove, h for the change history.",
	Version: revision,
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLog(dbg, noColor)
	},
	Run: runSession,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&journalDSN, "journal", "j", "", "Journal database (default: $ALLERGEN_PROFILE_JOURNAL or in-memory)")
	RootCmd.PersistentFlags().BoolVar(&dbg, "dbg", false, "Debug logging to stderr")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color in log output")

	RootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML profile file")
	RootCmd.Flags().String("name", profile.DefaultName, "Person name")
	RootCmd.Flags().Uint8("age", profile.DefaultAge, "Person age")
	RootCmd.Flags().Float32("height", profile.DefaultHeight, "Person height")
	RootCmd.Flags().Float32("weight", profile.DefaultWeight, "Person weight")
}

func getJournalDSN() string {
	if journalDSN != "" {
		return journalDSN
	}
	if env := os.Getenv("ALLERGEN_PROFILE_JOURNAL"); env != "" {
		return env
	}
	return journal.MemoryDSN
}

func runSession(cmd *cobra.Command, args []string) {
	p, err := loadProfile(cmd)
	if err != nil {
		exitErr("load profile", err)
	}

	ctx := cmd.Context()
	j, err := journal.Open(ctx, getJournalDSN())
	if err != nil {
		exitErr("open journal", err)
	}
	defer j.Close()

	s := session.New(session.Config{
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Err:     cmd.ErrOrStderr(),
		Profile: p,
		Journal: j,
	})
	if err := s.Run(ctx); err != nil {
		j.Close()
		exitErr("session", err)
	}
}

// loadProfile builds the profile from the config file, then applies any
// explicitly set flags on top.
func loadProfile(cmd *cobra.Command) (*profile.Profile, error) {
	cfg := profile.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = profile.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name, _ = flags.GetString("name")
	}
	if flags.Changed("age") {
		age, _ := flags.GetUint8("age")
		cfg.Age = &age
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetFloat32("height")
	}
	if flags.Changed("weight") {
		cfg.Weight, _ = flags.GetFloat32("weight")
	}
	return cfg.Build()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
