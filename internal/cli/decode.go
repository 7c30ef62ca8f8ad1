package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/allergen-profile/internal/allergen"
)

func init() {
	cmd := &cobra.Command{
		Use:   "decode <mask>",
		Short: "Render an allergy mask",
		Long:  "Render an allergy mask given as a number (17) or as names (EGGS|TMTO).",
		Args:  cobra.ExactArgs(1),
		Run:   runDecode,
	}

	RootCmd.AddCommand(cmd)
}

func runDecode(cmd *cobra.Command, args []string) {
	mask, err := allergen.Parse(args[0])
	if err != nil {
		exitErr("decode", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), allergen.Set(mask))
}
