package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List exclusion zone presets",
	Long: `Lists the built-in exclusion zone presets. Pass a preset name to
'compare --zones' to mask that area, or supply custom normalised
coordinates as 'x,y,width,height[@left|right|both]'.`,
	RunE: runZonesList,
}

var zonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exclusion zone presets",
	RunE:  runZonesList,
}

func init() {
	zonesCmd.AddCommand(zonesListCmd)
	rootCmd.AddCommand(zonesCmd)
}

func runZonesList(cmd *cobra.Command, _ []string) error {
	presets := domain.Presets()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Println("Available presets:")
	for _, name := range names {
		z := presets[name]
		cmd.Printf("  %-18s x=%.2f y=%.2f w=%.2f h=%.2f\n", name, z.X, z.Y, z.Width, z.Height)
	}
	return nil
}
