package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/drift/internal/output"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [flags]",
	Short: "List mined templates from a snapshot",
	Long: `Load a snapshot and print every cluster's template and match count,
most-matched first.

Examples:
  drift templates --snapshot state.json
  drift templates --snapshot state.json --format table
  drift templates --snapshot state.json --format json`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	templatesCmd.Flags().String("snapshot", "", "snapshot file holding the trained state")

	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	engine, err := engineFromSnapshotFlag(cmd)
	if err != nil {
		return err
	}

	writer := output.New(os.Stdout, output.ParseFormat(viper.GetString("format")))
	return writer.WriteClusters(engine.Clusters())
}
