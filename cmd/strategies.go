package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alloc-bench/alloc-bench/sim/strategy"
)

var strategiesConfigPath string

// strategiesCmd lists the known mnemonics and the configured strategies per section
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List strategy mnemonics and the configured strategy of each section",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := loadStore(strategiesConfigPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		printStrategies(cmd.OutOrStdout(), store)
	},
}

// printStrategies writes the registry and the store's sections. Identifiers
// the registry does not know are shown as UNKNOWN.
func printStrategies(w io.Writer, store *strategy.Store) {
	fmt.Fprintln(w, "Mnemonics:")
	for _, f := range strategy.Families {
		for _, code := range strategy.Mnemonics(f) {
			id, _ := strategy.ResolveMnemonic(f, code)
			fmt.Fprintf(w, "  %-18s %-3s %s\n", f, code, id)
		}
	}
	fmt.Fprintln(w, "Configured:")
	for _, section := range store.Sections() {
		fmt.Fprintf(w, "  %s:\n", section)
		for _, f := range strategy.Families {
			id, ok := store.Identifier(section, f)
			if !ok {
				fmt.Fprintf(w, "    %-18s (not set)\n", f.ConfigKey())
				continue
			}
			fmt.Fprintf(w, "    %-18s %-7s %s\n", f.ConfigKey(), strategy.ResolveIdentifier(f, id), id)
		}
	}
}

func init() {
	strategiesCmd.Flags().StringVar(&strategiesConfigPath, "config", "", "Strategy configuration file (YAML or JSON); built-in default when empty")
}
