package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a tree definition for consistency",
	Long:  `Parses the tree, compiles its conditions and reports structural problems such as missing executors or reserved result keys.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		async, _ := cmd.Flags().GetStringSlice("async")
		if err := runValidate(args[0], async); err != nil {
			fmt.Println(tui.Failure(fmt.Sprintf("Validation failed: %v", err)))
			os.Exit(1)
		}
		fmt.Println(tui.Success("Tree is valid!"))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string, async []string) error {
	_, err := loadStubbed(path, async)
	return err
}
