package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the tree visualization",
	Long: `Loads the tree and outputs a Mermaid diagram (graph TD). Nodes listed in --async are drawn as asynchronous.
On a terminal the diagram is rendered as markdown unless --raw is given.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		async, _ := cmd.Flags().GetStringSlice("async")
		raw, _ := cmd.Flags().GetBool("raw")
		pretty := !raw && tui.IsTerminal(os.Stdout)
		if err := runGraph(os.Stdout, args[0], async, pretty); err != nil {
			fmt.Printf("Error loading tree: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	graphCmd.Flags().Bool("raw", false, "Print plain Mermaid even on a terminal")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(w io.Writer, path string, async []string, pretty bool) error {
	eng, err := loadStubbed(path, async)
	if err != nil {
		return err
	}

	out := eng.Mermaid(nil)
	if pretty {
		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		if out, err = render(tui.MermaidBlock(out)); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, out)
	return err
}
