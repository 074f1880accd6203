package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/future"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor composes conditional action trees",
	Long: `Arbor inspects YAML action tree definitions.
Executors and named conditions are stubbed, so trees can be checked and drawn
without the host program that registers the real ones.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSlice("async", nil, "Executor names to stub as asynchronous")
}

// loadStubbed loads a tree definition against a registry that knows every
// name the file references.
func loadStubbed(path string, async []string) (*arbor.Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read action tree: %w", err)
	}
	doc, err := compiler.Decode(data)
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry()
	executors, conditions := doc.References()
	for _, name := range executors {
		if slices.Contains(async, name) {
			reg.RegisterAsync(name, func(ctx context.Context, s domain.Scope) *future.Future {
				return future.Resolve(nil)
			})
			continue
		}
		reg.RegisterSync(name, func(ctx context.Context, s domain.Scope) (any, error) {
			return nil, nil
		})
	}
	for _, name := range conditions {
		reg.RegisterCondition(name, func(domain.Scope) bool { return false })
	}

	return arbor.LoadFile(path, reg)
}
