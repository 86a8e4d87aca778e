package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/mclog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List logging categories",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		for _, e := range mclog.Categories().Entries() {
			kind := "additive"
			if !e.Additive {
				kind = "exclusive"
			}
			fmt.Fprintf(w, "%s\t%s\t%#x\t%s\n", e.Name, kind, uint64(e.Value), e.Help)
		}
	},
}

var severitiesCmd = &cobra.Command{
	Use:   "severities",
	Short: "List severity names and their console codes",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		for _, e := range mclog.Severities().Entries() {
			fmt.Fprintf(w, "%d\t%s\t%c\n", int(e.Value), e.Name, e.Char)
		}
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <expression>",
	Short: "Evaluate a category expression",
	Long: `Evaluate a category expression such as "general,record,noupnp" and show
the resulting additive and subtractive masks and the effective categories.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expr, err := mclog.ParseCategoryExpression(args[0])
		if err != nil {
			return err
		}
		effective := expr.Apply(mclog.CategoryGeneral)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "additive:    %#x %s\n", uint64(expr.Additive), mclog.FormatCategoryMask(expr.Additive))
		fmt.Fprintf(out, "subtractive: %#x\n", uint64(expr.Subtractive))
		fmt.Fprintf(out, "effective:   %#x %s\n", uint64(effective), mclog.FormatCategoryMask(effective))
		return nil
	},
}

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Print the logging flags a child process would receive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := mclog.NewLogger()
		if err := logger.SetConsoleOutput(io.Discard, io.Discard); err != nil {
			return err
		}
		if err := logger.ApplyConfig(cfg); err != nil {
			return err
		}
		defer logger.Shutdown()
		fmt.Fprintln(cmd.OutOrStdout(), logger.CommandLineEcho())
		return nil
	},
}
