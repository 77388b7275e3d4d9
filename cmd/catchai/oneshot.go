package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CrisMolina12/CatchaiIA/internal/service"
)

var fileFlags []string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question about the given PDFs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Executive summary of the given PDFs",
	Args:  cobra.NoArgs,
	RunE:  runSummarize,
}

var compareCmd = &cobra.Command{
	Use:   "compare <aspect>",
	Short: "Compare the given PDFs along one aspect",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompare,
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Main themes across the given PDFs",
	Args:  cobra.NoArgs,
	RunE:  runThemes,
}

func init() {
	for _, c := range []*cobra.Command{askCmd, summarizeCmd, compareCmd, themesCmd} {
		c.Flags().StringSliceVarP(&fileFlags, "file", "f", nil, "PDF file to load (repeatable)")
		_ = c.MarkFlagRequired("file")
		rootCmd.AddCommand(c)
	}
}

// withDocuments ingests --file into a throwaway session and runs fn.
func withDocuments(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	res, err := a.orch.Ingest(ctx, fileFlags)
	if err != nil {
		return ingestError(res, err)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %v\n", s.Name, s.Err)
	}
	return fn(ctx, a)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	return withDocuments(cmd, func(ctx context.Context, a *app) error {
		a.session.AppendUser(question)
		res := a.orch.AskQuestion(ctx, question)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Answer)
		if res.Kind != service.KindSuccess {
			return fmt.Errorf("question failed: %s", res.Kind)
		}
		if len(res.Attributions) > 0 {
			fmt.Fprintln(out, "\nSources:")
			for i, at := range res.Attributions {
				fmt.Fprintf(out, "  [%d] %s, page %d\n", i+1, at.SourceDocument, at.PageNumber)
			}
		}
		return nil
	})
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	return withDocuments(cmd, func(ctx context.Context, a *app) error {
		fmt.Fprintln(cmd.OutOrStdout(), a.orch.Summarize(ctx))
		return nil
	})
}

func runCompare(cmd *cobra.Command, args []string) error {
	aspect := strings.Join(args, " ")
	return withDocuments(cmd, func(ctx context.Context, a *app) error {
		fmt.Fprintln(cmd.OutOrStdout(), a.orch.CompareDocuments(ctx, aspect))
		return nil
	})
}

func runThemes(cmd *cobra.Command, _ []string) error {
	return withDocuments(cmd, func(ctx context.Context, a *app) error {
		themes, err := a.orch.Themes(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(themes) == 0 {
			fmt.Fprintln(out, "No specific themes could be identified.")
		}
		for i, th := range themes {
			fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, th.Topic, th.Description)
			if len(th.Documents) > 0 {
				fmt.Fprintf(out, "   in: %s\n", strings.Join(th.Documents, ", "))
			}
		}
		return nil
	})
}
