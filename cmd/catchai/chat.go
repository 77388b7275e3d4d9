package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
	"github.com/CrisMolina12/CatchaiIA/internal/tui"
	"github.com/CrisMolina12/CatchaiIA/internal/watcher"
)

var watchDir string

var chatCmd = &cobra.Command{
	Use:   "chat [file.pdf ...]",
	Short: "Open the interactive chat",
	Long: `Load the given PDFs and open the chat view.

With --watch, every PDF in the directory is loaded and the documents are
re-ingested whenever the directory's PDFs change.

Commands inside the chat:
  /summary, /compare <aspect>, /themes, /docs, /reset, /quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&watchDir, "watch", "w", "", "Directory of PDFs to load and watch")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	dir := watchDir
	if dir == "" {
		dir = a.cfg.Watch.Dir
	}
	files := args
	if dir != "" && len(files) == 0 {
		if files, err = watcher.ListPDFs(dir); err != nil {
			return err
		}
	}
	if len(files) > 0 {
		res, err := a.orch.Ingest(ctx, files)
		if err != nil {
			return ingestError(res, err)
		}
		printIngest(cmd, res)
	}

	p := tea.NewProgram(tui.New(ctx, a.orch, tui.WithRebind(a.rebind)), tea.WithAltScreen())

	if dir != "" {
		w, err := watcher.New(0, a.logger)
		if err != nil {
			return err
		}
		defer w.Close()
		batches, err := w.Watch(ctx, dir)
		if err != nil {
			return err
		}
		go func() {
			for files := range batches {
				a.logger.Info("documents changed", zap.String("dir", dir), zap.Int("files", len(files)))
				p.Send(tui.FilesChangedMsg{Files: files})
			}
		}()
	}

	_, err = p.Run()
	return err
}

func printIngest(cmd *cobra.Command, res *domain.IngestResult) {
	out := cmd.OutOrStdout()
	for _, d := range res.Documents {
		fmt.Fprintf(out, "%s: %d pages, %d chunks, %.2f MB\n",
			d.Name, d.PageCount, d.ChunkCount, float64(d.ByteSize)/(1024*1024))
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "skipped %s: %v\n", s.Name, s.Err)
	}
	fmt.Fprintf(out, "%d files, %d pages, %d chunks\n", len(res.Documents), res.TotalPages(), res.TotalChunks)
}

func ingestError(res *domain.IngestResult, err error) error {
	if errors.Is(err, domain.ErrNoDocuments) && res != nil {
		for _, s := range res.Skipped {
			err = fmt.Errorf("%w\n  %s: %v", err, s.Name, s.Err)
		}
	}
	return err
}
