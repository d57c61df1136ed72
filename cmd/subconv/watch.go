package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/subconv/internal/bootstrap"
	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/service"
	"github.com/creamcroissant/subconv/internal/source"
)

var (
	watchOutput  string
	watchProfile bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <input>",
	Short: "Re-convert a link file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "write the document to this file instead of stdout")
	watchCmd.Flags().BoolVar(&watchProfile, "profile", false, "render a complete profile with proxy groups and rules")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	infra, err := bootstrap.BuildInfrastructure(oneShotConfig(cfg), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger := infra.Logger.With("component", "watch", "input", args[0])

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := source.NewWatcher(args[0], source.WatchOptions{Logger: logger})
	logger.Info("watching input")
	return watcher.Run(ctx, func(text string) {
		regenerate(ctx, infra.Conversion, logger, text, func(doc string) error {
			return writeDocument(watchOutput, cmd.OutOrStdout(), doc)
		})
	})
}

// regenerate converts one snapshot of the input. The previous output is
// left untouched when the snapshot yields no proxies.
func regenerate(ctx context.Context, svc service.ConversionService, logger *slog.Logger, text string, write func(doc string) error) {
	result, err := svc.Convert(ctx, text)
	if err != nil {
		logger.Warn("conversion failed", "error", err)
		return
	}
	report := result.Report
	if status := report.Status(); status != convert.StatusOK {
		logger.Warn("output not updated", "status", status.String(), "reason", status.Message(), "failed", report.Failed())
		return
	}

	doc := report.Document
	if watchProfile {
		if doc, err = svc.RenderProfile(report); err != nil {
			logger.Warn("render profile failed", "error", err)
			return
		}
	}
	if err := write(doc); err != nil {
		logger.Error("write output failed", "error", err)
		return
	}
	logger.Info("output updated", "succeeded", report.Succeeded(), "failed", report.Failed())
}
