package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	internalApp "github.com/haierkeys/obsidian-halo-publisher/internal/app"
	"github.com/haierkeys/obsidian-halo-publisher/internal/service"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type publishFlags struct {
	force bool // Publish even if the content is unchanged // 内容未变时也发布
}

func init() {
	publishEnv := new(publishFlags)

	var publishCommand = &cobra.Command{
		Use:   "publish <note> [--force]",
		Short: "Publish a note to Halo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Logger().Sync()

			if err := a.Config().Validate(); err != nil {
				return err
			}

			p, err := notePath(a, args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := a.PublishService.Publish(ctx, p, publishEnv.force)
			if err != nil {
				a.Logger().Debug("publish failed", zap.String(logger.FieldPath, p), zap.Error(err))
				return err
			}
			printPublishResult(cmd, a, res)
			return nil
		},
	}

	rootCmd.AddCommand(publishCommand)
	fs := publishCommand.Flags()
	fs.BoolVarP(&publishEnv.force, "force", "f", false, "publish even if the content is unchanged")
}

func printPublishResult(cmd *cobra.Command, a *internalApp.App, res *service.PublishResult) {
	out := cmd.OutOrStdout()
	if res.NoChange {
		return
	}
	if res.Images != nil && res.Images.Total > 0 {
		fmt.Fprintf(out, "images: %d uploaded, %d cached, %d missing, %d failed\n",
			res.Images.Uploaded, res.Images.CacheHits, res.Images.Missing, res.Images.Failed)
	}
	fmt.Fprintf(out, "post: %s\n", res.PostName)
	if res.ArchivePath != "" {
		fmt.Fprintf(out, "archive: %s\n", res.ArchivePath)
	}
	if res.ArchiveErr != nil {
		a.Logger().Warn("archive failed", zap.Error(res.ArchiveErr))
	}
}
