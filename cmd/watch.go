package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	internalApp "github.com/haierkeys/obsidian-halo-publisher/internal/app"
	"github.com/haierkeys/obsidian-halo-publisher/internal/service"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type watchFlags struct {
	interval time.Duration // Polling interval // 轮询间隔
}

func init() {
	watchEnv := new(watchFlags)

	var watchCommand = &cobra.Command{
		Use:   "watch <note|folder>... [--interval 2s]",
		Short: "Publish notes whenever they are saved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a, err := buildApp(cfg)
			if err != nil {
				return err
			}

			notes := watcher.New()
			// Only notify write events.
			// 只通知写入事件。
			notes.FilterOps(watcher.Write)
			notes.IgnoreHiddenFiles(true)
			defer notes.Close()

			for _, arg := range args {
				p, err := a.Vault.Rel(arg)
				if err != nil {
					return err
				}
				abs := filepath.Join(a.Vault.BasePath(), filepath.FromSlash(p))
				if fileurl.IsDir(abs) {
					err = notes.AddRecursive(abs)
				} else {
					err = notes.Add(abs)
				}
				if err != nil {
					return errors.Wrap(err, "watch "+arg)
				}
			}
			if cfg.Archive.Enable {
				archive := filepath.Join(a.Vault.BasePath(), filepath.FromSlash(a.ArchiveService.Folder()))
				if fileurl.IsExist(archive) {
					if err := notes.Ignore(archive); err != nil {
						a.Logger().Warn("archive folder not ignored", zap.Error(err))
					}
				}
			}

			conf := watcher.New()
			// Set MaxEvents to 1 to receive at most 1 event in each listening cycle
			// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
			conf.SetMaxEvents(1)
			conf.FilterOps(watcher.Write)
			defer conf.Close()
			if err := conf.Add(cfg.File); err != nil {
				a.Logger().Error("config watcher file error", zap.Error(err))
			}

			go func() {
				if err := notes.Start(watchEnv.interval); err != nil {
					a.Logger().Error("note watcher start error", zap.Error(err))
				}
			}()
			go func() {
				if err := conf.Start(time.Second * 5); err != nil {
					a.Logger().Error("config watcher start error", zap.Error(err))
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "watching %d file(s), press Ctrl+C to stop\n", len(notes.WatchedFiles()))

			for {
				select {
				case event := <-notes.Event:
					if event.IsDir() || !strings.EqualFold(filepath.Ext(event.Path), ".md") {
						continue
					}
					publishOnSave(ctx, a, event.Path)

				case event := <-conf.Event:
					a.Logger().Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))

					// Re-initialize app, keeping the publish cache
					// 重新初始化 app，保留发布缓存
					next, err := reloadApp(cfg.File, a.PublishCache)
					if err != nil {
						a.Logger().Error("config reload failed, keeping the previous config", zap.Error(err))
						continue
					}
					a = next

				case err := <-notes.Error:
					a.Logger().Error("note watcher error", zap.Error(err))
				case err := <-conf.Error:
					a.Logger().Error("config watcher error", zap.Error(err))
				case <-ctx.Done():
					a.Logger().Info("Received shutdown signal, stop watching")
					return nil
				}
			}
		},
	}

	rootCmd.AddCommand(watchCommand)
	fs := watchCommand.Flags()
	fs.DurationVarP(&watchEnv.interval, "interval", "i", 2*time.Second, "polling interval")
}

// publishOnSave publishes a saved note. Failures are already reported through
// the notifier, so they are only logged here.
// publishOnSave 发布已保存的笔记，失败已通过通知输出，这里只记录日志
func publishOnSave(ctx context.Context, a *internalApp.App, abs string) {
	p, err := a.Vault.Rel(abs)
	if err != nil {
		a.Logger().Warn("changed file is outside the vault", zap.String("file", abs))
		return
	}
	res, err := a.PublishService.Publish(ctx, p, false)
	switch {
	case errors.Is(err, service.ErrPublishInProgress):
		a.Logger().Debug("publish skipped, another one is running", zap.String(logger.FieldPath, p))
	case err != nil:
		a.Logger().Warn("publish failed", zap.String(logger.FieldPath, p), zap.Error(err))
	case res.NoChange:
		a.Logger().Debug("note unchanged", zap.String(logger.FieldPath, p))
	default:
		a.Logger().Info("note published", zap.String(logger.FieldPath, p), zap.String(logger.FieldPostName, res.PostName))
	}
}

func reloadApp(file string, cache *service.PublishCache) (*internalApp.App, error) {
	cfg, _, err := internalApp.LoadConfig(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return buildApp(cfg, internalApp.WithPublishCache(cache))
}
