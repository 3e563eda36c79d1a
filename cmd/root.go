package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	internalApp "github.com/haierkeys/obsidian-halo-publisher/internal/app"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/fileurl"
	"github.com/haierkeys/obsidian-halo-publisher/pkg/logger"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultConfigPath 自动创建配置文件的位置，相对于工作目录
const defaultConfigPath = ".halo-publisher/config.yaml"

type rootFlags struct {
	dir    string // Working directory, usually the vault root // 工作目录，通常为仓库根目录
	config string // Specified configuration file path // 指定要使用的配置文件路径
}

var configDefault string
var rootEnv = new(rootFlags)

var rootCmd = &cobra.Command{
	Use:           "halo-publisher",
	Short:         "Publish Obsidian notes to a Halo blog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if len(rootEnv.dir) > 0 {
			if err := os.Chdir(rootEnv.dir); err != nil {
				return errors.Wrap(err, "failed to change the current working directory")
			}
			bootstrapLogger.Debug("working directory changed", zap.String("dir", rootEnv.dir))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpTemplate()
		cmd.Help()
	},
}

func init() {
	fs := rootCmd.PersistentFlags()
	fs.StringVarP(&rootEnv.dir, "dir", "d", "", "working dir")
	fs.StringVarP(&rootEnv.config, "config", "c", "", "config file")
}

// Execute 执行根命令
func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig finds the config file, creating the default one when none exists
// resolveConfig 查找配置文件，不存在时创建默认配置
func resolveConfig() (string, error) {
	if len(rootEnv.config) > 0 {
		return rootEnv.config, nil
	}

	for _, p := range []string{".halo-publisher/config-dev.yaml", defaultConfigPath, "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")

	if err := fileurl.CreatePath(defaultConfigPath, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "config file auto create error")
	}
	if err := os.WriteFile(defaultConfigPath, []byte(configDefault), 0644); err != nil {
		return "", errors.Wrap(err, "config file auto create writing error")
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", defaultConfigPath))

	return defaultConfigPath, nil
}

// loadConfig 读取配置文件，不做业务校验
func loadConfig() (*internalApp.AppConfig, error) {
	p, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	cfg, realpath, err := internalApp.LoadConfig(p)
	if err != nil {
		return nil, err
	}
	bootstrapLogger.Debug("config loaded", zap.String("path", realpath))
	return cfg, nil
}

// newLogger 根据配置创建运行时日志器
func newLogger(cfg *internalApp.AppConfig) (*zap.Logger, error) {
	level := cfg.Log.Level
	if cfg.Log.Debug {
		level = "debug"
	}
	file := cfg.Log.File
	if file != "" && !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(cfg.File), file)
	}
	return logger.NewLogger(logger.Config{
		Level:      level,
		File:       file,
		Production: cfg.Log.Production,
	})
}

// newApp 加载配置并构建应用容器
func newApp(opts ...internalApp.Option) (*internalApp.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, opts...)
}

func buildApp(cfg *internalApp.AppConfig, opts ...internalApp.Option) (*internalApp.App, error) {
	lg, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]internalApp.Option{
		internalApp.WithNotifier(internalApp.ConsoleNotifier{W: os.Stdout}),
		internalApp.WithStatusBar(internalApp.ConsoleStatusBar{W: os.Stderr}),
	}, opts...)
	return internalApp.NewApp(cfg, lg, opts...)
}

// notePath converts a command line path into a vault relative note path
// notePath 将命令行路径转换为仓库内相对路径
func notePath(a *internalApp.App, arg string) (string, error) {
	return a.Vault.Rel(arg)
}
