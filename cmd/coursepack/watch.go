package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/coursepack/internal/config"
	"github.com/jackzampolin/coursepack/internal/watch"
)

var (
	watchInputs   inputFlags
	watchDebounce = watch.DefaultDebounce
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the textbook whenever an input changes",
	Long: `Watch builds the textbook, then rebuilds it whenever the lesson plan,
bibliography, reference map, config file or a source PDF changes.
Failed rebuilds are logged and the previous textbook is left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		// Input paths are fixed for the session; cover settings follow the
		// config file.
		paths := watchInputs.resolve(cmd, cfg)
		reload := make(chan struct{}, 1)
		if mgr.ConfigFile() != "" {
			mgr.OnChange(func(*config.Config) {
				logger.Info("config changed", "file", mgr.ConfigFile())
				select {
				case reload <- struct{}{}:
				default:
				}
			})
			mgr.WatchConfig()
		}

		files := []string{paths.LessonPlan}
		for _, p := range []string{paths.Bibliography, paths.References} {
			if p != "" {
				files = append(files, p)
			}
		}
		var dirs []string
		if paths.References != "" {
			dirs = append(dirs, paths.Sources)
		}

		w := &watch.Watcher{Files: files, Dirs: dirs, Debounce: watchDebounce, Logger: logger}
		return w.Run(cmd.Context(), reload, func(ctx context.Context) error {
			res, err := build(ctx, paths, mgr.Get().Cover, watchInputs.processor(), logger)
			if err != nil {
				return err
			}
			logger.Info("textbook updated", "output", res.Output, "pages", res.Pages)
			return nil
		})
	},
}

func init() {
	watchInputs.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before rebuilding")
	rootCmd.AddCommand(watchCmd)
}
