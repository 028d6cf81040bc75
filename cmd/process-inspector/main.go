package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/blingmoon/process-inspector/inspector"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rootCmd := newRootCmd(cfg)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if inspector.IsStructuralError(err) {
			slog.Error("process state is inconsistent, check the engine tables", "err", err)
		} else {
			slog.Error("dump process state failed", "err", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(cfg *Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "process-inspector [command] (flags)",
		Short:         "read-only process instance introspection tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	dumpCmd := &cobra.Command{
		Use:   "dump <process-instance-id>",
		Short: "print the execution tree of a process instance",
		Long: `
Print the current state of a process instance: the execution tree, the
current activity and transition of every execution, local variables, pending
event subscriptions and pending jobs. The engine tables are only read.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), cfg, cmd.OutOrStdout(), args[0])
		},
	}
	dumpCmd.Flags().StringVar(
		&cfg.DSN, "dsn", cfg.DSN, "sqlite dsn of the engine database")
	dumpCmd.Flags().StringVar(
		&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address of the shared job definition cache")
	dumpCmd.Flags().DurationVar(
		&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "job definition cache ttl (0, never expire)")
	dumpCmd.Flags().StringVarP(
		&cfg.Format, "format", "f", cfg.Format, "output format: text or json")
	dumpCmd.Flags().IntVar(
		&cfg.BaseIndent, "base-indent", cfg.BaseIndent, "indent of the root execution")
	dumpCmd.Flags().IntVar(
		&cfg.IndentStep, "indent-step", cfg.IndentStep, "indent added for every child level")
	dumpCmd.Flags().StringVar(
		&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	rootCmd.AddCommand(dumpCmd)
	return rootCmd
}

func runDump(ctx context.Context, cfg *Config, out io.Writer, processInstanceID string) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	service, closeFn, err := newService(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	switch cfg.Format {
	case formatJSON:
		root, err := service.QueryProcessStateTree(ctx, processInstanceID)
		if err != nil {
			return errors.WithMessagef(err, "QueryProcessStateTree failed, processInstanceID: %s", processInstanceID)
		}
		b, err := inspector.RenderProcessStateJSON(root)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	default:
		report, err := service.DumpProcessStateWithParams(ctx, &inspector.DumpProcessStateParams{
			ProcessInstanceID: processInstanceID,
			Options: &inspector.RenderOptions{
				BaseIndent: cfg.BaseIndent,
				IndentStep: cfg.IndentStep,
			},
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, report)
		return err
	}
}

func newService(cfg *Config) (inspector.ProcessStateService, func(), error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.LogLevel == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(sqlite.Open(readOnlyDSN(cfg.DSN)), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open database failed, dsn: %s", cfg.DSN)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "get sql.DB failed")
	}
	closers := []func() error{sqlDB.Close}

	var cache inspector.JobDefinitionCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, redisClient.Close)
		cache = inspector.NewRedisJobDefinitionCache(redisClient, "")
	} else {
		cache = inspector.NewLocalJobDefinitionCache()
	}
	repo := inspector.NewCachedProcessStateRepo(inspector.NewProcessStateRepo(db), cache, cfg.CacheTTL)
	closeFn := func() {
		for _, closer := range closers {
			if err := closer(); err != nil {
				slog.Warn(fmt.Sprintf("close failed, err: %v", err))
			}
		}
	}
	return inspector.NewProcessStateService(repo), closeFn, nil
}
