package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// Config 命令行配置, 先读环境变量, 命令行参数覆盖环境变量
type Config struct {
	DSN        string        `env:"PROCESS_INSPECTOR_DSN" envDefault:"workflow.db"`
	RedisAddr  string        `env:"PROCESS_INSPECTOR_REDIS_ADDR"` // 为空使用进程内缓存
	CacheTTL   time.Duration `env:"PROCESS_INSPECTOR_CACHE_TTL" envDefault:"10m"`
	LogLevel   string        `env:"PROCESS_INSPECTOR_LOG_LEVEL" envDefault:"info"`
	Format     string        `env:"PROCESS_INSPECTOR_FORMAT" envDefault:"text"`
	BaseIndent int           `env:"PROCESS_INSPECTOR_BASE_INDENT" envDefault:"0"`
	IndentStep int           `env:"PROCESS_INSPECTOR_INDENT_STEP" envDefault:"4"`
}

func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Format {
	case formatText, formatJSON:
	default:
		return errors.Errorf("unknown format: %s, must be %s or %s", c.Format, formatText, formatJSON)
	}
	if c.DSN == "" {
		return errors.New("dsn is empty")
	}
	return nil
}

// readOnlyDSN 只读打开数据库, 文件不存在时返回错误, 不会创建空库
func readOnlyDSN(dsn string) string {
	if strings.Contains(dsn, "mode=") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&mode=ro"
	}
	return dsn + "?mode=ro"
}

// newLogger 日志输出到stderr, 报告输出到stdout
func newLogger(level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, errors.Wrapf(err, "invalid log level: %s", level)
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.Kitchen,
		Level:      slogLevel,
	})
	return slog.New(handler), nil
}
