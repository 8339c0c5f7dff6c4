package application

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lk2023060901/binpack-go/internal/binpack/cache"
	"github.com/lk2023060901/binpack-go/pkg/binpack"
	zlog "github.com/lk2023060901/binpack-go/pkg/log"
	"github.com/lk2023060901/binpack-go/pkg/metrics"
	zviper "github.com/lk2023060901/binpack-go/pkg/util/viper"
)

const (
	// DefaultConfigPath 为缺省配置文件路径，文件不存在时使用内置缺省值。
	DefaultConfigPath = "./binpack.yaml"
	// ConfigPathEnv 指定配置文件路径的环境变量。
	ConfigPathEnv = "BINPACK_CONFIG_FILE_PATH"

	envPrefix = "BINPACK"

	// CodecLoggerName 为编解码器使用的模块 Logger 名称。
	CodecLoggerName = "codec"
)

// CodecConfig 对应配置文件中的 codec 段。
type CodecConfig struct {
	CacheSize int  `mapstructure:"cache-size" json:"cache-size"`
	Strict    bool `mapstructure:"strict" json:"strict"`
	Workers   int  `mapstructure:"workers" json:"workers"`
}

// Application 持有配置、日志与共享的 Codec。
type Application struct {
	cfg      *zviper.Config
	codecCfg CodecConfig
	loggers  map[string]*zlog.MLogger
	codec    *binpack.Codec
}

// New creates a new Application instance.
func New() *Application {
	return &Application{}
}

// Init 加载配置并初始化日志、监控与 Codec。
//
// 配置文件路径优先级从低到高：
//  1. 缺省：./binpack.yaml（不存在时忽略）
//  2. 环境变量：BINPACK_CONFIG_FILE_PATH
//  3. 命令行：--config <path>，即 configFlag
func (a *Application) Init(configFlag string, overrides ...binpack.Option) error {
	cfg, err := a.loadConfig(configFlag)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.codecCfg = CodecConfig{
		CacheSize: cfg.GetInt("codec.cache-size"),
		Strict:    cfg.GetBool("codec.strict"),
		Workers:   cfg.GetInt("codec.workers"),
	}

	if err := a.initLogging(); err != nil {
		return err
	}
	metrics.Register(prometheus.DefaultRegisterer)

	opts := []binpack.Option{
		binpack.WithStrict(a.codecCfg.Strict),
		binpack.WithLogger(a.Logger(CodecLoggerName)),
	}
	if a.codecCfg.CacheSize > 0 {
		opts = append(opts, binpack.WithCacheSize(a.codecCfg.CacheSize))
	}
	if a.codecCfg.Workers > 0 {
		opts = append(opts, binpack.WithWorkers(a.codecCfg.Workers))
	}
	codec, err := binpack.New(append(opts, overrides...)...)
	if err != nil {
		return fmt.Errorf("init codec: %w", err)
	}
	a.codec = codec

	zlog.Debug("application initialized",
		zlog.FieldComponent("application"),
		zap.String("config", cfg.Path()),
		zap.Any("codec", a.codecCfg))
	return nil
}

// Close 释放 Codec 并刷新日志。
func (a *Application) Close() {
	if a.codec != nil {
		a.codec.Close()
	}
	_ = zlog.Sync()
	zlog.Cleanup()
}

// Config returns the loaded configuration, if any.
func (a *Application) Config() *zviper.Config {
	return a.cfg
}

// CodecConfig 返回生效的 codec 配置。
func (a *Application) CodecConfig() CodecConfig {
	return a.codecCfg
}

// Codec 返回按配置创建的 Codec，Init 之前为 nil。
func (a *Application) Codec() *binpack.Codec {
	return a.codec
}

// Gatherer 返回注册了编解码指标的 Gatherer。
func (a *Application) Gatherer() prometheus.Gatherer {
	return prometheus.DefaultGatherer
}

// Logger returns a named logger created from configuration.
// If the name is unknown, it falls back to the global logger.
func (a *Application) Logger(name string) *zlog.MLogger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return zlog.With(zlog.FieldModule(name))
}

// loadConfig resolves config file path and loads it via viper wrapper.
func (a *Application) loadConfig(configFlag string) (*zviper.Config, error) {
	configPath, optional := DefaultConfigPath, true
	if envPath := strings.TrimSpace(os.Getenv(ConfigPathEnv)); envPath != "" {
		configPath, optional = envPath, false
	}
	if configFlag != "" {
		configPath, optional = configFlag, false
	}

	cfg := zviper.New(envPrefix)
	cfg.SetDefault("codec.cache-size", cache.DefaultSize)
	cfg.SetDefault("codec.strict", false)
	cfg.SetDefault("codec.workers", 0)
	if err := cfg.LoadFile(configPath, optional); err != nil {
		return nil, fmt.Errorf("failed to load config file %q: %w", configPath, err)
	}
	return cfg, nil
}

// initLogging initializes global and module-level loggers.
func (a *Application) initLogging() error {
	if err := a.initGlobalLoggerFromEnv(); err != nil {
		return err
	}
	if err := a.initModuleLoggersFromConfig(); err != nil {
		return err
	}
	return nil
}

// initGlobalLoggerFromEnv configures the process-wide logger based on BINPACK_LOG_* env vars.
//
//   - BINPACK_LOG_ENABLE: "1"/"true" to enable outputs; others treated as disabled.
//   - BINPACK_LOG_LEVEL: log level (default "info").
//   - BINPACK_LOG_STDOUT: log to stdout instead of stderr (default false).
//   - BINPACK_LOG_FILE_DIR: log directory.
//   - BINPACK_LOG_FILE: log file name (empty means no file).
//   - BINPACK_LOG_FORMAT: log format ("console" or "json", default "console").
func (a *Application) initGlobalLoggerFromEnv() error {
	enabled := getenvBool("BINPACK_LOG_ENABLE", false)
	stdout := getenvBool("BINPACK_LOG_STDOUT", false)

	cfg := &zlog.Config{
		Level:  getenvDefault("BINPACK_LOG_LEVEL", "info"),
		Format: getenvDefault("BINPACK_LOG_FORMAT", "console"),
		Stdout: stdout,
		Stderr: !stdout,
		File: zlog.FileLogConfig{
			RootPath: getenvDefault("BINPACK_LOG_FILE_DIR", ""),
			Filename: getenvDefault("BINPACK_LOG_FILE", ""),
		},
	}

	// When not enabled, direct all outputs to a discarded sink.
	if !enabled {
		cfg.Stdout = false
		cfg.Stderr = false
		cfg.File.Filename = ""
	}

	logger, props, err := zlog.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("init global logger from env: %w", err)
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}

// initModuleLoggersFromConfig creates named loggers from the "logging" section.
//
// Example:
//
//	logging:
//	  codec:
//	    level: debug
//	    stderr: true
//	    file:
//	      rootpath: ./logs
//	      filename: codec.log
func (a *Application) initModuleLoggersFromConfig() error {
	raw := make(map[string]zlog.Config)
	if err := a.cfg.UnmarshalKey("logging", &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	a.loggers = make(map[string]*zlog.MLogger, len(raw))
	for name, lc := range raw {
		cfgCopy := lc
		logger, _, err := zlog.InitLogger(&cfgCopy)
		if err != nil {
			return fmt.Errorf("init module logger %q: %w", name, err)
		}
		a.loggers[name] = &zlog.MLogger{Logger: logger.With(zlog.FieldModule(name))}
	}
	return nil
}

func getenvDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getenvBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
