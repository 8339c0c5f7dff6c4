package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*MLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &MLogger{Logger: zap.New(core)}, logs
}

func TestWithOperation(t *testing.T) {
	logger, logs := observed(zapcore.DebugLevel)
	ctx := context.WithValue(context.Background(), CtxLogKey, logger)

	ctx = WithOperation(ctx, "unpack", "nlen/A5name")
	Ctx(ctx).Info("decoded", FieldSegment(2))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "unpack", fields[FieldNameOperation])
	assert.Equal(t, "nlen/A5name", fields[FieldNameFormat])
	assert.Equal(t, int64(2), fields[FieldNameSegment])
}

func TestCtxWithoutLogger(t *testing.T) {
	assert.NotNil(t, Ctx(context.Background()))
}

func TestMLoggerWith(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)
	child := logger.With(FieldModule("codec"))
	child.Info("hello")
	logger.Info("plain")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "codec", logs.All()[0].ContextMap()[FieldNameModule])
	assert.NotContains(t, logs.All()[1].ContextMap(), FieldNameModule)
}

func TestRatedWarn(t *testing.T) {
	logger, logs := observed(zapcore.DebugLevel)
	logger.WithRateGroup("binpack-test-warn", 0, 1)

	assert.True(t, logger.RatedWarn(1, "first"))
	assert.False(t, logger.RatedWarn(1, "second"))
	assert.Equal(t, 1, logs.Len())
}

func TestGlobalHelpers(t *testing.T) {
	oldL, oldP := L(), _globalP.Load().(*ZapProperties)
	t.Cleanup(func() { ReplaceGlobals(oldL, oldP) })

	core, logs := observer.New(zapcore.DebugLevel)
	ReplaceGlobals(zap.New(core), oldP)

	Debug("worker started", FieldComponent("conc"))
	Error("task panicked", FieldCode("E"))
	With(FieldModule("cli")).Info("done")

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	assert.Equal(t, "cli", logs.All()[2].ContextMap()[FieldNameModule])
}

func TestBinder(t *testing.T) {
	var b Binder
	assert.NotNil(t, b.Logger())

	logger, logs := observed(zapcore.InfoLevel)
	b.SetLogger(logger)
	b.Logger().Info("bound")
	assert.Equal(t, 1, logs.Len())
}

func TestInitLoggerWithWriteSyncer(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Level: "info", Format: "json", DisableTimestamp: true, AsyncWriteEnable: true}
	logger, props, err := InitLoggerWithWriteSyncer(cfg, zapcore.AddSync(&buf))
	require.NoError(t, err)
	assert.Positive(t, cfg.AsyncWriteBufferSize)

	logger.Debug("dropped")
	logger.Info("kept", FieldCode("not_enough_arguments"))
	require.NoError(t, props.Syncer.Sync())
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"code":"not_enough_arguments"`)

	_, _, err = InitLoggerWithWriteSyncer(&Config{Level: "loud"}, zapcore.AddSync(&buf))
	assert.Error(t, err)
}

func TestInitTestLogger(t *testing.T) {
	logger, props, err := InitTestLogger(t, &Config{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, props.Level.Level())
	logger.Warn("visible in test output")
}
