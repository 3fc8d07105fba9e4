package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	p, err := Setup(ctx, config.TelemetryConfig{ServiceName: "glow-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.Tracer.IsEnabled())
	assert.False(t, p.Meter.IsEnabled())
	assert.False(t, p.Logs.IsEnabled())
	assert.False(t, p.Profiler.IsEnabled())
	assert.NotNil(t, p.Tracer.Tracer("test"))
	assert.NotNil(t, p.Meter.Meter("test"))

	require.NoError(t, p.Shutdown(ctx))
	// second shutdown is harmless
	require.NoError(t, p.Shutdown(ctx))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "glow"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address is required")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application name is required")
}

func TestProfileTypes(t *testing.T) {
	cfg := ProfilerConfig{ProfileCPU: true, ProfileAlloc: true}
	assert.Len(t, cfg.profileTypes(), 3)
	assert.Empty(t, ProfilerConfig{}.profileTypes())
}

func TestLoggerProvider_ZapCoreDisabledIsNop(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
	require.NoError(t, err)

	core := lp.ZapCore(zapcore.DebugLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(&levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel})

	logger.Info("dropped")
	logger.With(zap.String("order", "GS-1")).Warn("kept")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "GS-1", entries[0].ContextMap()["order"])
}

func TestStartServiceSpanAndRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer(TracerName).Start(context.Background(), "order.checkout")
	RecordError(span, errors.New("out of stock"))
	RecordError(span, nil)
	assert.NotEmpty(t, TraceID(ctx))
	span.End()

	assert.Empty(t, TraceID(context.Background()))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "out of stock", ended[0].Status().Description)
}

func newTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestDBTracingPlugin_Register(t *testing.T) {
	t.Run("disabled registers nothing", func(t *testing.T) {
		db := newTracingTestDB(t)
		p := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
		require.NoError(t, p.Register(db))
		assert.Nil(t, db.Callback().Query().Get("otel_timing:after_query"))
	})

	t.Run("enabled registers timing callbacks", func(t *testing.T) {
		db := newTracingTestDB(t)
		p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())
		require.NoError(t, p.Register(db))
		assert.NotNil(t, db.Callback().Query().Get("otel_timing:before_query"))
		assert.NotNil(t, db.Callback().Raw().Get("otel_timing:after_raw"))
		assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	})
}

func TestDBTracingPlugin_AfterFlagsSlowQuery(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 10 * time.Millisecond}, zap.NewNop())
	tx := newTracingTestDB(t).WithContext(ctx)
	tx.Statement.Table = "products"
	tx.Error = errors.New("boom")
	p.after(tx)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.Equal(t, "products", attrs["db.sql.table"].AsString())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}
