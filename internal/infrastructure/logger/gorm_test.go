package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(t *testing.T, level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func TestGormLogger_TraceQuery(t *testing.T) {
	gl, logs := newObservedGormLogger(t, gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM outlets", 3
	}, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "query", entries[0].Message)
	assert.Equal(t, "SELECT * FROM outlets", entries[0].ContextMap()["sql"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["rows"])
}

func TestGormLogger_TraceError(t *testing.T) {
	gl, logs := newObservedGormLogger(t, gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO registers", 0
	}, errors.New("constraint violation"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "query failed", entries[0].Message)
}

func TestGormLogger_RecordNotFoundSuppressed(t *testing.T) {
	gl, logs := newObservedGormLogger(t, gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM products WHERE id = ?", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Empty(t, logs.All())
}

func TestGormLogger_SlowQuery(t *testing.T) {
	gl, logs := newObservedGormLogger(t, gormlogger.Warn)

	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM inventory", 1000
	}, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "slow query", entries[0].Message)
}

func TestGormLogger_Silent(t *testing.T) {
	gl, logs := newObservedGormLogger(t, gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("ignored"))

	assert.Empty(t, logs.All())
}

func TestGormLogger_TraceIncludesRequestID(t *testing.T) {
	gl, logs := newObservedGormLogger(t, gormlogger.Info)

	ctx := WithRequestID(context.Background(), "req-77")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-77", entries[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(t, gormlogger.Warn)

	quieter := gl.LogMode(gormlogger.Silent)
	require.NotSame(t, gl, quieter)
	assert.Equal(t, gormlogger.Warn, gl.level)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapGormLogLevel(tt.in), "level %q", tt.in)
	}
}
