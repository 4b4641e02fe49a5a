package gormlogger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormLog "gorm.io/gorm/logger"
)

func newTestLogger(buf *bytes.Buffer, slow time.Duration) *GormLogger {
	h := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewGormLogger(slog.New(h), slow, true)
}

func TestTrace(t *testing.T) {
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT * FROM posts", 3 }

	t.Run("error", func(t *testing.T) {
		var buf bytes.Buffer
		newTestLogger(&buf, 0).Trace(ctx, time.Now(), query, errors.New("no such table"))
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "no such table")
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		var buf bytes.Buffer
		newTestLogger(&buf, 0).Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
		assert.Contains(t, buf.String(), "level=DEBUG")
	})

	t.Run("slow", func(t *testing.T) {
		var buf bytes.Buffer
		newTestLogger(&buf, time.Millisecond).Trace(ctx, time.Now().Add(-time.Second), query, nil)
		assert.Contains(t, buf.String(), "SLOW SQL")
		assert.Contains(t, buf.String(), "rowsCount=3")
	})

	t.Run("silent", func(t *testing.T) {
		var buf bytes.Buffer
		newTestLogger(&buf, 0).LogMode(gormLog.Silent).Trace(ctx, time.Now(), query, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}

func TestLogModeKeepsSettings(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, time.Second).LogMode(gormLog.Info).(*GormLogger)
	assert.Equal(t, time.Second, l.SlowThreshold)
	assert.True(t, l.ParameterizedQueries)

	l.Info(context.Background(), "migrated %d tables", 3)
	assert.Contains(t, buf.String(), "migrated 3 tables")
}

func TestParamsFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, 0)
	_, params := l.ParamsFilter(context.Background(), "SELECT ?", 1)
	assert.Nil(t, params)

	l.ParameterizedQueries = false
	_, params = l.ParamsFilter(context.Background(), "SELECT ?", 1)
	assert.Equal(t, []interface{}{1}, params)
}
