package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

func TestParseLevel(t *testing.T) {
	level, err := logging.ParseLevel("debug")
	gt.NoError(t, err)
	gt.Value(t, level).Equal(slog.LevelDebug)

	_, err = logging.ParseLevel("verbose")
	gt.Error(t, err)
}

func TestContextPropagation(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("hello", "key", "value")

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.Value(t, record["msg"]).Equal("hello")
	gt.Value(t, record["key"]).Equal("value")
}

func TestFromFallsBackToDefault(t *testing.T) {
	logger := logging.From(context.Background())
	gt.Value(t, logger).NotNil()
}
