package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/diar-analytics/majlis/pkg/utils/logging"
)

// Close closes the closer and logs the error instead of returning it. Meant
// for defer sites and shutdown closers where the caller has no error path.
// A nil closer is a no-op.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}
