package sources

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

type loggingCatalog struct {
	next   Catalog
	logger log.Logger
}

// WithLogging wraps c so every call is logged: failures at warn, successes at debug.
func WithLogging(c Catalog, logger log.Logger) Catalog {
	return &loggingCatalog{next: c, logger: log.With(logger, "component", "catalog")}
}

func (l *loggingCatalog) ListEntries(ctx context.Context) (names []string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			level.Warn(l.logger).Log("method", "ListEntries", "err", err, "took", time.Since(begin))
			return
		}
		level.Debug(l.logger).Log("method", "ListEntries", "count", len(names), "took", time.Since(begin))
	}(time.Now())
	return l.next.ListEntries(ctx)
}

func (l *loggingCatalog) GetEntryMetadata(ctx context.Context, name string) (meta *Metadata, err error) {
	defer func(begin time.Time) {
		if err != nil {
			level.Warn(l.logger).Log("method", "GetEntryMetadata", "name", name, "err", err, "took", time.Since(begin))
			return
		}
		level.Debug(l.logger).Log("method", "GetEntryMetadata", "name", name, "took", time.Since(begin))
	}(time.Now())
	return l.next.GetEntryMetadata(ctx, name)
}
