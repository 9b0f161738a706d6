package ehr

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/careops/internal/platform/cache"
)

// CachedSource decorates a CalendarSource with a short-TTL redis cache so
// bursts of availability requests do not hammer the external EHR. A nil
// cache passes every call through.
type CachedSource struct {
	source CalendarSource
	cache  *cache.Cache
}

func NewCachedSource(source CalendarSource, c *cache.Cache) *CachedSource {
	return &CachedSource{source: source, cache: c}
}

func (s *CachedSource) AppointmentsForDate(ctx context.Context, practitionerExtID string, date time.Time) ([]BookedInterval, error) {
	key := fmt.Sprintf("ehr:appts:%s:%s", practitionerExtID, date.Format("2006-01-02"))

	var cached []BookedInterval
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	intervals, err := s.source.AppointmentsForDate(ctx, practitionerExtID, date)
	if err != nil {
		// Errors are never cached; the next request retries the EHR.
		return nil, err
	}

	s.cache.Set(ctx, key, intervals)
	return intervals, nil
}
