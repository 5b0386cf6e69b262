// Package batch groups logical dashboard writes into bounded batches
// with inter-batch pacing so the persistence sink's rate limit is never
// exceeded. The classification and aggregation layers know nothing
// about rate limits; they hand this scheduler a flat list of writes.
package batch

import (
	"context"
	"log/slog"
	"time"

	"folio/internal/sheets"
)

const (
	DefaultGroupSize = 10
	DefaultDelay     = 500 * time.Millisecond
)

type (
	// Format is a best-effort styling operation applied after all value
	// writes have been flushed.
	Format struct {
		Location string
		Style    sheets.CellStyle
	}

	// Result summarizes a flush. Failed groups do not abort the run;
	// the final report surfaces their count.
	Result struct {
		Groups        int
		FailedGroups  int
		FailedFormats int
	}

	Scheduler struct {
		sink  sheets.GridWriter
		size  int
		delay time.Duration

		// sleep is replaceable in tests to observe pacing without
		// actually waiting.
		sleep func(time.Duration)
	}
)

// NewScheduler returns a scheduler writing groups of size writes with
// delay between groups. A non-positive size or negative delay falls
// back to the defaults.
func NewScheduler(sink sheets.GridWriter, size int, delay time.Duration) *Scheduler {
	if size <= 0 {
		size = DefaultGroupSize
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Scheduler{sink: sink, size: size, delay: delay, sleep: time.Sleep}
}

// WithSleep replaces the pacing sleep. Tests use it to observe pacing
// without waiting.
func (s *Scheduler) WithSleep(sleep func(time.Duration)) *Scheduler {
	s.sleep = sleep
	return s
}

// Flush partitions writes into fixed-size groups and applies each group
// as one atomic sink call, pausing between groups except after the
// last. A failed group is logged and counted; the remaining groups are
// still attempted. Formats run after all value writes, each one
// independently best-effort.
func (s *Scheduler) Flush(ctx context.Context, writes []sheets.ValueWrite, formats []Format) Result {
	var res Result
	groups := partition(writes, s.size)
	res.Groups = len(groups)

	for i, group := range groups {
		slog.DebugContext(ctx, "Flushing write group",
			"group", i+1, "groups", len(groups), "writes", len(group))
		if err := s.sink.BatchWrite(ctx, group); err != nil {
			res.FailedGroups++
			slog.ErrorContext(ctx, "Write group failed, continuing",
				"group", i+1, "groups", len(groups), "error", err)
		}
		if i < len(groups)-1 && s.delay > 0 {
			s.sleep(s.delay)
		}
	}

	for _, f := range formats {
		if err := s.sink.ApplyFormat(ctx, f.Location, f.Style); err != nil {
			res.FailedFormats++
			slog.WarnContext(ctx, "Format failed, continuing",
				"location", f.Location, "error", err)
		}
	}
	return res
}

func partition(writes []sheets.ValueWrite, size int) [][]sheets.ValueWrite {
	var groups [][]sheets.ValueWrite
	for start := 0; start < len(writes); start += size {
		end := start + size
		if end > len(writes) {
			end = len(writes)
		}
		groups = append(groups, writes[start:end])
	}
	return groups
}
