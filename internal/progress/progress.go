package progress

import (
	log "github.com/sirupsen/logrus"
)

const defaultInterval = 10000

// Reporter observes feed generation, one Advance per offer written and one
// Finish after the offers block closes. It is a side channel only:
// implementations must never fail the run.
type Reporter interface {
	Advance()
	Finish()
}

// Nop discards all ticks.
type Nop struct{}

func (Nop) Advance() {}

func (Nop) Finish() {}

// Multi fans ticks out to several reporters.
type Multi []Reporter

func (m Multi) Advance() {
	for _, r := range m {
		r.Advance()
	}
}

func (m Multi) Finish() {
	for _, r := range m {
		r.Finish()
	}
}

// LogReporter logs a progress line every interval offers. The total is an
// advisory estimate taken at run start; the actual offer count may differ.
type LogReporter struct {
	total    int64
	interval int64
	count    int64
}

func NewLogReporter(total int64, interval int) *LogReporter {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &LogReporter{
		total:    total,
		interval: int64(interval),
	}
}

func (r *LogReporter) Advance() {
	r.count++
	if r.count%r.interval != 0 {
		return
	}
	if r.total > 0 {
		log.Infof("Wrote %d/%d offers (%.1f%%)", r.count, r.total, float64(r.count)/float64(r.total)*100)
	} else {
		log.Infof("Wrote %d offers", r.count)
	}
}

func (r *LogReporter) Finish() {
	log.Infof("Finished: %d offers written", r.count)
}

// Count returns how many offers have been reported so far.
func (r *LogReporter) Count() int64 {
	return r.count
}
