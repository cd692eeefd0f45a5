package progress

import "testing"

type countingReporter struct {
	advanced int
	finished int
}

func (r *countingReporter) Advance() { r.advanced++ }

func (r *countingReporter) Finish() { r.finished++ }

func TestLogReporter_Counts(t *testing.T) {
	r := NewLogReporter(100, 10)
	for i := 0; i < 25; i++ {
		r.Advance()
	}
	r.Finish()

	if r.Count() != 25 {
		t.Errorf("expected 25 ticks, got %d", r.Count())
	}
}

func TestLogReporter_DefaultInterval(t *testing.T) {
	r := NewLogReporter(0, 0)
	if r.interval != defaultInterval {
		t.Errorf("expected default interval %d, got %d", defaultInterval, r.interval)
	}
}

func TestMulti_FansOut(t *testing.T) {
	a := &countingReporter{}
	b := &countingReporter{}
	m := Multi{a, b}

	for i := 0; i < 3; i++ {
		m.Advance()
	}
	m.Finish()

	if a.advanced != 3 || b.advanced != 3 {
		t.Errorf("expected 3 ticks on each reporter, got %d and %d", a.advanced, b.advanced)
	}
	if a.finished != 1 || b.finished != 1 {
		t.Errorf("expected Finish on each reporter, got %d and %d", a.finished, b.finished)
	}
}

func TestNop(t *testing.T) {
	var r Reporter = Nop{}
	r.Advance()
	r.Finish()
}
