package definer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestStatsCounters(t *testing.T) {
	s := NewStats(clockwork.NewFakeClock(), 10)

	s.Hit("free_dict")
	s.Hit("free_dict")
	s.Hit("wordnik")
	s.Miss()
	s.Error("rate_limited")

	assert.Equal(t, 4, s.Processed())
	assert.Equal(t, 3, s.Found())
	assert.Equal(t, 2, s.byService["free_dict"])
	assert.Equal(t, 1, s.byService["wordnik"])
	assert.Equal(t, 1, s.errors["rate_limited"])
	assert.Equal(t, 1, s.errors["not_found"], "a miss counts as a not_found error")
}

func TestStatsRateAndETA(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStats(clock, 20)

	for i := 0; i < 10; i++ {
		s.Hit("free_dict")
	}
	clock.Advance(time.Minute)

	assert.InDelta(t, 10.0, s.Rate(), 0.01)
	assert.Equal(t, time.Minute, s.ETA())
}

func TestStatsZeroRate(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStats(clock, 20)

	assert.Zero(t, s.Rate())
	assert.Zero(t, s.ETA())

	clock.Advance(time.Minute)
	assert.Zero(t, s.Rate(), "no processed words means no rate")
}

func TestStatsETADoneIsZero(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewStats(clock, 2)
	s.Hit("free_dict")
	s.Miss()
	clock.Advance(time.Second)

	assert.Zero(t, s.ETA())
}
