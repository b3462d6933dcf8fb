package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now time.Time
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *BreakerSuite) breaker(opts ...Option) *Breaker {
	b := New("redis-cache", opts...)
	b.now = func() time.Time { return s.now }
	return b
}

func (s *BreakerSuite) TestStartsClosed() {
	b := s.breaker()
	s.Equal("redis-cache", b.Name())
	s.Equal(StateClosed, b.State())
	s.True(b.Allow())
}

func (s *BreakerSuite) TestOpening() {
	s.Run("opens on the threshold failure only", func() {
		b := s.breaker(WithFailureThreshold(3))
		for i := 0; i < 2; i++ {
			fallback, change := b.RecordFailure()
			s.False(fallback)
			s.False(change.Opened)
		}
		fallback, change := b.RecordFailure()
		s.True(fallback)
		s.True(change.Opened)
		s.True(b.IsOpen())
	})

	s.Run("a success in between restarts the count", func() {
		b := s.breaker(WithFailureThreshold(2))
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		s.False(b.IsOpen())
	})
}

func (s *BreakerSuite) TestProbingAfterCooldown() {
	b := s.breaker(WithFailureThreshold(1), WithSuccessThreshold(2), WithCooldown(30*time.Second))
	b.RecordFailure()
	s.False(b.Allow(), "calls are rejected during the cooldown")

	s.now = s.now.Add(30 * time.Second)
	s.True(b.Allow(), "a probe is let through once the cooldown elapsed")

	s.Run("a failed probe restarts the cooldown", func() {
		_, change := b.RecordFailure()
		s.False(change.Opened)
		s.False(b.Allow())
	})

	s.Run("consecutive successful probes close it", func() {
		s.now = s.now.Add(30 * time.Second)
		primary, change := b.RecordSuccess()
		s.False(primary)
		s.False(change.Closed)

		primary, change = b.RecordSuccess()
		s.True(primary)
		s.True(change.Closed)
		s.Equal(StateClosed, b.State())
	})
}

func (s *BreakerSuite) TestReset() {
	b := s.breaker(WithFailureThreshold(1))
	b.RecordFailure()
	s.Require().True(b.IsOpen())

	b.Reset()
	s.False(b.IsOpen())
	s.True(b.Allow())
}
