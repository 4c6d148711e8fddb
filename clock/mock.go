package clock

import (
	"sync"
	"time"
)

// Mock provides a controllable time source for testing
// Tickers fire only when Advance crosses their deadline
type Mock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*mockTicker
}

// NewMock creates a mock clock at the given start time
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

// Now returns the current mocked time
func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTicker registers a ticker firing every d of mocked time
func (m *Mock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &mockTicker{
		clock:    m,
		c:        make(chan time.Time, 1),
		interval: d,
		next:     m.now.Add(d),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Tickers returns the number of live tickers
func (m *Mock) Tickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// Advance moves time forward by d, firing due tickers
// Like time.Ticker, a tick is dropped if the previous one was not consumed
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
	for _, t := range m.tickers {
		for !t.next.After(m.now) {
			select {
			case t.c <- t.next:
			default:
			}
			t.next = t.next.Add(t.interval)
		}
	}
}

func (m *Mock) remove(t *mockTicker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.tickers {
		if cur == t {
			m.tickers = append(m.tickers[:i], m.tickers[i+1:]...)
			return
		}
	}
}

type mockTicker struct {
	clock    *Mock
	c        chan time.Time
	interval time.Duration
	next     time.Time
}

func (t *mockTicker) C() <-chan time.Time { return t.c }
func (t *mockTicker) Stop() { t.clock.remove(t) }
