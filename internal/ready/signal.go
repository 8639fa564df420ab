package ready

import (
	"os"
	"os/signal"
	"sync"
)

// Signal fires each time the process receives one of its signals.
type Signal struct {
	signals []os.Signal
}

// NewSignal creates a source for the given signals, or DefaultSignal when
// none are given.
func NewSignal(signals ...os.Signal) *Signal {
	if len(signals) == 0 {
		signals = []os.Signal{DefaultSignal}
	}
	return &Signal{signals: signals}
}

// Subscribe implements Source.
func (s *Signal) Subscribe(h Handler) (Subscription, error) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, s.signals...)
	sub := &signalSubscription{ch: ch, stop: make(chan struct{})}
	go func() {
		for {
			select {
			case <-sub.stop:
				return
			case <-ch:
				h()
			}
		}
	}()
	return sub, nil
}

type signalSubscription struct {
	ch   chan os.Signal
	stop chan struct{}
	once sync.Once
}

func (s *signalSubscription) Unsubscribe() {
	s.once.Do(func() {
		signal.Stop(s.ch)
		close(s.stop)
	})
}
