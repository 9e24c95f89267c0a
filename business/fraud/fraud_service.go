package fraud

import (
	"context"
	"linkPulse/domain"
	"linkPulse/pkg/logger"
	"linkPulse/pkg/metrics"
	"linkPulse/pkg/utils"
	"sync"
	"sync/atomic"
	"time"
)

type FraudRepository interface {
	Create(ctx context.Context, event domain.FraudEvent) error
}

// FraudService is the fire-and-forget recorder for blocked/suspicious
// events. Writes go through a bounded queue drained by a single consumer;
// when the queue is full the event is dropped and counted, never blocking
// the request that produced it.
type FraudService struct {
	repo         FraudRepository
	queue        chan domain.FraudEvent
	stop         chan struct{}
	done         chan struct{}
	started      atomic.Bool
	startOnce    sync.Once
	stopOnce     sync.Once
	writeTimeout time.Duration
}

func NewFraudService(repo FraudRepository, queueSize int) *FraudService {
	if queueSize <= 0 {
		queueSize = 1024
	}

	return &FraudService{
		repo:         repo,
		queue:        make(chan domain.FraudEvent, queueSize),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		writeTimeout: 5 * time.Second,
	}
}

// Start launches the consumer goroutine.
func (s *FraudService) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.consume()
	})
}

// Stop signals shutdown, drains the queue and waits for the consumer. Safe
// to call more than once, and without a prior Start.
func (s *FraudService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	if s.started.Load() {
		<-s.done
	}
}

// Report enqueues a fraud event without blocking. Overflow is dropped, and
// so are events reported after Stop; the queue itself is never closed, so a
// late producer cannot panic.
func (s *FraudService) Report(eventType, severity string, meta map[string]any) {
	select {
	case <-s.stop:
		metrics.FraudEventsDropped.Inc()
		return
	default:
	}

	event := domain.FraudEvent{
		ID:        utils.NewID26(),
		EventType: eventType,
		Severity:  severity,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	}

	select {
	case s.queue <- event:
	default:
		metrics.FraudEventsDropped.Inc()
	}
}

func (s *FraudService) consume() {
	defer close(s.done)

	for {
		select {
		case event := <-s.queue:
			s.write(event)
		case <-s.stop:
			// drain what is already queued, then exit
			for {
				select {
				case event := <-s.queue:
					s.write(event)
				default:
					return
				}
			}
		}
	}
}

func (s *FraudService) write(event domain.FraudEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, event); err != nil {
		// swallowed: losing a fraud log entry is acceptable
		logger.Warn("Failed to record fraud event", "event", event.EventType, err)
	}
}
