package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
)

type Config struct {
	QueueSize   int
	Workers     int
	MaxAttempts int
	Backoff     time.Duration
	SendTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 10 * time.Second
	}
	return c
}

// Dispatcher is fire-and-forget: Notify never blocks and delivery failures
// never reach the caller. A nil *Dispatcher drops everything.
type Dispatcher struct {
	cfg      Config
	resolver ContactResolver
	senders  []Sender
	log      zerolog.Logger
	metrics  *metrics.Metrics

	queue  chan Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(
	cfg Config,
	resolver ContactResolver,
	senders []Sender,
	log zerolog.Logger,
	m *metrics.Metrics,
) *Dispatcher {
	cfg = cfg.withDefaults()

	d := &Dispatcher{
		cfg:      cfg,
		resolver: resolver,
		senders:  senders,
		log:      log.With().Str("component", "notify").Logger(),
		metrics:  m,
		queue:    make(chan Event, cfg.QueueSize),
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Notify enqueues ev. Events arriving after Close are dropped.
func (d *Dispatcher) Notify(ev Event) {
	if d == nil || len(d.senders) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().
			Str("kind", string(ev.Kind)).
			Uint("appointment_id", ev.AppointmentID).
			Msg("notifier closed, dropping event")
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().
			Str("kind", string(ev.Kind)).
			Uint("appointment_id", ev.AppointmentID).
			Msg("notification queue full, dropping event")
	}
}

// Close stops accepting events and waits until queued ones are delivered or
// have exhausted their retries.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	client, err := d.resolver.GetClient(ctx, ev.ClientID)
	cancel()
	if err != nil {
		d.log.Error().Err(err).Uint("client_id", ev.ClientID).Msg("resolve notification contact")
		return
	}

	to := Contact{Name: client.Name, Email: client.Email, Phone: client.Phone}
	msg := render(ev, to)

	for _, s := range d.senders {
		if !s.Accepts(to) {
			continue
		}
		if err := d.sendWithRetry(s, to, msg); err != nil {
			d.metrics.Notification(s.Channel(), "failed")
			d.log.Error().Err(err).
				Str("channel", s.Channel()).
				Str("kind", string(ev.Kind)).
				Uint("appointment_id", ev.AppointmentID).
				Msg("notification delivery failed")
			continue
		}
		d.metrics.Notification(s.Channel(), "sent")
	}
}

func (d *Dispatcher) sendWithRetry(s Sender, to Contact, msg Message) error {
	wait := d.cfg.Backoff

	var err error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
		err = s.Send(ctx, to, msg)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == d.cfg.MaxAttempts {
			break
		}

		time.Sleep(wait)
		wait *= 2
	}
	return err
}
