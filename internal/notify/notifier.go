// Package notify tells site owners about new leads. Notifications are best
// effort: a failed channel is logged and counted, never surfaced to the visitor.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/models"
	"github.com/evohome/evohome-cms/pkg/httpclient"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"go.uber.org/zap"
)

const notifyTimeout = 30 * time.Second

// Notifier delivers one lead over one channel
type Notifier interface {
	Notify(ctx context.Context, lead models.Lead) error
	Channel() string
}

// Dispatcher fans a lead out to every configured notifier in the background
type Dispatcher struct {
	notifiers []Notifier
	wg        sync.WaitGroup
}

// NewDispatcher keeps the non-nil notifiers
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{}
	for _, n := range notifiers {
		if n != nil {
			d.notifiers = append(d.notifiers, n)
		}
	}
	return d
}

// FromConfig builds a dispatcher with the webhook and email channels that are configured
func FromConfig(cfg *config.Config, client httpclient.Client) *Dispatcher {
	var notifiers []Notifier
	if w := NewWebhookNotifier(cfg.Leads.WebhookURL, client); w != nil {
		notifiers = append(notifiers, w)
	}
	if e := NewEmailNotifier(cfg.SMTP, cfg.Leads.ToEmail); e != nil {
		notifiers = append(notifiers, e)
	}
	return NewDispatcher(notifiers...)
}

// Enabled reports whether any channel is configured
func (d *Dispatcher) Enabled() bool {
	return len(d.notifiers) > 0
}

// Channels lists the configured channel names
func (d *Dispatcher) Channels() []string {
	out := make([]string, 0, len(d.notifiers))
	for _, n := range d.notifiers {
		out = append(out, n.Channel())
	}
	return out
}

// DispatchAsync notifies every channel without blocking the caller. The work
// runs on a fresh context so it outlives the request that created the lead.
func (d *Dispatcher) DispatchAsync(lead models.Lead) {
	for _, n := range d.notifiers {
		d.wg.Add(1)
		go func(n Notifier) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			d.deliver(ctx, n, lead)
		}(n)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n Notifier, lead models.Lead) {
	start := time.Now()
	err := n.Notify(ctx, lead)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.LeadNotifications.WithLabelValues(n.Channel(), "error").Inc()
		logger.Error("Lead notification failed",
			zap.String("channel", n.Channel()),
			zap.String("lead_id", lead.ID),
			zap.Float64("duration", duration),
			zap.Error(err))
		return
	}
	metrics.LeadNotifications.WithLabelValues(n.Channel(), "success").Inc()
	logger.Info("Lead notification sent",
		zap.String("channel", n.Channel()),
		zap.String("lead_id", lead.ID),
		zap.Float64("duration", duration))
}

// Wait blocks until in-flight notifications finish or ctx is done
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
