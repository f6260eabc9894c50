package telegram

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxInFlight bounds concurrent updates when no limit is given.
const DefaultMaxInFlight = 32

// Dispatcher hands updates to the router, one goroutine per update, with
// at most a fixed number in flight.
type Dispatcher struct {
	router *Router
	group  errgroup.Group
}

// NewDispatcher creates a Dispatcher running at most maxInFlight updates at
// once; maxInFlight <= 0 picks DefaultMaxInFlight.
func NewDispatcher(router *Router, maxInFlight int) *Dispatcher {
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	d := &Dispatcher{router: router}
	d.group.SetLimit(maxInFlight)
	return d
}

// Dispatch routes update in the background, blocking while the limit is
// reached. ctx should outlive the inbound request; Wait blocks until every
// routed update has finished.
func (d *Dispatcher) Dispatch(ctx context.Context, update tgbotapi.Update) {
	d.group.Go(func() error {
		d.router.Route(ctx, update)
		return nil
	})
}

// Wait blocks until in-flight updates finish.
func (d *Dispatcher) Wait() {
	_ = d.group.Wait()
}

// Poll long-polls getUpdates until ctx is cancelled, then waits for
// in-flight updates.
func Poll(ctx context.Context, bot *tgbotapi.BotAPI, d *Dispatcher, timeout time.Duration) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(timeout.Seconds())
	updates := bot.GetUpdatesChan(u)
	slog.Info("telegram polling started", "bot", bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			d.Wait()
			slog.Info("telegram polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				d.Wait()
				return nil
			}
			d.Dispatch(context.WithoutCancel(ctx), update)
		}
	}
}
