// Package reminder delivers the daily practice notification. The dispatcher
// runs once a minute and notifies every profile whose preferred time matches
// the current wall clock in that profile's own timezone.
package reminder

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/memorizabiblia/memoriza-api/internal/remotestore"
)

const (
	DefaultTitle = "MemorizaBíblia 🧠"
	DefaultBody  = "Hora de praticar! Vamos revisar o versículo de hoje?"
)

// ErrTargetGone is returned by a Notifier when the target is permanently
// unreachable; the dispatcher prunes it.
var ErrTargetGone = errors.New("notification target gone")

// Notifier is the delivery transport collaborator.
type Notifier interface {
	Notify(ctx context.Context, target, title, body string) error
}

// TargetSource lists reminder-enabled profiles and prunes dead targets.
type TargetSource interface {
	ListReminderProfiles(ctx context.Context) ([]remotestore.ReminderProfile, error)
	DeleteReminderTarget(ctx context.Context, accountID, target string) error
}

type Dispatcher struct {
	source    TargetSource
	notifier  Notifier
	scheduler *gocron.Scheduler
	now       func() time.Time
}

func NewDispatcher(source TargetSource, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		source:    source,
		notifier:  notifier,
		scheduler: gocron.NewScheduler(time.UTC),
		now:       time.Now,
	}
}

// Start schedules the per-minute check. Non-blocking.
func (d *Dispatcher) Start() {
	d.scheduler.Every(1).Minute().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		d.RunOnce(ctx)
	})
	d.scheduler.StartAsync()
	log.Println("reminder dispatcher started (1m interval)")
}

func (d *Dispatcher) Stop() {
	d.scheduler.Stop()
}

// RunOnce checks every reminder-enabled profile against the current minute.
func (d *Dispatcher) RunOnce(ctx context.Context) {
	profiles, err := d.source.ListReminderProfiles(ctx)
	if err != nil {
		log.Printf("failed to list reminder profiles: %v", err)
		return
	}

	now := d.now()
	for _, p := range profiles {
		loc, err := ParseTimezoneLocation(p.Timezone)
		if err != nil {
			log.Printf("skipping account %s: invalid timezone %q", p.AccountID, p.Timezone)
			continue
		}

		local := now.In(loc)
		if local.Hour() != p.Hour || local.Minute() != p.Minute {
			continue
		}

		for _, target := range p.Targets {
			if err := d.notifier.Notify(ctx, target, DefaultTitle, DefaultBody); err != nil {
				log.Printf("failed to notify %s: %v", target, err)
				if errors.Is(err, ErrTargetGone) {
					if err := d.source.DeleteReminderTarget(ctx, p.AccountID, target); err != nil {
						log.Printf("failed to prune target %s: %v", target, err)
					}
				}
				continue
			}
			log.Printf("reminder sent to account %s", p.AccountID)
		}
	}
}
