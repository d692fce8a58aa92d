// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartProfileReconciler runs Reconcile every interval until the returned
// scheduler is shut down.
func (s *ProfileService) StartProfileReconciler(interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			fixed, err := s.Reconcile(ctx)
			if err != nil {
				log.Printf("[Scheduler] Profile reconcile failed: %v", err)
				return
			}
			if fixed > 0 {
				log.Printf("✅ Reconciled %d player profiles", fixed)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("scheduling profile reconcile: %w", err)
	}

	sched.Start()
	return sched, nil
}
