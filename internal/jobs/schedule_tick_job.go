package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/fire22/compliance-backend/internal/services/compliance"
)

// ScheduleTickJob drives the compliance scheduler: every tick it runs
// the due-check over all schedules. The interval should stay sub-daily
// because pre-due notifications match on exact dates.
type ScheduleTickJob struct {
	schedules *compliance.ScheduleService
	interval  time.Duration
	scheduler *gocron.Scheduler
}

// NewScheduleTickJob creates a new schedule tick job
func NewScheduleTickJob(schedules *compliance.ScheduleService, interval time.Duration) *ScheduleTickJob {
	return &ScheduleTickJob{
		schedules: schedules,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start registers the tick and starts the background scheduler. The
// first tick runs immediately so a restart does not wait a full
// interval before catching up overdue schedules.
func (j *ScheduleTickJob) Start() error {
	j.scheduler.SingletonModeAll()

	_, err := j.scheduler.Every(j.interval).StartImmediately().Do(func() {
		j.schedules.RunDueSchedules(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	log.Printf("Compliance schedule tick running every %s", j.interval)
	return nil
}

// Stop stops the background scheduler and waits for a running tick
func (j *ScheduleTickJob) Stop() {
	j.scheduler.Stop()
	log.Println("Compliance schedule tick stopped")
}
