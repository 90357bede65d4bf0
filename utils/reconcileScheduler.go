package utils

import (
	"context"
	"log"

	"sportify/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartReconcileScheduler runs the seat/enrollment reconciliation on schedule.
// An empty schedule disables the job and returns a nil scheduler.
func StartReconcileScheduler(schedule string, db *gorm.DB) (*cron.Cron, error) {
	if schedule == "" {
		log.Println("[RECONCILE-SCHEDULER] No schedule configured, reconciliation job disabled")
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { RunReconcile(context.Background(), db) }); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[RECONCILE-SCHEDULER] Reconciliation scheduler started (%s)", schedule)
	return c, nil
}

// RunReconcile logs every inconsistency found by services.Reconcile.
func RunReconcile(ctx context.Context, db *gorm.DB) *services.ReconcileReport {
	log.Println("[RECONCILE-SCHEDULER] Running reconciliation...")

	report, err := services.Reconcile(ctx, db)
	if err != nil {
		log.Printf("[RECONCILE-SCHEDULER] Reconciliation failed: %v", err)
		return nil
	}

	for _, drift := range report.Drifts {
		log.Printf("[RECONCILE-SCHEDULER] class %d (%s): enrollCount=%d but %d enrollments",
			drift.ClassID, drift.ClassName, drift.EnrollCount, drift.Enrollments)
	}
	for _, id := range report.OrphanPayments {
		log.Printf("[RECONCILE-SCHEDULER] payment %d has no enrollments", id)
	}

	log.Printf("[RECONCILE-SCHEDULER] Checked %d classes, %d drifts, %d orphan payments",
		report.CheckedClasses, len(report.Drifts), len(report.OrphanPayments))
	return report
}
