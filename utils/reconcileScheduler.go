package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lms/config"
	"lms/database"
	"lms/models"
	"lms/services"
)

func logReconciler(message string) {
	log.Printf("[RECONCILER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializeReconcileScheduler starts the periodic job that recomputes every
// course's cached enrollment_count from the enrollment ledger. The counter is
// maintained transactionally on the write path; this job exists to surface
// and repair drift should any other write path ever touch it.
func InitializeReconcileScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc(config.AppConfig.ReconcileCron, RunCounterReconciliation); err != nil {
		log.Printf("Invalid RECONCILE_CRON %q: %v", config.AppConfig.ReconcileCron, err)
		return c
	}

	c.Start()
	logReconciler("Counter reconciliation scheduled: " + config.AppConfig.ReconcileCron)
	return c
}

// RunCounterReconciliation reconciles all course counters once.
func RunCounterReconciliation() {
	svc := services.NewEnrollmentService(database.Database.Db)

	var courseIDs []uint
	if err := database.Database.Db.Model(&models.Course{}).
		Where("is_deleted = ?", false).
		Pluck("id", &courseIDs).Error; err != nil {
		logReconciler("Failed to list courses: " + err.Error())
		return
	}

	repaired := 0
	for _, id := range courseIDs {
		_, drifted, err := svc.Reconcile(id)
		if err != nil {
			logReconciler("Failed to reconcile course " + err.Error())
			continue
		}
		if drifted {
			repaired++
			log.Printf("[RECONCILER] enrollment_count drift repaired for course %d", id)
		}
	}
	log.Printf("[RECONCILER] Checked %d courses, repaired %d counters", len(courseIDs), repaired)
}
