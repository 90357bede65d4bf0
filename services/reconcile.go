package services

import (
	"context"
	"fmt"
	"time"

	"sportify/models"

	"gorm.io/gorm"
)

// ClassDrift is a class whose enrollCount disagrees with its enrollment rows.
type ClassDrift struct {
	ClassID     uint   `json:"classId"`
	ClassName   string `json:"className"`
	EnrollCount int    `json:"enrollCount"`
	Enrollments int64  `json:"enrollments"`
}

// ReconcileReport lists the inconsistencies a partially failed settlement can leave behind.
type ReconcileReport struct {
	CheckedClasses int          `json:"checkedClasses"`
	Drifts         []ClassDrift `json:"drifts"`
	OrphanPayments []uint       `json:"orphanPayments"`
	GeneratedAt    time.Time    `json:"generatedAt"`
}

// Reconcile compares class counters with enrollment rows and finds payments
// that produced no enrollment. It never writes.
func Reconcile(ctx context.Context, db *gorm.DB) (*ReconcileReport, error) {
	db = db.WithContext(ctx)

	var classes []models.Class
	if err := db.Select("id", "name", "enroll_count").Order("id").Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}

	var counts []struct {
		ClassID uint
		Total   int64
	}
	if err := db.Model(&models.Enrollment{}).
		Select("class_id, COUNT(*) AS total").
		Group("class_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	perClass := make(map[uint]int64, len(counts))
	for _, row := range counts {
		perClass[row.ClassID] = row.Total
	}

	report := &ReconcileReport{
		CheckedClasses: len(classes),
		Drifts:         []ClassDrift{},
		OrphanPayments: []uint{},
		GeneratedAt:    time.Now().UTC(),
	}
	for _, class := range classes {
		if int64(class.EnrollCount) != perClass[class.ID] {
			report.Drifts = append(report.Drifts, ClassDrift{
				ClassID:     class.ID,
				ClassName:   class.Name,
				EnrollCount: class.EnrollCount,
				Enrollments: perClass[class.ID],
			})
		}
	}

	if err := db.Model(&models.Payment{}).
		Where("NOT EXISTS (SELECT 1 FROM enrollments WHERE enrollments.payment_id = payments.id)").
		Order("id").
		Pluck("id", &report.OrphanPayments).Error; err != nil {
		return nil, fmt.Errorf("find orphan payments: %w", err)
	}

	return report, nil
}
