package adminController

import (
	"fmt"
	"time"

	"sportify/middleware"
	"sportify/models"
	"sportify/services"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// Stats returns platform-wide counters for the admin dashboard.
func Stats(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.WithContext(c.UserContext())

		var totalUsers, totalInstructors, totalPayments, totalEnrollments int64
		counts := []struct {
			query *gorm.DB
			dest  *int64
		}{
			{tx.Model(&models.User{}), &totalUsers},
			{tx.Model(&models.User{}).Where("role = ?", models.RoleInstructor), &totalInstructors},
			{tx.Model(&models.Payment{}), &totalPayments},
			{tx.Model(&models.Enrollment{}), &totalEnrollments},
		}
		for _, q := range counts {
			if err := q.query.Count(q.dest).Error; err != nil {
				return fmt.Errorf("count: %w", err)
			}
		}

		var byStatus []struct {
			Status string
			Total  int64
		}
		if err := tx.Model(&models.Class{}).
			Select("status, COUNT(*) AS total").
			Group("status").
			Scan(&byStatus).Error; err != nil {
			return fmt.Errorf("group classes by status: %w", err)
		}
		classes := fiber.Map{
			string(models.ClassStatusPending):  int64(0),
			string(models.ClassStatusApproved): int64(0),
			string(models.ClassStatusDenied):   int64(0),
		}
		for _, row := range byStatus {
			classes[row.Status] = row.Total
		}

		monthStart := now.BeginningOfMonth()
		revenue, err := sumPrice(tx, time.Time{})
		if err != nil {
			return err
		}
		monthRevenue, err := sumPrice(tx, monthStart)
		if err != nil {
			return err
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats.", fiber.Map{
			"users":        totalUsers,
			"instructors":  totalInstructors,
			"classes":      classes,
			"payments":     totalPayments,
			"enrollments":  totalEnrollments,
			"revenue":      revenue,
			"monthRevenue": monthRevenue,
			"monthStart":   monthStart,
		})
	}
}

// sumPrice totals payment prices dated at or after since. A zero since sums everything.
func sumPrice(tx *gorm.DB, since time.Time) (float64, error) {
	query := tx.Model(&models.Payment{})
	if !since.IsZero() {
		query = query.Where("date >= ?", since)
	}

	var total float64
	if err := query.Select("COALESCE(SUM(price), 0)").Row().Scan(&total); err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}

// Reconcile reports drift between class counters and enrollment rows.
func Reconcile(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := services.Reconcile(c.UserContext(), db)
		if err != nil {
			return err
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Reconciliation report.", report)
	}
}
