package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sportify/config"
	"sportify/models"

	"gorm.io/gorm"
)

// ErrClassesFull is returned when at least one purchased class had no seat left.
var ErrClassesFull = errors.New("one or more classes are full")

// Submission is a checkout request for a set of classes.
type Submission struct {
	Email         string
	ClassIDs      []uint
	InstructorIDs []uint
	CartIDs       []uint
	TransactionID string
	Price         float64
	Date          time.Time
}

// Notifier is told about every successful settlement.
type Notifier interface {
	SendEnrollmentConfirmation(ctx context.Context, email string, classNames []string) error
}

type InsertResult struct {
	InsertedID uint `json:"insertedId"`
}

type UpdateResult struct {
	RequestedCount int   `json:"requestedCount"`
	ModifiedCount  int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

type InsertManyResult struct {
	InsertedCount int    `json:"insertedCount"`
	InsertedIDs   []uint `json:"insertedIds"`
}

// SettlementResult aggregates what every sub-operation of a settlement did.
type SettlementResult struct {
	InsertResult     InsertResult     `json:"insertResult"`
	UpdateResult     UpdateResult     `json:"updateResult"`
	InstructorResult UpdateResult     `json:"instructorResult"`
	DeleteResult     DeleteResult     `json:"deleteResult"`
	EnrollmentResult InsertManyResult `json:"enrollmentResult"`
}

// Settler turns a Submission into a payment, seat decrements, popularity
// counters, an emptied cart and enrollment rows.
//
// In compensating mode the writes run one after another and only the payment
// row is removed when a class turns out to be full; seats already taken by
// that attempt stay taken. In transactional mode the whole sequence is one
// database transaction.
type Settler struct {
	DB       *gorm.DB
	Mode     string
	Notifier Notifier
}

func NewSettler(db *gorm.DB, mode string, notifier Notifier) *Settler {
	if mode == "" {
		mode = config.SettlementTransactional
	}
	return &Settler{DB: db, Mode: mode, Notifier: notifier}
}

// Settle runs the settlement. A capacity conflict returns ErrClassesFull and no result.
func (s *Settler) Settle(ctx context.Context, sub Submission) (*SettlementResult, error) {
	var (
		result *SettlementResult
		err    error
	)

	if s.Mode == config.SettlementCompensating {
		result, err = settle(s.DB.WithContext(ctx), sub, true)
	} else {
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			result, txErr = settle(tx, sub, false)
			return txErr
		})
	}
	if err != nil {
		if errors.Is(err, ErrClassesFull) {
			log.Printf("[SETTLEMENT] %s: transaction %s rejected, a class is full", sub.Email, sub.TransactionID)
		}
		return nil, err
	}

	log.Printf("[SETTLEMENT] %s: payment %d settled %d classes", sub.Email, result.InsertResult.InsertedID, result.EnrollmentResult.InsertedCount)
	s.notify(ctx, sub.Email, result.EnrollmentResult.InsertedIDs)
	return result, nil
}

func settle(db *gorm.DB, sub Submission, compensate bool) (*SettlementResult, error) {
	result := &SettlementResult{}

	payment := models.Payment{
		Email:         sub.Email,
		ClassIDs:      sub.ClassIDs,
		InstructorIDs: sub.InstructorIDs,
		CartIDs:       sub.CartIDs,
		TransactionID: sub.TransactionID,
		Price:         sub.Price,
		Date:          sub.Date,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	result.InsertResult.InsertedID = payment.ID

	// The seat filter is evaluated per row by the store, so concurrent buyers
	// of a last seat cannot both pass it.
	seats := db.Model(&models.Class{}).
		Where("id IN ? AND available_seats > 0", sub.ClassIDs).
		Updates(map[string]any{
			"available_seats": gorm.Expr("available_seats - 1"),
			"enroll_count":    gorm.Expr("enroll_count + 1"),
		})
	if seats.Error != nil {
		return nil, fmt.Errorf("decrement seats: %w", seats.Error)
	}
	result.UpdateResult = UpdateResult{RequestedCount: len(sub.ClassIDs), ModifiedCount: seats.RowsAffected}

	if seats.RowsAffected != int64(len(sub.ClassIDs)) {
		if compensate {
			if err := db.Delete(&models.Payment{}, payment.ID).Error; err != nil {
				log.Printf("[SETTLEMENT] failed to remove payment %d after capacity conflict: %v", payment.ID, err)
			}
		}
		return nil, ErrClassesFull
	}

	result.InstructorResult.RequestedCount = len(sub.InstructorIDs)
	for _, instructorID := range sub.InstructorIDs {
		res := db.Model(&models.User{}).
			Where("id = ?", instructorID).
			UpdateColumn("enroll_count", gorm.Expr("COALESCE(enroll_count, 0) + 1"))
		if res.Error != nil {
			return nil, fmt.Errorf("increment instructor %d: %w", instructorID, res.Error)
		}
		result.InstructorResult.ModifiedCount += res.RowsAffected
	}

	if len(sub.CartIDs) > 0 {
		res := db.Where("id IN ?", sub.CartIDs).Delete(&models.CartItem{})
		if res.Error != nil {
			return nil, fmt.Errorf("delete cart items: %w", res.Error)
		}
		result.DeleteResult.DeletedCount = res.RowsAffected
	}

	var classes []models.Class
	if err := db.Where("id IN ?", sub.ClassIDs).Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("reload classes: %w", err)
	}
	byID := make(map[uint]models.Class, len(classes))
	for _, class := range classes {
		byID[class.ID] = class
	}

	enrollments := make([]models.Enrollment, 0, len(sub.ClassIDs))
	for _, classID := range sub.ClassIDs {
		class, ok := byID[classID]
		if !ok {
			continue
		}
		enrollments = append(enrollments, models.Enrollment{
			PaymentID:       payment.ID,
			Email:           sub.Email,
			ClassID:         class.ID,
			Image:           class.Image,
			ClassName:       class.Name,
			InstructorName:  class.InstructorName,
			InstructorEmail: class.InstructorEmail,
			Price:           class.Price,
			Date:            sub.Date,
			TransactionID:   sub.TransactionID,
			Status:          models.EnrollmentStatusPaid,
		})
	}

	result.EnrollmentResult.InsertedIDs = []uint{}
	if len(enrollments) > 0 {
		if err := db.Create(&enrollments).Error; err != nil {
			return nil, fmt.Errorf("insert enrollments: %w", err)
		}
		for _, e := range enrollments {
			result.EnrollmentResult.InsertedIDs = append(result.EnrollmentResult.InsertedIDs, e.ID)
		}
	}
	result.EnrollmentResult.InsertedCount = len(enrollments)

	return result, nil
}

func (s *Settler) notify(ctx context.Context, email string, enrollmentIDs []uint) {
	if s.Notifier == nil || len(enrollmentIDs) == 0 {
		return
	}

	var names []string
	if err := s.DB.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id IN ?", enrollmentIDs).
		Pluck("class_name", &names).Error; err != nil {
		log.Printf("[SETTLEMENT] could not load class names for %s: %v", email, err)
		return
	}

	if err := s.Notifier.SendEnrollmentConfirmation(ctx, email, names); err != nil {
		log.Printf("[SETTLEMENT] confirmation email to %s failed: %v", email, err)
	}
}
