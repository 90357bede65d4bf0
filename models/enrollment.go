package models

import "time"

const EnrollmentStatusPaid = "paid"

// Enrollment is one row per (payment, class). Class fields are copied at purchase time.
type Enrollment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PaymentID       uint      `gorm:"index;not null" json:"paymentId"`
	Email           string    `gorm:"index;not null" json:"email"`
	ClassID         uint      `gorm:"index;not null" json:"classId"`
	Image           string    `json:"image"`
	ClassName       string    `json:"className"`
	InstructorName  string    `json:"instructorName"`
	InstructorEmail string    `json:"instructorEmail"`
	Price           float64   `json:"price"`
	Date            time.Time `json:"date"`
	TransactionID   string    `gorm:"type:varchar(255)" json:"transactionId"`
	Status          string    `gorm:"type:varchar(20);default:'paid'" json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
