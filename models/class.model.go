package models

import "time"

// ClassStatus is the moderation state of a class.
type ClassStatus string

const (
	ClassStatusPending  ClassStatus = "pending"
	ClassStatusApproved ClassStatus = "approved"
	ClassStatusDenied   ClassStatus = "denied"
)

// Class is a sellable class with a fixed number of seats.
type Class struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"type:varchar(255);not null" json:"className"`
	Image string  `gorm:"default:''" json:"image"`
	Price float64 `gorm:"not null;default:0" json:"price"`

	// Instructor is denormalized: both the user id and the email are kept on the class.
	InstructorID    uint   `gorm:"index" json:"instructorId"`
	InstructorName  string `gorm:"index" json:"instructorName"`
	InstructorEmail string `gorm:"index" json:"instructorEmail"`

	AvailableSeats int         `gorm:"not null;default:0;check:available_seats >= 0" json:"availableSeats"`
	EnrollCount    int         `gorm:"not null;default:0" json:"enrollCount"`
	Status         ClassStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Feedback       string      `gorm:"type:text" json:"feedback"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Class) TableName() string {
	return "classes"
}
