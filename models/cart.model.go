package models

import "time"

// CartItem is a class a user has selected but not paid for yet. Purchased items are deleted.
type CartItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ClassID         uint      `gorm:"index;not null" json:"classId"`
	Email           string    `gorm:"index;not null" json:"email"`
	ClassName       string    `json:"className"`
	Image           string    `json:"image"`
	Price           float64   `json:"price"`
	InstructorID    uint      `json:"instructorId"`
	InstructorName  string    `json:"instructorName"`
	InstructorEmail string    `json:"instructorEmail"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (CartItem) TableName() string {
	return "carts"
}
