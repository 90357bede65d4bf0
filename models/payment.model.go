package models

import (
	"time"

	"gorm.io/datatypes"
)

// Payment records one checkout. The id lists are kept as submitted.
type Payment struct {
	ID            uint                      `gorm:"primaryKey" json:"id"`
	Email         string                    `gorm:"index;not null" json:"email"`
	ClassIDs      datatypes.JSONSlice[uint] `json:"classIds"`
	InstructorIDs datatypes.JSONSlice[uint] `json:"instructorIds"`
	CartIDs       datatypes.JSONSlice[uint] `json:"cartIds"`
	TransactionID string                    `gorm:"type:varchar(255);index" json:"transactionId"`
	Price         float64                   `gorm:"not null;default:0" json:"price"`
	Date          time.Time                 `gorm:"index" json:"date"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

func (Payment) TableName() string {
	return "payments"
}
