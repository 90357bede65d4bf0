package models

import "time"

// Role values stored on User.Role. An empty role is a plain student.
const (
	RoleNone       = ""
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"default:''" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Photo string `gorm:"default:''" json:"photo"`
	Role  string `gorm:"type:varchar(20);default:''" json:"role"`

	// EnrollCount is only set once the user has been promoted to instructor.
	EnrollCount *int `gorm:"default:null" json:"enrollCount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
