package model

import "time"

// User is an employee who can borrow devices and, when IsAdmin, manage them.
type User struct {
	EmployeeID string `gorm:"primaryKey;size:64" json:"employeeId"`
	Name       string `gorm:"size:128;not null" json:"name"`
	Department string `gorm:"size:128" json:"department"`
	// Stored as-is; credential hashing is out of scope for this service.
	Password  string    `gorm:"size:256;not null" json:"-"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"isAdmin"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
