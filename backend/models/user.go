package models

import "time"

// User is a student account. Teachers live in their own table.
type User struct {
	Base
	Email    string   `gorm:"uniqueIndex;not null" json:"email"`
	Password string   `gorm:"not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(16);not null" json:"role"`
}

type Teacher struct {
	Base
	FullName    string    `gorm:"not null" json:"fullName"`
	Gender      string    `gorm:"not null" json:"gender"`
	JoiningDate time.Time `json:"joiningDate"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Phone       string    `json:"phone"`
	Department  string    `json:"department"`
	Level       int       `json:"level"`
	Experience  int       `json:"experience"`
	Courses     []Course  `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"courses"`
}
