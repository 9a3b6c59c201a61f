package domain

// RoleAdmin grants read access to every user and todo. Compared exactly.
const RoleAdmin = "admin"

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"uniqueIndex;not null"`
	HashedPassword string `gorm:"not null"`
	FirstName      string
	LastName       string
	IsActive       bool `gorm:"not null;default:true"`
	Role           *string
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the stored role is exactly "admin".
func (u *User) IsAdmin() bool {
	return u != nil && u.Role != nil && *u.Role == RoleAdmin
}
