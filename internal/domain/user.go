package domain

// AdminID is the identifier of the administrator account
const AdminID uint = 1

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`                       // Primary key
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"` // Unique login email
	Password string `gorm:"size:100;not null" json:"-"`                 // Salted bcrypt hash
	Name     string `gorm:"size:100" json:"name"`                       // Display name
}

// IsAdmin reports whether the user is the administrator
func (u *User) IsAdmin() bool {
	return u != nil && u.ID == AdminID
}
