package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	IsSuperAdmin bool      `gorm:"not null;default:false" json:"is_super_admin"`
	IsPremium    bool      `gorm:"not null;default:false" json:"is_premium"`
	IsDisabled   bool      `gorm:"not null;default:false" json:"is_disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	// Review scope for admins; ignored for every other role.
	Permissions AdminPermissions `gorm:"embedded;embeddedPrefix:perm_" json:"admin_permissions"`
}

func (User) TableName() string {
	return "users"
}
