package models

// UserModel is an admin user. Capabilities gate access to options pages and
// meta box saves ("manage_options", "edit_posts", ...).
type UserModel struct {
	Base
	Username     string         `json:"username"  gorm:"uniqueIndex;not null"`
	PasswordHash string         `json:"-"         gorm:"not null"`
	DisplayName  string         `json:"display_name"`
	Capabilities CapabilityList `json:"capabilities" gorm:"type:longtext"`
}

func (UserModel) TableName() string { return "users" }

// HasCapability reports whether the user holds the given capability.
func (u *UserModel) HasCapability(capability string) bool {
	return u.Capabilities.Has(capability)
}
