package models

// DefaultProfileImg is the placeholder avatar assigned to users who
// have not uploaded a profile image.
const DefaultProfileImg = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_1280.png"

// User represents a registered account. The password column always
// holds a bcrypt hash, never plaintext.
type User struct {
	ID         uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   string `json:"-" gorm:"not null"` // No json tag exposure for security
	Name       string `json:"name" gorm:"not null"`
	ProfileImg string `json:"profile_img"`
}

// TableName keeps the table name used by the original schema.
func (User) TableName() string { return "users" }
