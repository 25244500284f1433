package models

// UserMovie links a user to one of their favorite movies, carrying
// the user's personal rating and note. The composite primary key
// guarantees at most one row per (user, movie) pair. ReviewID is a
// weak reference to an optional Review owned by this row; it is
// cleared together with deleting the Review it points at.
type UserMovie struct {
	UserID     uint     `json:"user_id" gorm:"primaryKey"`
	MovieID    uint     `json:"movie_id" gorm:"primaryKey"`
	UserRating *float64 `json:"user_rating,omitempty"`
	UserNote   *string  `json:"user_note,omitempty"`
	ReviewID   *string  `json:"review_id,omitempty" gorm:"type:varchar(36)"`
}

// TableName keeps the table name used by the original schema.
func (UserMovie) TableName() string { return "users_movies" }
