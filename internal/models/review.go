package models

// Review is an optional 1:1 extension of a UserMovie. It is created
// lazily the first time a user reviews a favorited movie, updated in
// place on later reviews, and deleted with its owning UserMovie.
type Review struct {
	ID     string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
	Note   string  `json:"note,omitempty"`
}

// TableName keeps the table name used by the original schema.
func (Review) TableName() string { return "reviews" }
