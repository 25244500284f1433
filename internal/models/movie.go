package models

// Movie is a catalog entry shared across users. Titles are unique
// case-insensitively: two users who favorite the "same" title always
// point at one row. Movies are created as a side effect of a user's
// first favorite-add of an unknown title and are never deleted.
type Movie struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"not null"`
	ReleaseYear int    `json:"release_year" gorm:"not null"`
	Director    string `json:"director"`

	IMDBID        string  `json:"imdb_id"`
	IMDBRating    float64 `json:"imdb_rating"`
	Genre         string  `json:"genre"`
	Img           string  `json:"img_url"`
	Country       string  `json:"country"`
	CountryAlpha2 string  `json:"country_alpha_2" gorm:"type:varchar(2)"`
}

// TableName keeps the table name used by the original schema.
func (Movie) TableName() string { return "movies" }
