package entities

import "time"

// Title and Author widths are mirrored by schema.MaxTitleLength and schema.MaxAuthorLength.
type Book struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string    `gorm:"size:512;not null" json:"title"`
	Author          string    `gorm:"index;size:256;not null" json:"author"`
	PublicationYear int       `gorm:"index;not null" json:"publication_year"`
	Reviews         []Review  `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Book      *Book     `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

func (Review) TableName() string {
	return "reviews"
}
