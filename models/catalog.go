package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups titles by kind (film, book, music)
type Category struct {
	ID   uuid.UUID `json:"-" db:"id"`
	Name string    `json:"name" db:"name"`
	Slug string    `json:"slug" db:"slug"`
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new Category instance
func NewCategory(name, slug string) *Category {
	return &Category{ID: uuid.New(), Name: name, Slug: slug}
}

// Genre is a many-to-many label on titles
type Genre struct {
	ID   uuid.UUID `json:"-" db:"id"`
	Name string    `json:"name" db:"name"`
	Slug string    `json:"slug" db:"slug"`
}

// TableName returns the table name for the Genre model
func (Genre) TableName() string {
	return "genres"
}

// NewGenre creates a new Genre instance
func NewGenre(name, slug string) *Genre {
	return &Genre{ID: uuid.New(), Name: name, Slug: slug}
}

// Title is a reviewable work
type Title struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Year        int        `json:"year" db:"year"`
	Description string     `json:"description" db:"description"`
	CategoryID  *uuid.UUID `json:"-" db:"category_id"`
	Category    *Category  `json:"category"`
	Genres      []Genre    `json:"genre"`
	Rating      *float64   `json:"rating"` // nil until the title is reviewed
	CreatedAt   time.Time  `json:"-" db:"created_at"`
	UpdatedAt   time.Time  `json:"-" db:"updated_at"`
}

// TableName returns the table name for the Title model
func (Title) TableName() string {
	return "titles"
}

// NewTitle creates a new Title instance
func NewTitle(name string, year int, description string) *Title {
	now := time.Now().UTC()
	return &Title{
		ID:          uuid.New(),
		Name:        name,
		Year:        year,
		Description: description,
		Genres:      []Genre{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TitleFilter narrows a title listing
type TitleFilter struct {
	Genre    string
	Category string
	Name     string
	Year     int
}
