package models

import (
	"time"

	"github.com/google/uuid"
)

// Score bounds for a review
const (
	MinScore = 1
	MaxScore = 10
)

// Review is a user's scored opinion of a title. A user reviews a title at most once.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TitleID   uuid.UUID `json:"-" db:"title_id"`
	CreatedBy uuid.UUID `json:"-" db:"author_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text" db:"text"`
	Score     int       `json:"score" db:"score"`
	PubDate   time.Time `json:"pub_date" db:"pub_date"`
}

// TableName returns the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// AuthorID returns the id of the user who wrote the review
func (r *Review) AuthorID() uuid.UUID {
	return r.CreatedBy
}

// NewReview creates a new Review written by author
func NewReview(titleID uuid.UUID, author *User, text string, score int) *Review {
	return &Review{
		ID:        uuid.New(),
		TitleID:   titleID,
		CreatedBy: author.ID,
		Author:    author.Username,
		Text:      text,
		Score:     score,
		PubDate:   time.Now().UTC(),
	}
}

// Comment is a reply to a review
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReviewID  uuid.UUID `json:"-" db:"review_id"`
	CreatedBy uuid.UUID `json:"-" db:"author_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text" db:"text"`
	PubDate   time.Time `json:"pub_date" db:"pub_date"`
}

// TableName returns the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// AuthorID returns the id of the user who wrote the comment
func (c *Comment) AuthorID() uuid.UUID {
	return c.CreatedBy
}

// NewComment creates a new Comment written by author
func NewComment(reviewID uuid.UUID, author *User, text string) *Comment {
	return &Comment{
		ID:        uuid.New(),
		ReviewID:  reviewID,
		CreatedBy: author.ID,
		Author:    author.Username,
		Text:      text,
		PubDate:   time.Now().UTC(),
	}
}
