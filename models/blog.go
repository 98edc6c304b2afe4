package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a read-only community that posts may belong to
type Group struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
}

// TableName returns the table name for the Group model
func (Group) TableName() string {
	return "groups"
}

// Post is a blog entry
type Post struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedBy uuid.UUID  `json:"-" db:"author_id"`
	Author    string     `json:"author"`
	Text      string     `json:"text" db:"text"`
	GroupID   *uuid.UUID `json:"group" db:"group_id"`
	Image     *string    `json:"image" db:"image"`
	PubDate   time.Time  `json:"pub_date" db:"pub_date"`
}

// TableName returns the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// AuthorID returns the id of the user who wrote the post
func (p *Post) AuthorID() uuid.UUID {
	return p.CreatedBy
}

// NewPost creates a new Post written by author
func NewPost(author *User, text string) *Post {
	return &Post{
		ID:        uuid.New(),
		CreatedBy: author.ID,
		Author:    author.Username,
		Text:      text,
		PubDate:   time.Now().UTC(),
	}
}

// PostComment is a reply to a post
type PostComment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PostID    uuid.UUID `json:"post" db:"post_id"`
	CreatedBy uuid.UUID `json:"-" db:"author_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text" db:"text"`
	Created   time.Time `json:"created" db:"created"`
}

// TableName returns the table name for the PostComment model
func (PostComment) TableName() string {
	return "post_comments"
}

// AuthorID returns the id of the user who wrote the comment
func (c *PostComment) AuthorID() uuid.UUID {
	return c.CreatedBy
}

// NewPostComment creates a new PostComment written by author
func NewPostComment(postID uuid.UUID, author *User, text string) *PostComment {
	return &PostComment{
		ID:        uuid.New(),
		PostID:    postID,
		CreatedBy: author.ID,
		Author:    author.Username,
		Text:      text,
		Created:   time.Now().UTC(),
	}
}

// Follow is a subscription of one user to another user's posts
type Follow struct {
	ID          uuid.UUID `json:"-" db:"id"`
	UserID      uuid.UUID `json:"-" db:"user_id"`
	User        string    `json:"user"`
	FollowingID uuid.UUID `json:"-" db:"following_id"`
	Following   string    `json:"following"`
}

// TableName returns the table name for the Follow model
func (Follow) TableName() string {
	return "follows"
}

// NewFollow creates a subscription of user to following
func NewFollow(user, following *User) *Follow {
	return &Follow{
		ID:          uuid.New(),
		UserID:      user.ID,
		User:        user.Username,
		FollowingID: following.ID,
		Following:   following.Username,
	}
}
