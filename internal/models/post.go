package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("only the comment author can delete it")
	PostCategories      = []string{"question", "story", "tip", "support", "other"}
)

func ValidPostCategory(s string) bool {
	for _, c := range PostCategories {
		if c == s {
			return true
		}
	}
	return false
}

// Post is a free-form community post. Comments are embedded, newest first.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Category  string               `bson:"category" json:"category"`
	Tags      []string             `bson:"tags" json:"tags"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	Date      time.Time            `bson:"date" json:"date"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type Comment struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	User primitive.ObjectID `bson:"user" json:"user"`
	Text string             `bson:"text" json:"text"`
	Date time.Time          `bson:"date" json:"date"`
}

func (p *Post) ToggleLike(userID primitive.ObjectID) LikeSummary {
	var liked bool
	p.Likes, liked = toggle(p.Likes, userID)
	return LikeSummary{Likes: len(p.Likes), IsLiked: liked}
}

// AddComment puts the new comment first and returns a copy of it.
func (p *Post) AddComment(userID primitive.ObjectID, text string, at time.Time) Comment {
	c := Comment{ID: primitive.NewObjectID(), User: userID, Text: text, Date: at}
	p.Comments = append([]Comment{c}, p.Comments...)
	return c
}

// RemoveComment deletes commentID if requester wrote it.
func (p *Post) RemoveComment(commentID, requester primitive.ObjectID) error {
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if !OwnedBy(c.User, requester) {
			return ErrNotCommentAuthor
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		return nil
	}
	return ErrCommentNotFound
}
