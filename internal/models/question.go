package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAnswerNotFound    = errors.New("answer not found")
	ErrNotQuestionAuthor = errors.New("only the question author can accept an answer")
)

var QuestionCategories = []string{
	"First Trimester",
	"Second Trimester",
	"Third Trimester",
	"Postpartum",
	"General",
}

func ValidQuestionCategory(s string) bool {
	for _, c := range QuestionCategories {
		if c == s {
			return true
		}
	}
	return false
}

type Question struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Category  string               `bson:"category" json:"category"`
	Date      time.Time            `bson:"date" json:"date"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Answers   []Answer             `bson:"answers" json:"answers"`
	Views     int                  `bson:"views" json:"views"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type Answer struct {
	ID         primitive.ObjectID   `bson:"_id" json:"_id"`
	Content    string               `bson:"content" json:"content"`
	Author     primitive.ObjectID   `bson:"author" json:"author"`
	Date       time.Time            `bson:"date" json:"date"`
	Likes      []primitive.ObjectID `bson:"likes" json:"likes"`
	IsAccepted bool                 `bson:"isAccepted" json:"isAccepted"`
}

// LikeSummary is returned by the like toggles.
type LikeSummary struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}

// AddAnswer appends a new answer and returns a copy of it.
func (q *Question) AddAnswer(author primitive.ObjectID, content string, at time.Time) Answer {
	a := Answer{
		ID:      primitive.NewObjectID(),
		Content: content,
		Author:  author,
		Date:    at,
		Likes:   []primitive.ObjectID{},
	}
	q.Answers = append(q.Answers, a)
	return a
}

func (q *Question) FindAnswer(id primitive.ObjectID) *Answer {
	for i := range q.Answers {
		if q.Answers[i].ID == id {
			return &q.Answers[i]
		}
	}
	return nil
}

// ToggleLike adds userID to the question likes, or removes it when present.
func (q *Question) ToggleLike(userID primitive.ObjectID) LikeSummary {
	var liked bool
	q.Likes, liked = toggle(q.Likes, userID)
	return LikeSummary{Likes: len(q.Likes), IsLiked: liked}
}

// ToggleAnswerLike is ToggleLike for one of the answers.
func (q *Question) ToggleAnswerLike(answerID, userID primitive.ObjectID) (LikeSummary, error) {
	a := q.FindAnswer(answerID)
	if a == nil {
		return LikeSummary{}, ErrAnswerNotFound
	}
	var liked bool
	a.Likes, liked = toggle(a.Likes, userID)
	return LikeSummary{Likes: len(a.Likes), IsLiked: liked}, nil
}

// AcceptAnswer marks answerID as the accepted answer. Only the author of the
// question may accept, and at most one answer is accepted afterwards. The
// question is left untouched when an error is returned.
func (q *Question) AcceptAnswer(requester, answerID primitive.ObjectID) (*Answer, error) {
	if !OwnedBy(q.Author, requester) {
		return nil, ErrNotQuestionAuthor
	}
	target := q.FindAnswer(answerID)
	if target == nil {
		return nil, ErrAnswerNotFound
	}
	for i := range q.Answers {
		q.Answers[i].IsAccepted = false
	}
	target.IsAccepted = true
	return target, nil
}

func toggle(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...), false
		}
	}
	return append(ids, id), true
}
