package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createQuestionRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required,question_category"`
}

type updateQuestionRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category" binding:"omitempty,question_category"`
}

type answerRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetQuestions pages through questions: ?page=1&limit=10&category=General&search=iron
func (h *Handler) GetQuestions(c *gin.Context) {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	page, limit = store.NormalizePage(page, limit)

	questions, total, err := h.Stores.Questions.List(c.Request.Context(), store.QuestionQuery{
		Category: c.Query("category"),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.respondError(c, "list questions", err)
		return
	}

	c.JSON(http.StatusOK, pagedEnvelope{
		Envelope:    Envelope{Success: true, Data: questions},
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	})
}

// GetQuestion counts a view on every read.
func (h *Handler) GetQuestion(c *gin.Context) {
	id, err := pathID(c, "id", "question")
	if err != nil {
		h.respondError(c, "get question", err)
		return
	}
	q, err := h.Stores.Questions.View(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		err = errNotFound("Question not found")
	}
	if err != nil {
		h.respondError(c, "get question", err)
		return
	}
	respondOK(c, q)
}

func (h *Handler) CreateQuestion(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "create question", err)
		return
	}

	var req createQuestionRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "create question", err)
		return
	}

	q := &models.Question{
		Author:   userID,
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Category: req.Category,
	}
	if err := h.Stores.Questions.Create(c.Request.Context(), q); err != nil {
		h.respondError(c, "create question", err)
		return
	}
	respondCreated(c, q)
}

func questionAuthor(q *models.Question) primitive.ObjectID { return q.Author }

func (h *Handler) ownedQuestion(c *gin.Context) (*models.Question, error) {
	userID, err := requesterID(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id", "question")
	if err != nil {
		return nil, err
	}
	return loadOwned(c.Request.Context(), h.Stores.Questions.FindByID, id, userID, questionAuthor, "Question")
}

// UpdateQuestion lets the author edit title, content and category. Answers,
// likes and views are not editable here.
func (h *Handler) UpdateQuestion(c *gin.Context) {
	q, err := h.ownedQuestion(c)
	if err != nil {
		h.respondError(c, "update question", err)
		return
	}

	var req updateQuestionRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update question", err)
		return
	}
	for field, v := range map[string]*string{"title": req.Title, "content": req.Content} {
		if v != nil && strings.TrimSpace(*v) == "" {
			h.respondError(c, "update question", errValidation("Invalid value for "+field))
			return
		}
	}
	setString(&q.Title, req.Title, false)
	setString(&q.Content, req.Content, false)
	setString(&q.Category, req.Category, false)

	if err := h.Stores.Questions.Replace(c.Request.Context(), q); err != nil {
		h.respondError(c, "update question", err)
		return
	}
	respondOK(c, q)
}

func (h *Handler) DeleteQuestion(c *gin.Context) {
	q, err := h.ownedQuestion(c)
	if err != nil {
		h.respondError(c, "delete question", err)
		return
	}
	if err := h.Stores.Questions.Delete(c.Request.Context(), q.ID); err != nil {
		h.respondError(c, "delete question", err)
		return
	}
	respondOK(c, nil, "Question removed")
}

func (h *Handler) AddAnswer(c *gin.Context) {
	userID, q, err := h.questionForUpdate(c)
	if err != nil {
		h.respondError(c, "add answer", err)
		return
	}

	var req answerRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "add answer", err)
		return
	}

	answer := q.AddAnswer(userID, strings.TrimSpace(req.Content), time.Now().UTC())
	if err := h.Stores.Questions.Replace(c.Request.Context(), q); err != nil {
		h.respondError(c, "add answer", err)
		return
	}
	respondCreated(c, answer)
}

// LikeQuestion toggles the requester's like.
func (h *Handler) LikeQuestion(c *gin.Context) {
	userID, q, err := h.questionForUpdate(c)
	if err != nil {
		h.respondError(c, "like question", err)
		return
	}

	summary := q.ToggleLike(userID)
	if err := h.Stores.Questions.Replace(c.Request.Context(), q); err != nil {
		h.respondError(c, "like question", err)
		return
	}
	respondOK(c, summary)
}

func (h *Handler) LikeAnswer(c *gin.Context) {
	userID, q, err := h.questionForUpdate(c)
	if err != nil {
		h.respondError(c, "like answer", err)
		return
	}
	answerID, err := pathID(c, "answerId", "answer")
	if err != nil {
		h.respondError(c, "like answer", err)
		return
	}

	summary, err := q.ToggleAnswerLike(answerID, userID)
	if errors.Is(err, models.ErrAnswerNotFound) {
		err = errNotFound("Answer not found")
	}
	if err != nil {
		h.respondError(c, "like answer", err)
		return
	}
	if err := h.Stores.Questions.Replace(c.Request.Context(), q); err != nil {
		h.respondError(c, "like answer", err)
		return
	}
	respondOK(c, summary)
}

// AcceptAnswer is reserved to the question author; any previously accepted
// answer loses the mark.
func (h *Handler) AcceptAnswer(c *gin.Context) {
	userID, q, err := h.questionForUpdate(c)
	if err != nil {
		h.respondError(c, "accept answer", err)
		return
	}
	answerID, err := pathID(c, "answerId", "answer")
	if err != nil {
		h.respondError(c, "accept answer", err)
		return
	}

	accepted, err := q.AcceptAnswer(userID, answerID)
	switch {
	case errors.Is(err, models.ErrNotQuestionAuthor):
		err = errForbidden("Only the question author can accept an answer")
	case errors.Is(err, models.ErrAnswerNotFound):
		err = errNotFound("Answer not found")
	}
	if err != nil {
		h.respondError(c, "accept answer", err)
		return
	}

	if err := h.Stores.Questions.Replace(c.Request.Context(), q); err != nil {
		h.respondError(c, "accept answer", err)
		return
	}
	respondOK(c, accepted)
}

func (h *Handler) questionForUpdate(c *gin.Context) (primitive.ObjectID, *models.Question, error) {
	userID, err := requesterID(c)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	id, err := pathID(c, "id", "question")
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	q, err := h.Stores.Questions.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return primitive.NilObjectID, nil, errNotFound("Question not found")
	}
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	return userID, q, nil
}
