package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createPostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required,post_category"`
	Tags     []string `json:"tags"`
}

type updatePostRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Category *string  `json:"category" binding:"omitempty,post_category"`
	Tags     []string `json:"tags"`
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func postOwner(p *models.Post) primitive.ObjectID { return p.User }

// GetPosts is public, newest first.
func (h *Handler) GetPosts(c *gin.Context) {
	posts, err := h.Stores.Posts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list posts", err)
		return
	}
	respondOK(c, posts)
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.findPost(c)
	if err != nil {
		h.respondError(c, "get post", err)
		return
	}
	respondOK(c, post)
}

func (h *Handler) CreatePost(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "create post", err)
		return
	}

	var req createPostRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "create post", err)
		return
	}

	post := &models.Post{
		User:     userID,
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Category: req.Category,
		Tags:     cleanTags(req.Tags),
	}
	if err := h.Stores.Posts.Create(c.Request.Context(), post); err != nil {
		h.respondError(c, "create post", err)
		return
	}
	respondCreated(c, post)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	post, err := h.ownedPost(c)
	if err != nil {
		h.respondError(c, "update post", err)
		return
	}

	var req updatePostRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "update post", err)
		return
	}
	for field, v := range map[string]*string{"title": req.Title, "content": req.Content} {
		if v != nil && strings.TrimSpace(*v) == "" {
			h.respondError(c, "update post", errValidation("Invalid value for "+field))
			return
		}
	}
	setString(&post.Title, req.Title, false)
	setString(&post.Content, req.Content, false)
	setString(&post.Category, req.Category, false)
	if req.Tags != nil {
		post.Tags = cleanTags(req.Tags)
	}

	if err := h.Stores.Posts.Replace(c.Request.Context(), post); err != nil {
		h.respondError(c, "update post", err)
		return
	}
	respondOK(c, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	post, err := h.ownedPost(c)
	if err != nil {
		h.respondError(c, "delete post", err)
		return
	}
	if err := h.Stores.Posts.Delete(c.Request.Context(), post.ID); err != nil {
		h.respondError(c, "delete post", err)
		return
	}
	respondOK(c, nil, "Post removed")
}

// LikePost toggles the requester's like on any post.
func (h *Handler) LikePost(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "like post", err)
		return
	}
	post, err := h.findPost(c)
	if err != nil {
		h.respondError(c, "like post", err)
		return
	}

	summary := post.ToggleLike(userID)
	if err := h.Stores.Posts.Replace(c.Request.Context(), post); err != nil {
		h.respondError(c, "like post", err)
		return
	}
	respondOK(c, summary)
}

func (h *Handler) AddComment(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "add comment", err)
		return
	}
	post, err := h.findPost(c)
	if err != nil {
		h.respondError(c, "add comment", err)
		return
	}

	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "add comment", err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		h.respondError(c, "add comment", errValidation("Please provide all required fields: text"))
		return
	}

	post.AddComment(userID, text, time.Now().UTC())
	if err := h.Stores.Posts.Replace(c.Request.Context(), post); err != nil {
		h.respondError(c, "add comment", err)
		return
	}
	respondCreated(c, post)
}

// DeleteComment is reserved to the comment's author, not the post's.
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, err := requesterID(c)
	if err != nil {
		h.respondError(c, "delete comment", err)
		return
	}
	post, err := h.findPost(c)
	if err != nil {
		h.respondError(c, "delete comment", err)
		return
	}
	commentID, err := pathID(c, "commentId", "comment")
	if err != nil {
		h.respondError(c, "delete comment", err)
		return
	}

	err = post.RemoveComment(commentID, userID)
	switch {
	case errors.Is(err, models.ErrCommentNotFound):
		err = errNotFound("Comment not found")
	case errors.Is(err, models.ErrNotCommentAuthor):
		err = errNotOwner
	}
	if err != nil {
		h.respondError(c, "delete comment", err)
		return
	}

	if err := h.Stores.Posts.Replace(c.Request.Context(), post); err != nil {
		h.respondError(c, "delete comment", err)
		return
	}
	respondOK(c, post)
}

func (h *Handler) findPost(c *gin.Context) (*models.Post, error) {
	id, err := pathID(c, "id", "post")
	if err != nil {
		return nil, err
	}
	post, err := h.Stores.Posts.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errNotFound("Post not found")
	}
	return post, err
}

func (h *Handler) ownedPost(c *gin.Context) (*models.Post, error) {
	userID, err := requesterID(c)
	if err != nil {
		return nil, err
	}
	id, err := pathID(c, "id", "post")
	if err != nil {
		return nil, err
	}
	return loadOwned(c.Request.Context(), h.Stores.Posts.FindByID, id, userID, postOwner, "Post")
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
