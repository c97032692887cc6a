package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialnet/middleware"
	"socialnet/models"
	"socialnet/repository"
)

type CreatePostRequest struct {
	UserID        string   `json:"user_id" binding:"required"`
	Description   string   `json:"description"`
	CreatedAt     string   `json:"created_at"`
	Location      string   `json:"location"`
	Hashtags      []string `json:"hashtags"`
	TaggedUsers   []string `json:"tagged_users"`
	LikesCount    int64    `json:"likes_count"`
	CommentsCount int64    `json:"comments_count"`
}

func (req CreatePostRequest) toPost() (*models.Post, error) {
	userID, err := repository.ParseID("user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		UserID:        userID,
		Description:   req.Description,
		Location:      req.Location,
		Hashtags:      req.Hashtags,
		LikesCount:    req.LikesCount,
		CommentsCount: req.CommentsCount,
	}
	if req.CreatedAt != "" {
		if post.CreatedAt, err = repository.ParseTime("created_at", req.CreatedAt); err != nil {
			return nil, err
		}
	}
	for _, raw := range req.TaggedUsers {
		id, err := repository.ParseID("tagged_users", raw)
		if err != nil {
			return nil, err
		}
		post.TaggedUsers = append(post.TaggedUsers, id)
	}
	return post, nil
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	post, err := req.toPost()
	if err != nil {
		h.fail(c, err)
		return
	}
	// With auth on, a token may only post as its own user.
	if caller := c.GetString(middleware.ContextUserID); caller != "" && caller != post.UserID.Hex() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "code": "FORBIDDEN", "message": "user_id does not match the authenticated user"})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	if _, err := h.repo.CreatePost(ctx, post); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) GetPost(c *gin.Context) {
	postID, err := pathID(c, "post_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	post, err := h.repo.GetPost(ctx, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) ViralPosts(c *gin.Context) {
	var q repository.ViralFeedQuery
	var err error
	if q.Days, err = queryInt64(c, "days"); err != nil {
		h.fail(c, err)
		return
	}
	if q.MinLikes, err = queryInt64(c, "min_likes"); err != nil {
		h.fail(c, err)
		return
	}
	if q.Limit, err = queryInt64(c, "limit"); err != nil {
		h.fail(c, err)
		return
	}
	if q, err = q.Normalize(); err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	posts, err := h.repo.ViralFeed(ctx, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"criteria": q,
		"count":    len(posts),
		"posts":    posts,
	})
}

func (h *Handler) PostsByDateRange(c *gin.Context) {
	var (
		userID     primitive.ObjectID
		err        error
		start, end = c.Query("start_date"), c.Query("end_date")
	)
	if userID, err = repository.ParseID("user_id", c.Query("user_id")); err != nil {
		h.fail(c, err)
		return
	}
	startAt, err := repository.ParseTime("start_date", start)
	if err != nil {
		h.fail(c, err)
		return
	}
	endAt, err := repository.ParseTime("end_date", end)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	posts, err := h.repo.PostsByDateRange(ctx, userID, startAt, endAt)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":    userID.Hex(),
		"start_date": start,
		"end_date":   end,
		"count":      len(posts),
		"posts":      posts,
	})
}
