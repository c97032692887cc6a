package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/models"
)

func (h *Handler) CreateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	id, err := h.repo.CreateUser(ctx, &user)
	if err != nil {
		h.fail(c, err)
		return
	}
	created, err := h.repo.GetUser(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// FindUser looks a user up by ?username=.
func (h *Handler) FindUser(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Use ?username=XXX to search for a user"})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	user, err := h.repo.GetUserByUsername(ctx, username)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	user, err := h.repo.GetUser(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	user, err := h.repo.UpdateUser(ctx, userID, update)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UsersByLocation(c *gin.Context) {
	location := c.Query("location")
	limit, err := queryInt64(c, "limit")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	users, err := h.repo.UsersByLocation(ctx, location, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"location": location,
		"count":    len(users),
		"users":    users,
	})
}

func (h *Handler) GetPrivacySettings(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	settings, err := h.repo.PrivacySettings(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdatePrivacySettings(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var settings models.PrivacySettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	updated, err := h.repo.UpdatePrivacySettings(ctx, userID, settings)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) GetNotificationPreferences(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	prefs, err := h.repo.NotificationPreferences(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) UpdateNotificationPreferences(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var prefs models.NotificationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	updated, err := h.repo.UpdateNotificationPreferences(ctx, userID, prefs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ProfileSummary(c *gin.Context) {
	userID, err := pathID(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	summary, err := h.repo.ProfileSummary(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
