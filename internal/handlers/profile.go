package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roommate-service/internal/models"
	"roommate-service/internal/services"
)

// ProfileHandler serves profile, candidate and saved place endpoints.
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileRequest struct {
	Name             string     `json:"name" binding:"required"`
	Age              *int       `json:"age" binding:"omitempty,min=18,max=120"`
	Bio              string     `json:"bio"`
	AvatarURL        string     `json:"avatar_url"`
	Occupation       string     `json:"occupation"`
	BudgetMin        *int       `json:"budget_min" binding:"omitempty,min=0"`
	BudgetMax        *int       `json:"budget_max" binding:"omitempty,min=0"`
	Location         string     `json:"location"`
	MoveInDate       *time.Time `json:"move_in_date"`
	HasPlace         bool       `json:"has_place"`
	PlaceDescription string     `json:"place_description"`
	Lifestyle        []string   `json:"lifestyle"`
}

// UpsertMe creates or updates the caller's profile.
func (h *ProfileHandler) UpsertMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget_min exceeds budget_max"})
		return
	}

	profile, err := h.profiles.UpsertProfile(c.Request.Context(), currentUser(c), models.Profile{
		Name:             req.Name,
		Age:              req.Age,
		Bio:              req.Bio,
		AvatarURL:        req.AvatarURL,
		Occupation:       req.Occupation,
		BudgetMin:        req.BudgetMin,
		BudgetMax:        req.BudgetMax,
		Location:         req.Location,
		MoveInDate:       req.MoveInDate,
		HasPlace:         req.HasPlace,
		PlaceDescription: req.PlaceDescription,
		Lifestyle:        req.Lifestyle,
	})
	if err != nil {
		respondError(c, err, "failed to save profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMe returns the caller's profile.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	h.writeProfile(c, currentUser(c))
}

// GetProfile returns another user's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	h.writeProfile(c, c.Param("user_id"))
}

func (h *ProfileHandler) writeProfile(c *gin.Context, userID string) {
	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Candidates lists profiles the caller can still swipe on.
func (h *ProfileHandler) Candidates(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	profiles, err := h.profiles.Candidates(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		respondError(c, err, "failed to load candidates")
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": profiles})
}

// ListSavedPlaces returns the caller's bookmarks.
func (h *ProfileHandler) ListSavedPlaces(c *gin.Context) {
	places, err := h.profiles.ListSavedPlaces(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to load saved places")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_places": places})
}

// SavePlace bookmarks a place listing. Saving twice updates the note.
func (h *ProfileHandler) SavePlace(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	place, err := h.profiles.SavePlace(c.Request.Context(), currentUser(c), c.Param("place_id"), req.Note)
	if err != nil {
		respondError(c, err, "failed to save place")
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *ProfileHandler) UnsavePlace(c *gin.Context) {
	if err := h.profiles.UnsavePlace(c.Request.Context(), currentUser(c), c.Param("place_id")); err != nil {
		respondError(c, err, "failed to remove saved place")
		return
	}
	c.Status(http.StatusNoContent)
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return v, true
}
