package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rixeldev/studio-api/services"
	"github.com/rixeldev/studio-api/utils"
)

// AccessController handles the client-facing PIN access and selection
// endpoints.
type AccessController struct {
	galleries *services.GalleryService

	// throttle hooks; swapped out in tests.
	allowAttempt  func(ip string) bool
	recordFailure func(ip string)
}

func NewAccessController(galleries *services.GalleryService) *AccessController {
	return &AccessController{
		galleries:     galleries,
		allowAttempt:  utils.PinAttemptAllowed,
		recordFailure: utils.PinAttemptFailed,
	}
}

type accessRequest struct {
	Pin string `json:"pin"`
}

// Access verifies a gallery PIN and returns the gallery with its photos and
// currently selected codes.
func (a *AccessController) Access(ctx *gin.Context) {
	ip := ctx.ClientIP()
	if !a.allowAttempt(ip) {
		utils.Message(ctx, http.StatusTooManyRequests, "Too many attempts. Try again later.")
		return
	}

	var req accessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "PIN is required.")
		return
	}

	pin := strings.TrimSpace(req.Pin)
	if pin == "" {
		utils.Message(ctx, http.StatusBadRequest, "PIN is required.")
		return
	}

	gallery, err := a.galleries.FindGalleryByPin(ctx.Request.Context(), pin)
	if err != nil {
		if errors.Is(err, services.ErrGalleryNotFound) {
			a.recordFailure(ip)
			utils.Message(ctx, http.StatusUnauthorized, "Invalid PIN.")
			return
		}
		utils.Sugar.Errorf("error verifying gallery PIN: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Unexpected error. Please try again.")
		return
	}

	photos, err := a.galleries.ListPhotos(ctx.Request.Context(), gallery.ID)
	if err != nil {
		utils.Sugar.Errorf("error listing gallery photos: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Unexpected error. Please try again.")
		return
	}

	selections, err := a.galleries.ListSelections(ctx.Request.Context(), gallery.ID)
	if err != nil {
		utils.Sugar.Errorf("error listing gallery selections: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Unexpected error. Please try again.")
		return
	}

	selectedCodes := make([]string, 0, len(selections))
	for _, sel := range selections {
		selectedCodes = append(selectedCodes, sel.ImageCode)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"gallery": gin.H{
			"id":          gallery.ID,
			"title":       gallery.Title,
			"description": gallery.Description,
			"eventDate":   gallery.EventDate,
			"createdAt":   gallery.CreatedAt,
		},
		"photos":        photos,
		"selectedCodes": selectedCodes,
	})
}

type selectionRequest struct {
	Pin           string   `json:"pin"`
	GalleryID     string   `json:"galleryId"`
	SelectedCodes []string `json:"selectedCodes"`
}

// SaveSelection replaces the gallery's selection set with the submitted
// codes, keeping only codes that match existing photos.
func (a *AccessController) SaveSelection(ctx *gin.Context) {
	var req selectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "PIN and galleryId are required.")
		return
	}

	pin := strings.TrimSpace(req.Pin)
	if pin == "" || req.GalleryID == "" {
		utils.Message(ctx, http.StatusBadRequest, "PIN and galleryId are required.")
		return
	}

	gallery, err := a.galleries.FindGalleryByPin(ctx.Request.Context(), pin)
	if err != nil && !errors.Is(err, services.ErrGalleryNotFound) {
		utils.Sugar.Errorf("error verifying gallery PIN: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Unexpected error. Please try again.")
		return
	}
	if gallery == nil || gallery.ID != req.GalleryID {
		a.recordFailure(ctx.ClientIP())
		utils.Message(ctx, http.StatusUnauthorized, "Invalid PIN or gallery ID.")
		return
	}

	validCodes, err := a.galleries.FilterValidCodes(ctx.Request.Context(), req.GalleryID, req.SelectedCodes)
	if err != nil {
		utils.Sugar.Errorf("error validating selection codes: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Unexpected error. Please try again.")
		return
	}

	if err := a.galleries.SaveSelections(ctx.Request.Context(), req.GalleryID, validCodes); err != nil {
		utils.Sugar.Errorf("error saving gallery selections: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Unexpected error. Please try again.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "selectedCodes": validCodes})
}
