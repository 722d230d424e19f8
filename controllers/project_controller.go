package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rixeldev/studio-api/services"
	"github.com/rixeldev/studio-api/utils"
)

// ProjectController serves the public portfolio listing.
type ProjectController struct {
	projects *services.ProjectService
}

func NewProjectController(projects *services.ProjectService) *ProjectController {
	return &ProjectController{projects: projects}
}

// List returns all portfolio projects.
func (p *ProjectController) List(ctx *gin.Context) {
	projects, err := p.projects.List(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("error listing projects: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Failed to load projects.")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": projects})
}
