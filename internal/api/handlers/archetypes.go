package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loanfillettaz/loadflow-visualization/internal/api/models"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
)

// ListArchetypes handles GET /api/v1/archetypes: the named load and
// generation shapes a session can request.
func ListArchetypes(c *gin.Context) {
	resp := models.ArchetypeListResponse{}
	for _, name := range profile.LoadShapeNames() {
		shape, _ := profile.LoadShape(name)
		resp.Load = append(resp.Load, models.ArchetypeInfo{Name: name, Shape: shape[:]})
	}
	for _, name := range profile.GenerationShapeNames() {
		shape, _ := profile.GenerationShape(name)
		resp.Generation = append(resp.Generation, models.ArchetypeInfo{Name: name, Shape: shape[:]})
	}
	c.JSON(http.StatusOK, resp)
}
