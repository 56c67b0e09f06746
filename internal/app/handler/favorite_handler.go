package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetFavoriteJobs godoc
// @Summary List the caller's favorite jobs
// @Tags favorites
// @Produce json
// @Success 200 {object} pageEnvelope
// @Router /api/v1/jobs/favorite [get]
func (h *Handler) GetFavoriteJobs(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	descending := true
	if v := queryBoolPtr(c, "descending"); v != nil {
		descending = *v
	}
	page := queryInt(c, "page", 1)
	rowsPerPage := queryInt(c, "rowsPerPage", 0)

	rows, total, err := h.favorites.List(caller, descending, page, rowsPerPage)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageEnvelope(rows, total, page, rowsPerPage))
}

// ToggleFavorite godoc
// @Summary Toggle a job in the caller's favorites
// @Tags favorites
// @Accept json
// @Router /api/v1/jobs/favorite [post]
func (h *Handler) ToggleFavorite(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ID == "" {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.favorites.Toggle(body.ID, caller); err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
