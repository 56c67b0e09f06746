package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/middleware"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/service"
)

func jobFilterFromQuery(c *gin.Context) service.JobFilter {
	return service.JobFilter{
		TextSearch:     c.Query("textSearch"),
		From:           c.Query("from"),
		MinWeight:      queryFloatPtr(c, "minWeight"),
		MaxWeight:      queryFloatPtr(c, "maxWeight"),
		TruckAmountMin: queryIntPtr(c, "truckAmountMin"),
		TruckAmountMax: queryIntPtr(c, "truckAmountMax"),
		TruckTypes:     c.Query("truckType"),
		ProductTypes:   c.Query("productType"),
		ProductName:    c.Query("productName"),
		Status:         c.Query("status"),
		IncludeExpired: queryBool(c, "includeExpired"),
		ShowDeleted:    queryBool(c, "isDeleted"),
		SortBy:         c.Query("sortBy"),
		Descending:     queryBoolPtr(c, "descending"),
		Page:           queryInt(c, "page", 1),
		RowsPerPage:    queryInt(c, "rowsPerPage", 0),
	}
}

// GetAllJob godoc
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} pageEnvelope
// @Router /api/v1/jobs [get]
func (h *Handler) GetAllJob(c *gin.Context) {
	filter := jobFilterFromQuery(c)

	rows, total, err := h.jobs.GetAllJob(filter, middleware.IsAdmin(c))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageEnvelope(rows, total, filter.Page, filter.RowsPerPage))
}

// SearchJobs godoc
// @Summary Search jobs, family roots only
// @Tags jobs
// @Produce json
// @Success 200 {object} pageEnvelope
// @Router /api/v1/jobs/search [get]
func (h *Handler) SearchJobs(c *gin.Context) {
	filter := jobFilterFromQuery(c)

	rows, total, err := h.jobs.SearchJobs(filter, middleware.IsAdmin(c))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageEnvelope(rows, total, filter.Page, filter.RowsPerPage))
}

// GetJobDetail godoc
// @Summary Job detail with quotations and trips
// @Tags jobs
// @Produce json
// @Param jobId path string true "encoded job id"
// @Success 200 {object} service.JobView
// @Router /api/v1/jobs/{jobId} [get]
func (h *Handler) GetJobDetail(c *gin.Context) {
	view, err := h.jobs.GetJobDetail(c.Param("jobId"))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddJob godoc
// @Summary Post a new job
// @Tags jobs
// @Accept json
// @Produce json
// @Router /api/v1/jobs [post]
func (h *Handler) AddJob(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.AddJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.jobs.AddJob(input, caller)
	if err != nil {
		failErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"id":     h.jobs.EncodeID(job.ID),
	})
}

// UpdateJob godoc
// @Summary Patch job fields and reconcile destinations
// @Tags jobs
// @Accept json
// @Param jobId path string true "encoded job id"
// @Success 204
// @Router /api/v1/jobs/{jobId} [patch]
func (h *Handler) UpdateJob(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.UpdateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.jobs.UpdateDetail(c.Param("jobId"), caller, input); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteJob godoc
// @Summary Soft delete a job
// @Tags jobs
// @Param jobId path string true "encoded job id"
// @Success 202
// @Router /api/v1/jobs/{jobId} [delete]
func (h *Handler) DeleteJob(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.jobs.DeactivateJob(c.Param("jobId"), caller); err != nil {
		failErr(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// FinishJob godoc
// @Summary Close a job as done or cancelled
// @Tags jobs
// @Accept json
// @Param jobId path string true "encoded job id"
// @Router /api/v1/jobs/{jobId}/done [patch]
func (h *Handler) FinishJob(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// an empty body means a plain finish
	_ = c.ShouldBindJSON(&body)

	err := h.jobs.FinishJob(c.Param("jobId"), caller, body.Reason, middleware.IsAdmin(c))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetMstJob godoc
// @Summary Master-data shape of a job
// @Tags jobs
// @Produce json
// @Param jobId path string true "encoded job id"
// @Success 200 {object} service.MstJobView
// @Router /api/v1/jobs/{jobId}/mst [get]
func (h *Handler) GetMstJob(c *gin.Context) {
	view, err := h.jobs.FindMstJob(c.Param("jobId"))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetMyJobs godoc
// @Summary List the caller's own jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} pageEnvelope
// @Router /api/v1/jobs/my-job [get]
func (h *Handler) GetMyJobs(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	filter := jobFilterFromQuery(c)

	rows, total, err := h.jobs.GetJobWithUserID(caller, filter)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageEnvelope(rows, total, filter.Page, filter.RowsPerPage))
}

// GetJobsByUser godoc
// @Summary List another user's jobs (admin) or the caller's own
// @Tags jobs
// @Produce json
// @Success 200 {object} pageEnvelope
// @Router /api/v1/jobs/list/user [get]
func (h *Handler) GetJobsByUser(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	target := c.Query("userId")
	if target == "" || !middleware.IsAdmin(c) {
		target = caller
	}
	filter := jobFilterFromQuery(c)

	rows, total, err := h.jobs.GetJobWithUserID(target, filter)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageEnvelope(rows, total, filter.Page, filter.RowsPerPage))
}
