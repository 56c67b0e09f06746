package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/middleware"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/pagination"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/service"
)

// Handler wires the job and favorite services to the HTTP surface.
type Handler struct {
	jobs      *service.JobService
	favorites *service.FavoriteService
}

func New(jobs *service.JobService, favorites *service.FavoriteService) *Handler {
	return &Handler{jobs: jobs, favorites: favorites}
}

// RegisterRoutes mounts all endpoints under /api/v1/jobs.
func (h *Handler) RegisterRoutes(r *gin.Engine, am *middleware.AuthMiddleware) {
	api := r.Group("/api/v1/jobs")

	api.GET("", am.OptionalAuth(), h.GetAllJob)
	api.GET("/search", am.OptionalAuth(), h.SearchJobs)
	api.GET("/:jobId", am.OptionalAuth(), h.GetJobDetail)

	api.POST("", am.RequireAuth(), h.AddJob)
	api.PATCH("/:jobId", am.RequireAuth(), h.UpdateJob)
	api.DELETE("/:jobId", am.RequireAuth(), h.DeleteJob)
	api.PATCH("/:jobId/done", am.RequireAuth(), h.FinishJob)
	api.GET("/:jobId/mst", am.RequireAuth(), h.GetMstJob)

	api.GET("/my-job", am.RequireAuth(), h.GetMyJobs)
	api.GET("/list/user", am.RequireAuth(), h.GetJobsByUser)

	api.GET("/favorite", am.RequireAuth(), h.GetFavoriteJobs)
	api.POST("/favorite", am.RequireAuth(), h.ToggleFavorite)
}

// fail - standard JSON error response
func fail(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"status":  "error",
		"message": msg,
	})
}

// failErr maps service errors onto HTTP status codes.
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidToken):
		fail(c, http.StatusBadRequest, "Invalid id token")
	case errors.Is(err, apperr.ErrInvalidFilter), errors.Is(err, apperr.ErrValidation):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, apperr.ErrPermissionDenied):
		fail(c, http.StatusUnauthorized, apperr.ErrPermissionDenied.Error())
	case errors.Is(err, apperr.ErrNotFound):
		fail(c, http.StatusNotFound, "Data not found")
	default:
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// pageEnvelope is the paginated response shape shared by every listing.
type pageEnvelope struct {
	Data             interface{} `json:"data"`
	Size             int         `json:"size"`
	CurrentPage      int         `json:"currentPage"`
	TotalPages       int         `json:"totalPages"`
	TotalElements    int64       `json:"totalElements"`
	NumberOfElements int         `json:"numberOfElements"`
}

func newPageEnvelope(data []service.JobView, total int64, page, rowsPerPage int) pageEnvelope {
	rowsPerPage = pagination.Normalize(rowsPerPage)
	if page < 1 {
		page = 1
	}
	return pageEnvelope{
		Data:             data,
		Size:             rowsPerPage,
		CurrentPage:      page,
		TotalPages:       pagination.PageCount(int(total), rowsPerPage),
		TotalElements:    total,
		NumberOfElements: len(data),
	}
}

func callerID(c *gin.Context) (string, bool) {
	return middleware.GetUserID(c)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryIntPtr(c *gin.Context, key string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryFloatPtr(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func queryBoolPtr(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
