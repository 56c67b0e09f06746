package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/auth"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/idcodec"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/middleware"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/service"
)

const testSecret = "test-secret"

type stubJobStore struct {
	jobs map[int64]*ds.Job
}

func (s *stubJobStore) Insert(job *ds.Job) error {
	job.ID = int64(len(s.jobs) + 1)
	s.jobs[job.ID] = job
	return nil
}
func (s *stubJobStore) FindByID(id int64) (*ds.Job, error)              { return s.jobs[id], nil }
func (s *stubJobStore) Update(id int64, _ map[string]interface{}) error { return nil }
func (s *stubJobStore) SetFullTextSearch(_ int64, _ []string) error     { return nil }
func (s *stubJobStore) UpdateTripStatusByJobID(_ int64, _ string) error { return nil }

type stubShipmentStore struct{}

func (stubShipmentStore) BulkInsert(_ []ds.Shipment) error           { return nil }
func (stubShipmentStore) FindByJobID(_ int64) ([]ds.Shipment, error) { return nil, nil }
func (stubShipmentStore) DeleteByIDs(_ []int64) error                { return nil }
func (stubShipmentStore) UpdateByJobID(_ int64, _ map[string]interface{}) error {
	return nil
}

type stubViewStore struct {
	rows  map[int64]*ds.VwJobList
	list  []ds.VwJobList
	total int64
}

func (s *stubViewStore) FindByID(id int64) (*ds.VwJobList, error) { return s.rows[id], nil }
func (s *stubViewStore) FindByIDForOwner(id, ownerID int64) (*ds.VwJobList, error) {
	row := s.rows[id]
	if row == nil || row.UserID != ownerID {
		return nil, nil
	}
	return row, nil
}
func (s *stubViewStore) FindAndCount(_ service.QueryPlan) ([]ds.VwJobList, int64, error) {
	return s.list, s.total, nil
}
func (s *stubViewStore) SearchRoots(_ service.QueryPlan) ([]ds.VwJobList, int64, error) {
	return s.list, s.total, nil
}

type stubTx struct{ stores service.TxStores }

func (s *stubTx) InTx(fn func(service.TxStores) error) error { return fn(s.stores) }

type stubFavoriteStore struct {
	rows map[int64]*ds.Favorite
}

func (s *stubFavoriteStore) Find(userID, jobID int64) (*ds.Favorite, error) {
	for _, row := range s.rows {
		if row.UserID == userID && row.JobID == jobID {
			return row, nil
		}
	}
	return nil, nil
}
func (s *stubFavoriteStore) Insert(f *ds.Favorite) error {
	f.ID = int64(len(s.rows) + 1)
	s.rows[f.ID] = f
	return nil
}
func (s *stubFavoriteStore) Update(id int64, patch map[string]interface{}) error {
	if v, ok := patch["is_deleted"].(bool); ok {
		s.rows[id].IsDeleted = v
	}
	return nil
}

type stubFavoriteViews struct{}

func (stubFavoriteViews) FindAndCountByUser(_ int64, _ bool, _, _ int) ([]ds.VwFavoriteJob, int64, error) {
	return nil, 0, nil
}

type fixture struct {
	router *gin.Engine
	codec  *idcodec.Codec
	views  *stubViewStore
	jobs   *stubJobStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := idcodec.New("test-salt")
	require.NoError(t, err)

	jobs := &stubJobStore{jobs: map[int64]*ds.Job{}}
	shipments := stubShipmentStore{}
	views := &stubViewStore{rows: map[int64]*ds.VwJobList{}}
	tx := &stubTx{stores: service.TxStores{Jobs: jobs, Shipments: shipments, Views: views}}

	jobService := service.NewJobService(jobs, shipments, views, tx, codec, nil)
	favService := service.NewFavoriteService(
		&stubFavoriteStore{rows: map[int64]*ds.Favorite{}}, stubFavoriteViews{}, codec)

	router := gin.New()
	authMW := middleware.NewAuthMiddleware(auth.NewTokenService(testSecret))
	New(jobService, favService).RegisterRoutes(router, authMW)

	return &fixture{router: router, codec: codec, views: views, jobs: jobs}
}

func bearer(t *testing.T, userID, roles string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + raw
}

func (fx *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestListJobsEnvelope(t *testing.T) {
	fx := newFixture(t)
	fx.views.list = []ds.VwJobList{{ID: 1, ProductName: "Rice"}, {ID: 2, ProductName: "Sand"}}
	fx.views.total = 12

	w := fx.do(t, http.MethodGet, "/api/v1/jobs?page=2&rowsPerPage=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data             []service.JobView `json:"data"`
		Size             int               `json:"size"`
		CurrentPage      int               `json:"currentPage"`
		TotalPages       int               `json:"totalPages"`
		TotalElements    int64             `json:"totalElements"`
		NumberOfElements int               `json:"numberOfElements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, 5, envelope.Size)
	assert.Equal(t, 2, envelope.CurrentPage)
	assert.Equal(t, 3, envelope.TotalPages)
	assert.Equal(t, int64(12), envelope.TotalElements)
	assert.Equal(t, 2, envelope.NumberOfElements)
	assert.Equal(t, fx.codec.Encode(1), envelope.Data[0].ID)
}

func TestListJobsMalformedFilterIsBadRequest(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(t, http.MethodGet, "/api/v1/jobs?truckType=%5B6%2C", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateJobRequiresAuth(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(t, http.MethodPost, "/api/v1/jobs", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateJobReturnsEncodedID(t *testing.T) {
	fx := newFixture(t)
	token := bearer(t, fx.codec.Encode(9), "Shipper")

	body := map[string]interface{}{
		"productName": "Rice",
		"truckType":   "6",
		"from": map[string]string{
			"name": "Bangkok", "dateTime": "20-06-2021 10:00:00",
			"lat": "13.75", "lng": "100.5",
		},
		"to": []map[string]string{{
			"name": "Chiang Mai", "dateTime": "21-06-2021 08:30:00",
			"lat": "18.79", "lng": "98.98",
		}},
	}
	w := fx.do(t, http.MethodPost, "/api/v1/jobs", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, fx.codec.Encode(1), resp["id"])
}

func TestCreateJobHonorsPayloadOwnerForAnyCaller(t *testing.T) {
	fx := newFixture(t)
	token := bearer(t, fx.codec.Encode(9), "Shipper")

	body := map[string]interface{}{
		"productName": "Rice",
		"userId":      fx.codec.Encode(77),
		"from": map[string]string{
			"name": "Bangkok", "dateTime": "20-06-2021 10:00:00",
			"lat": "13.75", "lng": "100.5",
		},
	}
	w := fx.do(t, http.MethodPost, "/api/v1/jobs", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	created := fx.jobs.jobs[1]
	require.NotNil(t, created)
	assert.Equal(t, int64(77), created.UserID)
}

func TestJobDetailNotFound(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(t, http.MethodGet, "/api/v1/jobs/"+fx.codec.Encode(404), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobDetailMalformedID(t *testing.T) {
	fx := newFixture(t)

	w := fx.do(t, http.MethodGet, "/api/v1/jobs/not-a-real-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinishForeignJobIsUnauthorized(t *testing.T) {
	fx := newFixture(t)
	fx.jobs.jobs[5] = &ds.Job{ID: 5, UserID: 77}
	fx.views.rows[5] = &ds.VwJobList{ID: 5, UserID: 77}
	token := bearer(t, fx.codec.Encode(9), "Shipper")

	w := fx.do(t, http.MethodPatch, "/api/v1/jobs/"+fx.codec.Encode(5)+"/done", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFinishOwnJob(t *testing.T) {
	fx := newFixture(t)
	fx.jobs.jobs[5] = &ds.Job{ID: 5, UserID: 9}
	fx.views.rows[5] = &ds.VwJobList{ID: 5, UserID: 9}
	token := bearer(t, fx.codec.Encode(9), "Shipper")

	w := fx.do(t, http.MethodPatch, "/api/v1/jobs/"+fx.codec.Encode(5)+"/done", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteJobAccepted(t *testing.T) {
	fx := newFixture(t)
	token := bearer(t, fx.codec.Encode(9), "Shipper")

	w := fx.do(t, http.MethodDelete, "/api/v1/jobs/"+fx.codec.Encode(5), token, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestToggleFavorite(t *testing.T) {
	fx := newFixture(t)
	token := bearer(t, fx.codec.Encode(9), "Carrier")

	w := fx.do(t, http.MethodPost, "/api/v1/jobs/favorite", token,
		map[string]string{"id": fx.codec.Encode(42)})
	assert.Equal(t, http.StatusOK, w.Code)

	w = fx.do(t, http.MethodPost, "/api/v1/jobs/favorite", token,
		map[string]string{"id": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
