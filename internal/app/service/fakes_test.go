package service

import (
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

type fakeJobStore struct {
	jobs       map[int64]*ds.Job
	nextID     int64
	patches    []map[string]interface{}
	searchText map[int64][]string
	tripStatus map[int64]string
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobs:       map[int64]*ds.Job{},
		nextID:     1,
		searchText: map[int64][]string{},
		tripStatus: map[int64]string{},
	}
}

func (f *fakeJobStore) Insert(job *ds.Job) error {
	job.ID = f.nextID
	f.nextID++
	clone := *job
	f.jobs[job.ID] = &clone
	return nil
}

func (f *fakeJobStore) FindByID(id int64) (*ds.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobStore) Update(id int64, patch map[string]interface{}) error {
	f.patches = append(f.patches, patch)
	job, ok := f.jobs[id]
	if !ok {
		return nil
	}
	if v, ok := patch["status"].(string); ok {
		job.Status = v
	}
	if v, ok := patch["is_deleted"].(bool); ok {
		job.IsDeleted = v
	}
	if v, ok := patch["family"].(ds.Family); ok {
		clone := v
		job.Family = &clone
	}
	return nil
}

func (f *fakeJobStore) SetFullTextSearch(id int64, texts []string) error {
	f.searchText[id] = texts
	return nil
}

func (f *fakeJobStore) UpdateTripStatusByJobID(jobID int64, status string) error {
	f.tripStatus[jobID] = status
	return nil
}

type fakeShipmentStore struct {
	rows     []ds.Shipment
	nextID   int64
	deleted  []int64
	patches  []map[string]interface{}
	inserted [][]ds.Shipment
}

func newFakeShipmentStore() *fakeShipmentStore {
	return &fakeShipmentStore{nextID: 1}
}

func (f *fakeShipmentStore) BulkInsert(rows []ds.Shipment) error {
	for i := range rows {
		rows[i].ID = f.nextID
		f.nextID++
		f.rows = append(f.rows, rows[i])
	}
	f.inserted = append(f.inserted, rows)
	return nil
}

func (f *fakeShipmentStore) FindByJobID(jobID int64) ([]ds.Shipment, error) {
	var out []ds.Shipment
	for _, row := range f.rows {
		if row.JobID == jobID && !row.IsDeleted {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeShipmentStore) DeleteByIDs(ids []int64) error {
	f.deleted = append(f.deleted, ids...)
	for _, id := range ids {
		for i := range f.rows {
			if f.rows[i].ID == id {
				f.rows[i].IsDeleted = true
			}
		}
	}
	return nil
}

func (f *fakeShipmentStore) UpdateByJobID(jobID int64, patch map[string]interface{}) error {
	f.patches = append(f.patches, patch)
	if v, ok := patch["is_deleted"].(bool); ok {
		for i := range f.rows {
			if f.rows[i].JobID == jobID {
				f.rows[i].IsDeleted = v
			}
		}
	}
	return nil
}

type fakeViewStore struct {
	rows      map[int64]*ds.VwJobList
	lastPlan  *QueryPlan
	listRows  []ds.VwJobList
	listTotal int64
	rootsOnly bool
}

func newFakeViewStore() *fakeViewStore {
	return &fakeViewStore{rows: map[int64]*ds.VwJobList{}}
}

func (f *fakeViewStore) FindByID(id int64) (*ds.VwJobList, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *fakeViewStore) FindByIDForOwner(id, ownerID int64) (*ds.VwJobList, error) {
	row, ok := f.rows[id]
	if !ok || row.UserID != ownerID {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (f *fakeViewStore) FindAndCount(plan QueryPlan) ([]ds.VwJobList, int64, error) {
	f.lastPlan = &plan
	return f.listRows, f.listTotal, nil
}

func (f *fakeViewStore) SearchRoots(plan QueryPlan) ([]ds.VwJobList, int64, error) {
	f.lastPlan = &plan
	f.rootsOnly = true
	return f.listRows, f.listTotal, nil
}

type fakeTxRunner struct {
	stores TxStores
	calls  int
}

func (f *fakeTxRunner) InTx(fn func(s TxStores) error) error {
	f.calls++
	return fn(f.stores)
}

type fakeNotifier struct {
	notes []JobCreatedNote
}

func (f *fakeNotifier) JobCreated(note JobCreatedNote) {
	f.notes = append(f.notes, note)
}

type fakeFavoriteStore struct {
	rows    map[int64]*ds.Favorite
	nextID  int64
	patches []map[string]interface{}
}

func newFakeFavoriteStore() *fakeFavoriteStore {
	return &fakeFavoriteStore{rows: map[int64]*ds.Favorite{}, nextID: 1}
}

func (f *fakeFavoriteStore) Find(userID, jobID int64) (*ds.Favorite, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.JobID == jobID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeFavoriteStore) Insert(fav *ds.Favorite) error {
	fav.ID = f.nextID
	f.nextID++
	clone := *fav
	f.rows[fav.ID] = &clone
	return nil
}

func (f *fakeFavoriteStore) Update(id int64, patch map[string]interface{}) error {
	f.patches = append(f.patches, patch)
	if row, ok := f.rows[id]; ok {
		if v, ok := patch["is_deleted"].(bool); ok {
			row.IsDeleted = v
		}
	}
	return nil
}

type fakeFavoriteViewStore struct {
	rows  []ds.VwFavoriteJob
	total int64
}

func (f *fakeFavoriteViewStore) FindAndCountByUser(userID int64, descending bool, limit, offset int) ([]ds.VwFavoriteJob, int64, error) {
	return f.rows, f.total, nil
}
