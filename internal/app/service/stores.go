package service

import (
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

// Persistence surfaces the services depend on. The repository package
// implements all of them; tests substitute fakes.

type JobStore interface {
	Insert(job *ds.Job) error
	FindByID(id int64) (*ds.Job, error)
	Update(id int64, patch map[string]interface{}) error
	SetFullTextSearch(id int64, texts []string) error
	UpdateTripStatusByJobID(jobID int64, status string) error
}

type ShipmentStore interface {
	BulkInsert(rows []ds.Shipment) error
	FindByJobID(jobID int64) ([]ds.Shipment, error)
	DeleteByIDs(ids []int64) error
	UpdateByJobID(jobID int64, patch map[string]interface{}) error
}

type JobViewStore interface {
	FindByID(id int64) (*ds.VwJobList, error)
	FindByIDForOwner(id, ownerID int64) (*ds.VwJobList, error)
	FindAndCount(plan QueryPlan) ([]ds.VwJobList, int64, error)
	SearchRoots(plan QueryPlan) ([]ds.VwJobList, int64, error)
}

type FavoriteStore interface {
	Find(userID, jobID int64) (*ds.Favorite, error)
	Insert(f *ds.Favorite) error
	Update(id int64, patch map[string]interface{}) error
}

type FavoriteViewStore interface {
	FindAndCountByUser(userID int64, descending bool, limit, offset int) ([]ds.VwFavoriteJob, int64, error)
}

// TxStores bundles the write-side stores handed to a transactional closure.
type TxStores struct {
	Jobs      JobStore
	Shipments ShipmentStore
	Views     JobViewStore
}

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	InTx(fn func(s TxStores) error) error
}

// Notifier dispatches fire-and-forget notifications about new jobs.
type Notifier interface {
	JobCreated(note JobCreatedNote)
}

// JobCreatedNote - payload for the notification service
type JobCreatedNote struct {
	TargetUserID  string `json:"targetUserId"`
	JobID         string `json:"jobId"`
	ProductName   string `json:"productName"`
	PickupPoint   string `json:"pickupPoint"`
	DeliveryPoint string `json:"deliveryPoint"`
}
