package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/apperr"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/idcodec"
)

// JobService implements the job lifecycle: create, list, search, patch,
// finish and soft delete. External ids are decoded at entry and encoded on
// the way out; raw ids never cross the boundary.
type JobService struct {
	jobs      JobStore
	shipments ShipmentStore
	views     JobViewStore
	tx        TxRunner
	codec     *idcodec.Codec
	projector *Projector
	notifier  Notifier
	now       func() time.Time
}

func NewJobService(jobs JobStore, shipments ShipmentStore, views JobViewStore, tx TxRunner, codec *idcodec.Codec, notifier Notifier) *JobService {
	return &JobService{
		jobs:      jobs,
		shipments: shipments,
		views:     views,
		tx:        tx,
		codec:     codec,
		projector: NewProjector(codec),
		notifier:  notifier,
		now:       time.Now,
	}
}

// EncodeID renders a raw id in its external form.
func (s *JobService) EncodeID(id int64) string {
	return s.codec.Encode(id)
}

// AddJobInput - job creation payload
type AddJobInput struct {
	TruckType           string      `json:"truckType"`
	TruckAmount         int         `json:"truckAmount"`
	ProductTypeID       int         `json:"productTypeId"`
	ProductName         string      `json:"productName"`
	Weight              float64     `json:"weight"`
	Price               float64     `json:"price"`
	PriceType           string      `json:"priceType"`
	Tipper              bool        `json:"tipper"`
	ExpiredTime         string      `json:"expiredTime"`
	HandlingInstruction string      `json:"handlingInstruction"`
	PublicAsCgl         bool        `json:"publicAsCgl"`
	Platform            int         `json:"platform"`
	UserID              string      `json:"userId"`      // encoded, admin create-on-behalf
	ParentJobID         string      `json:"parentJobId"` // encoded family parent
	From                StopInput   `json:"from"`
	To                  []StopInput `json:"to"`
}

// UpdateJobInput - partial update payload; nil fields are left untouched.
// Status is not patchable here: lifecycle transitions go through FinishJob.
type UpdateJobInput struct {
	TruckType           *string     `json:"truckType"`
	TruckAmount         *int        `json:"truckAmount"`
	ProductTypeID       *int        `json:"productTypeId"`
	ProductName         *string     `json:"productName"`
	Weight              *float64    `json:"weight"`
	Price               *float64    `json:"price"`
	PriceType           *string     `json:"priceType"`
	Tipper              *bool       `json:"tipper"`
	ExpiredTime         *string     `json:"expiredTime"`
	HandlingInstruction *string     `json:"handlingInstruction"`
	PublicAsCgl         *bool       `json:"publicAsCgl"`
	From                *StopInput  `json:"from"`
	To                  []StopInput `json:"to"`
}

// AddJob persists a new job with its destination stops in one transaction,
// refreshes the denormalized search text, links the family parent when one
// is given and dispatches the creation notification.
func (s *JobService) AddJob(input AddJobInput, callerID string) (*ds.Job, error) {
	ownerEncoded := input.UserID
	if ownerEncoded == "" {
		ownerEncoded = callerID
	}
	ownerID, err := s.codec.Decode(ownerEncoded)
	if err != nil {
		return nil, err
	}

	job, err := s.buildJob(input, ownerID)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTx(func(tx TxStores) error {
		if err := tx.Jobs.Insert(job); err != nil {
			return err
		}

		rows, err := s.buildShipments(job.ID, input.To, ownerID)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Shipments.BulkInsert(rows); err != nil {
				return err
			}
		}

		if err := s.refreshSearchText(tx.Jobs, tx.Views, job.ID); err != nil {
			return err
		}

		if input.ParentJobID != "" {
			parentID, err := s.codec.Decode(input.ParentJobID)
			if err != nil {
				return err
			}
			if err := LinkChild(tx.Jobs, parentID, job.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.JobCreated(JobCreatedNote{
			TargetUserID:  ownerEncoded,
			JobID:         s.codec.Encode(job.ID),
			ProductName:   job.ProductName,
			PickupPoint:   input.From.Name,
			DeliveryPoint: firstStopName(input.To),
		})
	}

	return job, nil
}

// UpdateDetail applies a partial update and reconciles the destination set
// when one is submitted. Ownership is not verified here; access scoping is
// the gateway's concern.
func (s *JobService) UpdateDetail(jobID, userID string, input UpdateJobInput) error {
	id, err := s.codec.Decode(jobID)
	if err != nil {
		return err
	}
	uid, err := s.codec.Decode(userID)
	if err != nil {
		return err
	}

	patch, err := s.buildPatch(input, uid)
	if err != nil {
		return err
	}
	if len(patch) > 0 {
		if err := s.jobs.Update(id, patch); err != nil {
			return err
		}
	}

	// an omitted or empty destination list leaves the stored stops untouched
	if len(input.To) > 0 {
		if err := s.reconcileShipments(id, uid, input.To); err != nil {
			return err
		}
	}

	if err := s.refreshSearchText(s.jobs, s.views, id); err != nil {
		logrus.WithError(err).WithField("job_id", id).Warn("search text refresh failed")
	}
	return nil
}

// DeactivateJob soft deletes a job and its shipments. Repeated calls are
// harmless.
func (s *JobService) DeactivateJob(jobID, userID string) error {
	id, err := s.codec.Decode(jobID)
	if err != nil {
		return err
	}
	uid, err := s.codec.Decode(userID)
	if err != nil {
		return err
	}

	patch := map[string]interface{}{
		"is_deleted":   true,
		"updated_user": strconv.FormatInt(uid, 10),
	}
	if err := s.jobs.Update(id, patch); err != nil {
		return err
	}
	return s.shipments.UpdateByJobID(id, map[string]interface{}{
		"is_deleted":   true,
		"updated_user": strconv.FormatInt(uid, 10),
	})
}

// FinishJob closes a job as DONE, or CANCELLED when the cancel reason is
// given. Non-admin callers may only finish their own jobs; a job outside
// their scope surfaces as a permission error, not a lookup miss. Trip
// status is propagated before the job's own status changes.
func (s *JobService) FinishJob(jobID, userID, reason string, isAdmin bool) error {
	id, err := s.codec.Decode(jobID)
	if err != nil {
		return err
	}
	uid, err := s.codec.Decode(userID)
	if err != nil {
		return err
	}

	status := ds.JobStatusDone
	if reason == ds.CancelJobReason {
		status = ds.JobStatusCancelled
	}

	var row *ds.VwJobList
	if isAdmin {
		row, err = s.views.FindByID(id)
	} else {
		row, err = s.views.FindByIDForOwner(id, uid)
	}
	if err != nil {
		return err
	}
	if row == nil {
		return apperr.ErrPermissionDenied
	}

	if len(row.Trips) > 0 {
		if err := s.jobs.UpdateTripStatusByJobID(id, status); err != nil {
			return err
		}
	}

	return s.jobs.Update(id, map[string]interface{}{
		"status":       status,
		"updated_user": strconv.FormatInt(uid, 10),
	})
}

// GetAllJob lists jobs matching the filter. Soft-deleted rows stay hidden
// unless an admin asks for them.
func (s *JobService) GetAllJob(f JobFilter, isAdmin bool) ([]JobView, int64, error) {
	f.ShowDeleted = f.ShowDeleted && isAdmin

	plan, err := CompileJobFilter(f, s.now())
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.views.FindAndCount(plan)
	if err != nil {
		return nil, 0, err
	}
	return s.projector.JobRows(rows), total, nil
}

// SearchJobs is the v2 listing: identical filtering, but results are kept
// to family roots so split jobs appear once.
func (s *JobService) SearchJobs(f JobFilter, isAdmin bool) ([]JobView, int64, error) {
	f.ShowDeleted = f.ShowDeleted && isAdmin

	plan, err := CompileJobFilter(f, s.now())
	if err != nil {
		return nil, 0, err
	}
	if plan.FullText != nil {
		plan.FullText.RootsOnly = true
	}
	rows, total, err := s.views.SearchRoots(plan)
	if err != nil {
		return nil, 0, err
	}
	return s.projector.JobRows(rows), total, nil
}

// GetJobWithUserID lists the caller's own jobs, expired ones included.
func (s *JobService) GetJobWithUserID(userID string, f JobFilter) ([]JobView, int64, error) {
	uid, err := s.codec.Decode(userID)
	if err != nil {
		return nil, 0, err
	}
	f.OwnerID = &uid
	f.IncludeExpired = true

	plan, err := CompileJobFilter(f, s.now())
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.views.FindAndCount(plan)
	if err != nil {
		return nil, 0, err
	}
	return s.projector.JobRows(rows), total, nil
}

// GetJobDetail returns one job with its quotations and trips.
func (s *JobService) GetJobDetail(jobID string) (*JobView, error) {
	id, err := s.codec.Decode(jobID)
	if err != nil {
		return nil, err
	}
	row, err := s.views.FindByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.ErrNotFound
	}
	view := s.projector.JobRow(*row, true)
	return &view, nil
}

// FindMstJob returns the master-data shape of a job.
func (s *JobService) FindMstJob(jobID string) (*MstJobView, error) {
	id, err := s.codec.Decode(jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.ErrNotFound
	}
	view := s.projector.MstJob(job)
	return &view, nil
}

func (s *JobService) buildJob(input AddJobInput, ownerID int64) (*ds.Job, error) {
	loadingAt, err := ParseWireDateTime(input.From.DateTime)
	if err != nil {
		return nil, fmt.Errorf("%w: from.dateTime: %v", apperr.ErrValidation, err)
	}
	lat, lng, err := parseCoords(input.From.Lat, input.From.Lng)
	if err != nil {
		return nil, err
	}

	job := &ds.Job{
		Status:              ds.JobStatusNew,
		OfferedTotal:        input.Price,
		UserID:              ownerID,
		ProductTypeID:       input.ProductTypeID,
		ProductName:         input.ProductName,
		TotalWeight:         input.Weight,
		TruckType:           input.TruckType,
		TruckAmount:         input.TruckAmount,
		Tipper:              input.Tipper,
		PriceType:           input.PriceType,
		HandlingInstruction: input.HandlingInstruction,
		LoadingAddress:      input.From.Name,
		LoadingDatetime:     &loadingAt,
		LoadingContactName:  input.From.ContactName,
		LoadingContactPhone: input.From.ContactMobileNo,
		LoadingLatitude:     lat,
		LoadingLongitude:    lng,
		Platform:            input.Platform,
		PublicAsCgl:         input.PublicAsCgl,
		CreatedUser:         strconv.FormatInt(ownerID, 10),
		UpdatedUser:         strconv.FormatInt(ownerID, 10),
	}

	if input.ExpiredTime != "" {
		validUntil, err := ParseWireDateTime(input.ExpiredTime)
		if err != nil {
			return nil, fmt.Errorf("%w: expiredTime: %v", apperr.ErrValidation, err)
		}
		job.ValidUntil = &validUntil
	}
	return job, nil
}

func (s *JobService) buildShipments(jobID int64, stops []StopInput, ownerID int64) ([]ds.Shipment, error) {
	rows := make([]ds.Shipment, 0, len(stops))
	for _, stop := range stops {
		deliveryAt, err := ParseWireDateTime(stop.DateTime)
		if err != nil {
			return nil, fmt.Errorf("%w: to.dateTime: %v", apperr.ErrValidation, err)
		}
		lat, lng, err := parseCoords(stop.Lat, stop.Lng)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ds.Shipment{
			JobID:            jobID,
			Status:           ds.JobStatusNew,
			AddressDest:      stop.Name,
			DeliveryDatetime: &deliveryAt,
			FullnameDest:     stop.ContactName,
			PhoneDest:        stop.ContactMobileNo,
			LatitudeDest:     lat,
			LongitudeDest:    lng,
			CreatedUser:      strconv.FormatInt(ownerID, 10),
			UpdatedUser:      strconv.FormatInt(ownerID, 10),
		})
	}
	return rows, nil
}

func (s *JobService) buildPatch(input UpdateJobInput, userID int64) (map[string]interface{}, error) {
	patch := map[string]interface{}{}
	if input.TruckType != nil {
		patch["truck_type"] = *input.TruckType
	}
	if input.TruckAmount != nil {
		patch["truck_amount"] = *input.TruckAmount
	}
	if input.ProductTypeID != nil {
		patch["product_type_id"] = *input.ProductTypeID
	}
	if input.ProductName != nil {
		patch["product_name"] = *input.ProductName
	}
	if input.Weight != nil {
		patch["total_weight"] = *input.Weight
	}
	if input.Price != nil {
		patch["offered_total"] = *input.Price
	}
	if input.PriceType != nil {
		patch["price_type"] = *input.PriceType
	}
	if input.Tipper != nil {
		patch["tipper"] = *input.Tipper
	}
	if input.HandlingInstruction != nil {
		patch["handling_instruction"] = *input.HandlingInstruction
	}
	if input.PublicAsCgl != nil {
		patch["public_as_cgl"] = *input.PublicAsCgl
	}
	if input.ExpiredTime != nil {
		validUntil, err := ParseWireDateTime(*input.ExpiredTime)
		if err != nil {
			return nil, fmt.Errorf("%w: expiredTime: %v", apperr.ErrValidation, err)
		}
		patch["valid_until"] = validUntil
	}
	if input.From != nil {
		loadingAt, err := ParseWireDateTime(input.From.DateTime)
		if err != nil {
			return nil, fmt.Errorf("%w: from.dateTime: %v", apperr.ErrValidation, err)
		}
		lat, lng, err := parseCoords(input.From.Lat, input.From.Lng)
		if err != nil {
			return nil, err
		}
		patch["loading_address"] = input.From.Name
		patch["loading_datetime"] = loadingAt
		patch["loading_contact_name"] = input.From.ContactName
		patch["loading_contact_phone"] = input.From.ContactMobileNo
		patch["loading_latitude"] = lat
		patch["loading_longitude"] = lng
	}
	if len(patch) > 0 {
		patch["updated_user"] = strconv.FormatInt(userID, 10)
	}
	return patch, nil
}

// reconcileShipments diffs the stored destination set against the request
// and applies deletions before insertions.
func (s *JobService) reconcileShipments(jobID, userID int64, requested []StopInput) error {
	existing, err := s.shipments.FindByJobID(jobID)
	if err != nil {
		return err
	}
	diff := DiffShipments(existing, requested)

	if len(diff.ToDelete) > 0 {
		if err := s.shipments.DeleteByIDs(diff.ToDelete); err != nil {
			return err
		}
	}
	if len(diff.ToAdd) > 0 {
		rows, err := s.buildShipments(jobID, diff.ToAdd, userID)
		if err != nil {
			return err
		}
		if err := s.shipments.BulkInsert(rows); err != nil {
			return err
		}
	}
	return nil
}

// refreshSearchText rebuilds the weighted search blob from the list view:
// product name first, then owner, then pickup, then destinations.
func (s *JobService) refreshSearchText(jobs JobStore, views JobViewStore, jobID int64) error {
	row, err := views.FindByID(jobID)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}

	var ownerName string
	if row.Owner != nil {
		ownerName = row.Owner.FullName
	}

	pickup := row.LoadingAddress
	if d := formatDateTime(row.LoadingDatetime); d != nil {
		pickup += " " + *d
	}

	var dests []string
	for _, stop := range row.Shipments {
		dests = append(dests, stop.Name)
	}

	return jobs.SetFullTextSearch(jobID, []string{
		row.ProductName,
		ownerName,
		pickup,
		strings.Join(dests, " "),
	})
}

func parseCoords(lat, lng string) (float64, float64, error) {
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lat: %v", apperr.ErrValidation, err)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lng: %v", apperr.ErrValidation, err)
	}
	return latF, lngF, nil
}

func firstStopName(stops []StopInput) string {
	if len(stops) == 0 {
		return ""
	}
	return stops[0].Name
}
