package service

import (
	"math"
	"time"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
	"github.com/teachdugsimt/cgl-op-job-service/internal/app/idcodec"
)

// Projector turns storage rows into the external representation: every id
// encoded, money rounded to two decimals, datetimes rendered in the wire
// layout.
type Projector struct {
	codec *idcodec.Codec
}

func NewProjector(codec *idcodec.Codec) *Projector {
	return &Projector{codec: codec}
}

// LocationView - a pickup or drop-off point in a response
type LocationView struct {
	Name            string  `json:"name"`
	DateTime        *string `json:"dateTime"`
	ContactName     string  `json:"contactName"`
	ContactMobileNo string  `json:"contactMobileNo"`
	Lat             string  `json:"lat"`
	Lng             string  `json:"lng"`
}

// OwnerView - the job owner's public profile
type OwnerView struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"userId"`
	FullName    string                 `json:"fullName"`
	CompanyName string                 `json:"companyName"`
	Email       string                 `json:"email"`
	MobileNo    string                 `json:"mobileNo"`
	Avatar      map[string]interface{} `json:"avatar,omitempty"`
}

// FamilyView - parent/child links with encoded ids
type FamilyView struct {
	Parent *string  `json:"parent"`
	Child  []string `json:"child"`
}

type TruckView struct {
	ID                 string                 `json:"id"`
	Owner              *OwnerView             `json:"owner,omitempty"`
	Tipper             bool                   `json:"tipper"`
	WorkZone           []interface{}          `json:"workingZones"`
	CreatedAt          *string                `json:"createdAt"`
	UpdatedAt          *string                `json:"updatedAt"`
	TruckType          int                    `json:"truckType"`
	StallHeight        string                 `json:"stallHeight"`
	TruckPhotos        map[string]interface{} `json:"truckPhotos,omitempty"`
	ApproveStatus      string                 `json:"approveStatus"`
	LoadingWeight      float64                `json:"loadingWeight"`
	RegistrationNumber []string               `json:"registrationNumber"`
}

type QuotationView struct {
	ID              string     `json:"id"`
	Truck           *TruckView `json:"truck,omitempty"`
	BookingDatetime *string    `json:"bookingDatetime"`
}

type TripView struct {
	ID        string     `json:"id"`
	BookingID string     `json:"bookingId"`
	TruckID   string     `json:"truckId"`
	Owner     *OwnerView `json:"owner,omitempty"`
	Status    string     `json:"status"`
	Weight    string     `json:"weight"`
	Price     string     `json:"price"`
	PriceType string     `json:"priceType"`
}

// JobView - a job row in its external shape
type JobView struct {
	ID                  string          `json:"id"`
	ProductTypeID       int             `json:"productTypeId"`
	ProductName         string          `json:"productName"`
	TruckType           string          `json:"truckType"`
	Weight              float64         `json:"weight"`
	RequiredTruckAmount int             `json:"requiredTruckAmount"`
	From                LocationView    `json:"from"`
	To                  []LocationView  `json:"to"`
	Owner               *OwnerView      `json:"owner,omitempty"`
	Status              string          `json:"status"`
	Price               float64         `json:"price"`
	PriceType           string          `json:"priceType"`
	Tipper              bool            `json:"tipper"`
	PublicAsCgl         bool            `json:"publicAsCgl"`
	Family              *FamilyView     `json:"family,omitempty"`
	Quotations          []QuotationView `json:"quotations,omitempty"`
	Trips               []TripView      `json:"trips,omitempty"`
	CreatedAt           *string         `json:"createdAt"`
}

// MstJobView - the minimal master-data shape of a job
type MstJobView struct {
	ID              string  `json:"id"`
	ProductTypeID   int     `json:"productTypeId"`
	ProductName     string  `json:"productName"`
	TruckType       string  `json:"truckType"`
	TotalWeight     float64 `json:"totalWeight"`
	TruckAmount     int     `json:"truckAmount"`
	Price           float64 `json:"price"`
	PriceType       string  `json:"priceType"`
	Tipper          bool    `json:"tipper"`
	PublicAsCgl     bool    `json:"publicAsCgl"`
	Status          string  `json:"status"`
	LoadingAddress  string  `json:"loadingAddress"`
	LoadingDatetime *string `json:"loadingDatetime"`
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// JobRow projects a list/detail view row. Quotations and trips are kept
// only on the detail path; list projections pass withBids=false.
func (p *Projector) JobRow(row ds.VwJobList, withBids bool) JobView {
	view := JobView{
		ID:                  p.codec.Encode(row.ID),
		ProductTypeID:       row.ProductTypeID,
		ProductName:         row.ProductName,
		TruckType:           row.TruckType,
		Weight:              RoundMoney(row.Weight),
		RequiredTruckAmount: row.RequiredTruckAmount,
		From: LocationView{
			Name:            row.LoadingAddress,
			DateTime:        formatDateTime(row.LoadingDatetime),
			ContactName:     row.LoadingContactName,
			ContactMobileNo: row.LoadingContactPhone,
			Lat:             formatCoord(row.LoadingLatitude),
			Lng:             formatCoord(row.LoadingLongitude),
		},
		To:          p.stops(row.Shipments),
		Owner:       p.owner(row.Owner),
		Status:      row.Status,
		Price:       RoundMoney(row.Price),
		PriceType:   row.PriceType,
		Tipper:      row.Tipper,
		PublicAsCgl: row.PublicAsCgl,
		Family:      p.family(row.Family),
		CreatedAt:   formatDateTime(row.CreatedAt),
	}
	if withBids {
		view.Quotations = p.quotations(row.Quotations, row.LoadingDatetime)
		view.Trips = p.trips(row.Trips)
	}
	return view
}

// JobRows projects a page of list rows.
func (p *Projector) JobRows(rows []ds.VwJobList) []JobView {
	views := make([]JobView, 0, len(rows))
	for _, row := range rows {
		views = append(views, p.JobRow(row, false))
	}
	return views
}

// MstJob projects a job entity into its master-data shape.
func (p *Projector) MstJob(job *ds.Job) MstJobView {
	return MstJobView{
		ID:              p.codec.Encode(job.ID),
		ProductTypeID:   job.ProductTypeID,
		ProductName:     job.ProductName,
		TruckType:       job.TruckType,
		TotalWeight:     RoundMoney(job.TotalWeight),
		TruckAmount:     job.TruckAmount,
		Price:           RoundMoney(job.OfferedTotal),
		PriceType:       job.PriceType,
		Tipper:          job.Tipper,
		PublicAsCgl:     job.PublicAsCgl,
		Status:          job.Status,
		LoadingAddress:  job.LoadingAddress,
		LoadingDatetime: formatDateTime(job.LoadingDatetime),
	}
}

func (p *Projector) stops(stops ds.ShipmentStopList) []LocationView {
	views := make([]LocationView, 0, len(stops))
	for _, s := range stops {
		views = append(views, LocationView{
			Name:            s.Name,
			DateTime:        formatRawDateTime(s.DateTime),
			ContactName:     s.ContactName,
			ContactMobileNo: s.ContactMobileNo,
			Lat:             s.Lat,
			Lng:             s.Lng,
		})
	}
	return views
}

func (p *Projector) owner(o *ds.Owner) *OwnerView {
	if o == nil {
		return nil
	}
	encoded := p.codec.Encode(o.ID)
	return &OwnerView{
		ID:          encoded,
		UserID:      encoded,
		FullName:    o.FullName,
		CompanyName: o.FullName,
		Email:       o.Email,
		MobileNo:    o.MobileNo,
		Avatar:      o.Avatar,
	}
}

func (p *Projector) family(f *ds.Family) *FamilyView {
	if f == nil {
		return nil
	}
	view := &FamilyView{Child: []string{}}
	if f.Parent != nil {
		encoded := p.codec.Encode(*f.Parent)
		view.Parent = &encoded
	}
	for _, child := range f.Child {
		view.Child = append(view.Child, p.codec.Encode(child))
	}
	return view
}

func (p *Projector) quotations(list ds.QuotationList, loadingDatetime *time.Time) []QuotationView {
	views := make([]QuotationView, 0, len(list))
	for _, q := range list {
		views = append(views, QuotationView{
			ID:              p.codec.Encode(q.ID),
			Truck:           p.truck(q.Truck),
			BookingDatetime: formatDateTime(loadingDatetime),
		})
	}
	return views
}

func (p *Projector) truck(t *ds.Truck) *TruckView {
	if t == nil {
		return nil
	}
	return &TruckView{
		ID:                 p.codec.Encode(t.ID),
		Owner:              p.owner(t.Owner),
		Tipper:             t.Tipper,
		WorkZone:           t.WorkZone,
		CreatedAt:          formatRawDateTime(t.CreatedAt),
		UpdatedAt:          formatRawDateTime(t.UpdatedAt),
		TruckType:          t.TruckType,
		StallHeight:        t.StallHeight,
		TruckPhotos:        t.TruckPhotos,
		ApproveStatus:      t.ApproveStatus,
		LoadingWeight:      t.LoadingWeight,
		RegistrationNumber: t.RegistrationNumber,
	}
}

func (p *Projector) trips(list ds.TripList) []TripView {
	views := make([]TripView, 0, len(list))
	for _, t := range list {
		views = append(views, TripView{
			ID:        p.codec.Encode(t.ID),
			BookingID: p.codec.Encode(t.BookingID),
			TruckID:   p.codec.Encode(t.TruckID),
			Owner:     p.owner(t.Owner),
			Status:    t.Status,
			Weight:    t.Weight,
			Price:     t.Price,
			PriceType: t.PriceType,
		})
	}
	return views
}

// formatDateTime renders a timestamp in the wire layout; nil and zero
// values render as null.
func formatDateTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(DateTimeLayout)
	return &s
}

// formatRawDateTime renders a timestamp string as aggregated by the list
// views. Unparsable values render as null rather than failing the row.
func formatRawDateTime(raw string) *string {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		DateTimeSecLayout,
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			s := t.Format(DateTimeLayout)
			return &s
		}
	}
	return nil
}
