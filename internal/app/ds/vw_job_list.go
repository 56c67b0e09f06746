package ds

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	}
	return fmt.Errorf("unsupported jsonb column type %T", src)
}

// ShipmentStop is the aggregated destination shape the job list views
// expose (json_agg over the shipment table). Lat/lng are kept as strings,
// matching the view's character-varying cast.
type ShipmentStop struct {
	Name            string `json:"name"`
	DateTime        string `json:"dateTime"`
	ContactName     string `json:"contactName"`
	ContactMobileNo string `json:"contactMobileNo"`
	Lat             string `json:"lat"`
	Lng             string `json:"lng"`
}

type ShipmentStopList []ShipmentStop

func (l ShipmentStopList) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *ShipmentStopList) Scan(src interface{}) error  { return scanJSON(src, l) }

// Owner is the job owner's profile as joined into the list views from the
// external user service.
type Owner struct {
	ID       int64                  `json:"id"`
	FullName string                 `json:"fullName"`
	Email    string                 `json:"email"`
	MobileNo string                 `json:"mobileNo"`
	Avatar   map[string]interface{} `json:"avatar"`
}

func (o Owner) Value() (driver.Value, error) { return json.Marshal(o) }
func (o *Owner) Scan(src interface{}) error  { return scanJSON(src, o) }

// Truck, Quotation and Trip are carrier-bid records owned by the booking
// subsystem; they appear pre-joined on the detail view only.
type Truck struct {
	ID                 int64                  `json:"id"`
	Owner              *Owner                 `json:"owner"`
	Tipper             bool                   `json:"tipper"`
	WorkZone           []interface{}          `json:"work_zone"`
	CreatedAt          string                 `json:"created_at"`
	UpdatedAt          string                 `json:"updated_at"`
	TruckType          int                    `json:"truck_type"`
	StallHeight        string                 `json:"stall_height"`
	TruckPhotos        map[string]interface{} `json:"truck_photos"`
	ApproveStatus      string                 `json:"approve_status"`
	LoadingWeight      float64                `json:"loading_weight"`
	RegistrationNumber []string               `json:"registration_number"`
}

type Quotation struct {
	ID    int64  `json:"id"`
	Truck *Truck `json:"truck"`
}

type QuotationList []Quotation

func (l QuotationList) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *QuotationList) Scan(src interface{}) error  { return scanJSON(src, l) }

type Trip struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"bookingId"`
	TruckID   int64  `json:"truckId"`
	Owner     *Owner `json:"owner"`
	Status    string `json:"status"`
	Weight    string `json:"weight"`
	Price     string `json:"price"`
	PriceType string `json:"priceType"`
}

type TripList []Trip

func (l TripList) Value() (driver.Value, error) { return json.Marshal(l) }
func (l *TripList) Scan(src interface{}) error  { return scanJSON(src, l) }

// VwJobList - read-only composition of job + shipments + owner profile +
// quotations/trips, one row per job. All read paths go through it; writes
// go through the base tables.
type VwJobList struct {
	ID                  int64            `gorm:"primaryKey;column:id"`
	UserID              int64            `gorm:"column:user_id"`
	ProductTypeID       int              `gorm:"column:product_type_id"`
	ProductName         string           `gorm:"column:product_name"`
	TruckType           string           `gorm:"column:truck_type"`
	Weight              float64          `gorm:"column:weight"`
	RequiredTruckAmount int              `gorm:"column:required_truck_amount"`
	LoadingAddress      string           `gorm:"column:loading_address"`
	LoadingDatetime     *time.Time       `gorm:"column:loading_datetime"`
	LoadingContactName  string           `gorm:"column:loading_contact_name"`
	LoadingContactPhone string           `gorm:"column:loading_contact_phone"`
	LoadingLatitude     float64          `gorm:"column:loading_latitude"`
	LoadingLongitude    float64          `gorm:"column:loading_longitude"`
	Status              string           `gorm:"column:status"`
	Price               float64          `gorm:"column:price"`
	PriceType           string           `gorm:"column:price_type"`
	Tipper              bool             `gorm:"column:tipper"`
	IsDeleted           bool             `gorm:"column:is_deleted"`
	PublicAsCgl         bool             `gorm:"column:public_as_cgl"`
	Shipments           ShipmentStopList `gorm:"column:shipments;type:jsonb"`
	Owner               *Owner           `gorm:"column:owner;type:jsonb"`
	Quotations          QuotationList    `gorm:"column:quotations;type:jsonb"`
	Trips               TripList         `gorm:"column:trips;type:jsonb"`
	Family              *Family          `gorm:"column:family;type:jsonb"`
	CreatedAt           *time.Time       `gorm:"column:created_at"`
}

func (VwJobList) TableName() string { return "vw_job_list" }

// VwJobListV2 carries the same row shape as VwJobList; the v2 view adds
// the family column used to keep search results to family roots.
type VwJobListV2 struct {
	VwJobList `gorm:"embedded"`
}

func (VwJobListV2) TableName() string { return "vw_job_list_v2" }

// VwFavoriteJob - vw_job_list joined against the favorite table. user_id is
// the favoriting user and created_at the favorite's timestamp, used for
// ordering a user's saved jobs.
type VwFavoriteJob struct {
	VwJobList `gorm:"embedded"`
}

func (VwFavoriteJob) TableName() string { return "vw_favorite_job" }
