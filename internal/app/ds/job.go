package ds

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Job statuses. NEW is the only creatable status; INPROGRESS is set by the
// booking subsystem; DONE/CANCELLED are terminal; EXPIRED is time-driven.
const (
	JobStatusNew        = "NEW"
	JobStatusInProgress = "INPROGRESS"
	JobStatusCancelled  = "CANCELLED"
	JobStatusDone       = "DONE"
	JobStatusExpired    = "EXPIRED"
)

// Price types
const (
	PriceTypePerTrip = "PER_TRIP"
	PriceTypePerTon  = "PER_TON"
)

// Platforms
const (
	PlatformPC     = 0
	PlatformMobile = 1
)

// CancelReason value that turns a finish request into a cancellation.
const CancelJobReason = "CANCELJOB"

// Family links split shipments: a job with children is a root (Parent is
// nil); a child points back at its parent. Stored as jsonb on the job row.
type Family struct {
	Parent *int64  `json:"parent"`
	Child  []int64 `json:"child"`
}

func (f Family) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *Family) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return fmt.Errorf("unsupported family column type %T", src)
}

// Job - a freight transportation request posted by a shipper
type Job struct {
	ID                  int64      `json:"id" gorm:"primaryKey;column:id"`
	Status              string     `json:"status" gorm:"column:status"`
	OfferedTotal        float64    `json:"offeredTotal" gorm:"column:offered_total"`
	UserID              int64      `json:"userId" gorm:"column:user_id"`
	ProductTypeID       int        `json:"productTypeId" gorm:"column:product_type_id"`
	ProductName         string     `json:"productName" gorm:"column:product_name"`
	TotalWeight         float64    `json:"totalWeight" gorm:"column:total_weight"`
	TruckType           string     `json:"truckType" gorm:"column:truck_type"`
	TruckAmount         int        `json:"truckAmount" gorm:"column:truck_amount"`
	Tipper              bool       `json:"tipper" gorm:"column:tipper"`
	PriceType           string     `json:"priceType" gorm:"column:price_type"`
	ValidUntil          *time.Time `json:"validUntil" gorm:"column:valid_until"`
	HandlingInstruction string     `json:"handlingInstruction" gorm:"column:handling_instruction"`
	LoadingAddress      string     `json:"loadingAddress" gorm:"column:loading_address"`
	LoadingDatetime     *time.Time `json:"loadingDatetime" gorm:"column:loading_datetime"`
	LoadingContactName  string     `json:"loadingContactName" gorm:"column:loading_contact_name"`
	LoadingContactPhone string     `json:"loadingContactPhone" gorm:"column:loading_contact_phone"`
	LoadingLatitude     float64    `json:"loadingLatitude" gorm:"column:loading_latitude"`
	LoadingLongitude    float64    `json:"loadingLongitude" gorm:"column:loading_longitude"`
	Platform            int        `json:"platform" gorm:"column:platform"`
	PublicAsCgl         bool       `json:"publicAsCgl" gorm:"column:public_as_cgl"`
	Family              *Family    `json:"family" gorm:"column:family;type:jsonb"`
	IsDeleted           bool       `json:"-" gorm:"column:is_deleted"`
	FullTextSearch      string     `json:"-" gorm:"column:full_text_search"`
	CreatedUser         string     `json:"-" gorm:"column:created_user"`
	UpdatedUser         string     `json:"-" gorm:"column:updated_user"`
	CreatedAt           time.Time  `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" gorm:"column:updated_at"`
}

func (Job) TableName() string { return "job" }
