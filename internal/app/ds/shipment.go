package ds

import "time"

// Shipment - one destination leg (drop-off stop) of a job
type Shipment struct {
	ID               int64      `json:"id" gorm:"primaryKey;column:id"`
	JobID            int64      `json:"jobId" gorm:"column:job_id"`
	Status           string     `json:"status" gorm:"column:status"`
	AddressDest      string     `json:"addressDest" gorm:"column:address_dest"`
	DeliveryDatetime *time.Time `json:"deliveryDatetime" gorm:"column:delivery_datetime"`
	FullnameDest     string     `json:"fullnameDest" gorm:"column:fullname_dest"`
	PhoneDest        string     `json:"phoneDest" gorm:"column:phone_dest"`
	LatitudeDest     float64    `json:"latitudeDest" gorm:"column:latitude_dest"`
	LongitudeDest    float64    `json:"longitudeDest" gorm:"column:longitude_dest"`
	IsDeleted        bool       `json:"-" gorm:"column:is_deleted"`
	CreatedUser      string     `json:"-" gorm:"column:created_user"`
	UpdatedUser      string     `json:"-" gorm:"column:updated_user"`
	CreatedAt        time.Time  `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" gorm:"column:updated_at"`
}

func (Shipment) TableName() string { return "shipment" }
