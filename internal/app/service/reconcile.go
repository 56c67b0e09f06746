package service

import (
	"strconv"
	"time"

	"github.com/teachdugsimt/cgl-op-job-service/internal/app/ds"
)

// Wire datetime layouts. Clients submit stop datetimes with seconds;
// list/detail responses render without them.
const (
	DateTimeLayout    = "02-01-2006 15:04"
	DateTimeSecLayout = "02-01-2006 15:04:05"
)

// StopInput - one destination stop as submitted by the client
type StopInput struct {
	Name            string `json:"name"`
	DateTime        string `json:"dateTime"`
	ContactName     string `json:"contactName"`
	ContactMobileNo string `json:"contactMobileNo"`
	Lat             string `json:"lat"`
	Lng             string `json:"lng"`
}

// ShipmentDiff is the reconciliation outcome for a job's destination set.
type ShipmentDiff struct {
	ToDelete []int64
	ToAdd    []StopInput
}

// DiffShipments compares the stored destination stops with the requested
// set and produces the minimal change set: stops present on both sides are
// untouched, stored stops absent from the request are deleted, requested
// stops absent from storage are added. Two stops match only when contact
// phone, contact name, delivery datetime and coordinates all agree.
func DiffShipments(existing []ds.Shipment, requested []StopInput) ShipmentDiff {
	var diff ShipmentDiff

	for _, row := range existing {
		matched := false
		for _, stop := range requested {
			if stopMatches(row, stop) {
				matched = true
				break
			}
		}
		if !matched {
			diff.ToDelete = append(diff.ToDelete, row.ID)
		}
	}

	for _, stop := range requested {
		matched := false
		for _, row := range existing {
			if stopMatches(row, stop) {
				matched = true
				break
			}
		}
		if !matched {
			diff.ToAdd = append(diff.ToAdd, stop)
		}
	}

	return diff
}

func stopMatches(row ds.Shipment, stop StopInput) bool {
	if row.PhoneDest != stop.ContactMobileNo || row.FullnameDest != stop.ContactName {
		return false
	}
	if !datetimeEqual(row.DeliveryDatetime, stop.DateTime) {
		return false
	}
	return formatCoord(row.LatitudeDest) == stop.Lat &&
		formatCoord(row.LongitudeDest) == stop.Lng
}

// datetimeEqual normalizes both sides to an instant before comparing, so a
// stored timestamp and its wire rendering compare equal.
func datetimeEqual(stored *time.Time, wire string) bool {
	parsed, err := ParseWireDateTime(wire)
	if err != nil {
		return false
	}
	if stored == nil {
		return false
	}
	return stored.Equal(parsed)
}

// ParseWireDateTime accepts both client layouts, with and without seconds.
func ParseWireDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeSecLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(DateTimeLayout, s)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
