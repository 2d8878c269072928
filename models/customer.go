// chitsmart/models/customer.go
package models

import (
	"time"
)

// LiftStatus says whether a member has already received the pooled payout.
type LiftStatus string

const (
	LiftStatusLifted    LiftStatus = "Lifted"
	LiftStatusRunning   LiftStatus = "Running"
	LiftStatusDefaulted LiftStatus = "Defaulted"
)

// Valid reports whether s is one of the known statuses.
func (s LiftStatus) Valid() bool {
	switch s {
	case LiftStatusLifted, LiftStatusRunning, LiftStatusDefaulted:
		return true
	}
	return false
}

// Label is the text rendered in the status badge.
func (s LiftStatus) Label() string {
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// BadgeVariant maps a status to the badge style used by the templates.
func (s LiftStatus) BadgeVariant() string {
	switch s {
	case LiftStatusLifted:
		return "default"
	case LiftStatusRunning:
		return "secondary"
	case LiftStatusDefaulted:
		return "destructive"
	}
	return "outline"
}

// ParseLiftStatus accepts any casing of a known status.
func ParseLiftStatus(v string) (LiftStatus, bool) {
	for _, s := range []LiftStatus{LiftStatusLifted, LiftStatusRunning, LiftStatusDefaulted} {
		if equalFold(v, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Customer is a member of a chit fund. Number is the business lookup key and
// may be stored either as 9876543210 or +919876543210.
type Customer struct {
	ID            string     `json:"id"            gorm:"primaryKey"                bson:"-"             firestore:"-"`
	Name          string     `json:"name"          gorm:"not null"                  bson:"name"          firestore:"name"`
	Number        string     `json:"number"        gorm:"column:number;index"       bson:"number"        firestore:"number"`
	Scheme        int64      `json:"scheme"        gorm:"column:scheme"             bson:"scheme"        firestore:"scheme"`
	LiftStatus    LiftStatus `json:"liftStatus"    gorm:"column:lift_status"        bson:"liftStatus"    firestore:"liftStatus"`
	DisbursedDate string     `json:"disbursedDate" gorm:"column:disbursed_date"     bson:"disbursedDate" firestore:"disbursedDate"`
	CreatedAt     time.Time  `json:"-"             gorm:"autoCreateTime"            bson:"-"             firestore:"-"`
	UpdatedAt     time.Time  `json:"-"             gorm:"autoUpdateTime"            bson:"-"             firestore:"-"`
}

func (Customer) TableName() string { return "customers" }

// DisbursedLabel renders the disbursed date with the N/A default.
func (c Customer) DisbursedLabel() string {
	if c.DisbursedDate == "" {
		return "N/A"
	}
	return c.DisbursedDate
}

// CustomerFromFields builds a Customer from a loosely typed document. Documents
// without a string name, a string number and a numeric scheme are rejected so
// that callers can skip them.
func CustomerFromFields(id string, data map[string]interface{}) (Customer, bool) {
	if data == nil {
		return Customer{}, false
	}
	name, ok := data["name"].(string)
	if !ok {
		return Customer{}, false
	}
	number, ok := data["number"].(string)
	if !ok {
		return Customer{}, false
	}
	scheme, ok := toInt64(data["scheme"])
	if !ok {
		return Customer{}, false
	}

	c := Customer{ID: id, Name: name, Number: number, Scheme: scheme}
	if v, ok := data["liftStatus"].(string); ok {
		c.LiftStatus = LiftStatus(v)
	}
	switch v := data["disbursedDate"].(type) {
	case string:
		c.DisbursedDate = v
	case time.Time:
		c.DisbursedDate = v.Format("02-Jan-2006")
	}
	return c, true
}

// Fields is the document form written by document stores.
func (c Customer) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":          c.Name,
		"number":        c.Number,
		"scheme":        c.Scheme,
		"liftStatus":    string(c.LiftStatus),
		"disbursedDate": c.DisbursedDate,
	}
}
