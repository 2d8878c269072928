package models

import "time"

const (
	PaymentPaid    = "Paid"
	PaymentPending = "Pending"
	PaymentOverdue = "Overdue"
)

// Payment is one monthly contribution made by a customer.
type Payment struct {
	ID         string    `json:"id"         gorm:"primaryKey"              bson:"-"          firestore:"-"`
	CustomerID string    `json:"customerId" gorm:"column:customer_id;index" bson:"customerId" firestore:"-"`
	Date       time.Time `json:"date"       gorm:"column:date"             bson:"date"       firestore:"date"`
	Amount     int64     `json:"amount"     gorm:"column:amount"           bson:"amount"     firestore:"amount"`
	Status     string    `json:"status"     gorm:"column:status"           bson:"status"     firestore:"status"`
}

func (Payment) TableName() string { return "payments" }

// StatusClass is the css class of the status badge.
func (p Payment) StatusClass() string {
	switch p.Status {
	case PaymentPaid:
		return "bg-green"
	case PaymentPending:
		return "bg-yellow"
	}
	return "bg-red"
}

// PaymentFromFields builds a Payment from a loosely typed document. Dates may
// be stored as timestamps or as "02-Jan-2006" / RFC 3339 strings.
func PaymentFromFields(id, customerID string, data map[string]interface{}) Payment {
	p := Payment{ID: id, CustomerID: customerID}
	if data == nil {
		return p
	}
	p.Amount, _ = toInt64(data["amount"])
	p.Status = stringField(data, "status")
	if p.Status == "" {
		p.Status = PaymentPaid
	}
	switch v := data["date"].(type) {
	case time.Time:
		p.Date = v
	case string:
		for _, layout := range []string{"02-Jan-2006", time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				p.Date = t
				break
			}
		}
	}
	return p
}
