// chitsmart/models/scheme.go
package models

import "time"

// Scheme is a chit fund plan. Zero values of DurationMonths and
// MembersPerGroup mean "not set" and are defaulted when rendering.
type Scheme struct {
	ID              string    `json:"id"              gorm:"primaryKey"                bson:"-"               firestore:"-"`
	Amount          int64     `json:"amount"          gorm:"column:amount;index"       bson:"amount"          firestore:"amount"`
	Title           string    `json:"title"           gorm:"column:title"              bson:"title"           firestore:"title"`
	DurationMonths  int       `json:"durationMonths"  gorm:"column:duration_months"    bson:"durationMonths"  firestore:"durationMonths"`
	Groups          int       `json:"groups"          gorm:"column:groups"             bson:"groups"          firestore:"groups"`
	MembersPerGroup int       `json:"membersPerGroup" gorm:"column:members_per_group"  bson:"membersPerGroup" firestore:"membersPerGroup"`
	Badge           string    `json:"badge,omitempty" gorm:"column:badge"              bson:"badge,omitempty" firestore:"badge,omitempty"`
	UpdatedAt       time.Time `json:"-"               gorm:"autoUpdateTime"            bson:"-"               firestore:"-"`
}

func (Scheme) TableName() string { return "schemes" }

// SchemeFromFields builds a Scheme from a loosely typed document. Every field
// is optional.
func SchemeFromFields(id string, data map[string]interface{}) Scheme {
	if data == nil {
		return Scheme{ID: id}
	}
	amount, _ := toInt64(data["amount"])
	return Scheme{
		ID:              id,
		Amount:          amount,
		Title:           stringField(data, "title"),
		DurationMonths:  intField(data, "durationMonths"),
		Groups:          intField(data, "groups"),
		MembersPerGroup: intField(data, "membersPerGroup"),
		Badge:           stringField(data, "badge"),
	}
}

// DefaultSchemes are the four plans shown on the public page. They
// seed the in-memory store.
func DefaultSchemes() []Scheme {
	return []Scheme{
		{ID: "starter", Amount: 50000, Title: "Starter Plan", DurationMonths: 15, Groups: 4, MembersPerGroup: 15, Badge: "Basic"},
		{ID: "standard", Amount: 100000, Title: "Standard Plan", DurationMonths: 15, Groups: 8, MembersPerGroup: 15, Badge: "Popular"},
		{ID: "growth", Amount: 200000, Title: "Growth Plan", DurationMonths: 15, Groups: 5, MembersPerGroup: 15, Badge: "Premium"},
		{ID: "wealth", Amount: 500000, Title: "Wealth Plan", DurationMonths: 20, Groups: 2, MembersPerGroup: 15, Badge: "Elite"},
	}
}
