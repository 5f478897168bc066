package models

import "time"

// Wallet is a student's prepaid point balance, 1:1 with the student record.
// Points never go negative: debits are conditional on sufficient balance.
type Wallet struct {
	ID             string    `bson:"id" json:"id"`
	StudentID      string    `bson:"studentId" json:"studentId"`
	Points         float64   `bson:"points" json:"points"`
	ExpirationDate time.Time `bson:"expirationDate,omitempty" json:"expirationDate,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
