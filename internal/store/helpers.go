package store

import (
	"time"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// nullableTime converts an optional DateTime to a *time.Time for SQL
// parameters
func nullableTime(d contracts.DateTime) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// fromNullableTime converts a scanned nullable column back to DateTime
func fromNullableTime(t *time.Time) contracts.DateTime {
	if t == nil {
		return contracts.DateTime{}
	}
	return contracts.NewDateTime(*t)
}
