package reading

import "time"

// Receipt records that a user read a summary. The composite PK is the
// idempotency key: the second insert for the same (user, summary) pair is a
// conflict, and every points/streak mutation is gated on the insert actually
// landing. ReadDate is the calendar date in the reporting timezone; daily
// read counts are derived from it rather than kept as separate counters.
type Receipt struct {
	UserID    uint64    `gorm:"primaryKey"`
	SummaryID uint64    `gorm:"primaryKey"`
	ReadDate  string    `gorm:"size:10;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
