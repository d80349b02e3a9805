package user

import "time"

// User carries the reading ledger aggregates alongside the account identity.
// Points and streak state are only ever mutated by the reading service inside
// a transaction keyed on this row.
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	Points int `gorm:"not null;default:0"`

	StreakCurrent int `gorm:"not null;default:0"`
	StreakLongest int `gorm:"not null;default:0"`
	// LastReadDate is a YYYY-MM-DD calendar date in the reporting timezone.
	LastReadDate *string `gorm:"size:10"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Follow is one edge of the follow graph. followers/following listings are
// two views over the same table, so the symmetry invariant cannot drift.
type Follow struct {
	FollowerID uint64    `gorm:"primaryKey"`
	FolloweeID uint64    `gorm:"primaryKey;index"`
	CreatedAt  time.Time `gorm:"not null"`
}
