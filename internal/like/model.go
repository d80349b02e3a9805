package like

import "time"

// Like records a topic a user has engaged with. These are the interest
// signals that drive the personalized feed.
type Like struct {
	UserID    uint64    `gorm:"primaryKey"`
	Topic     string    `gorm:"primaryKey;size:128"`
	CreatedAt time.Time `gorm:"not null"`
}
