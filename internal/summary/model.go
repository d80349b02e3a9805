package summary

import (
	"time"

	"github.com/lib/pq"
)

// Summary is an immutable, pre-generated digest of news articles on a topic.
// Embedding may be null for documents written before embedding was enabled;
// those are excluded from similarity ranking.
type Summary struct {
	ID      uint64         `gorm:"primaryKey"`
	Topic   string         `gorm:"index;not null"`
	Title   string         `gorm:"not null"`
	Body    string         `gorm:"type:text;not null"`
	Sources pq.StringArray `gorm:"type:text[]"`

	Embedding pq.Float64Array `gorm:"type:float8[]"`

	CreatedAt time.Time `gorm:"index;not null"`
}
