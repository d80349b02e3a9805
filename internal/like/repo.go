package like

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	DB *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{DB: db}
}

// Add records a liked topic. Liking the same topic twice is a no-op; the
// returned bool reports whether the like was new.
func (r *Repo) Add(ctx context.Context, userID uint64, topic string) (bool, error) {
	l := Like{UserID: userID, Topic: topic}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Remove drops a liked topic. Returns whether anything was removed.
func (r *Repo) Remove(ctx context.Context, userID uint64, topic string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? and topic = ?", userID, topic).
		Delete(&Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TopicsFor returns the user's liked topics, oldest first. These are the
// interest signals the feed assembler retrieves against.
func (r *Repo) TopicsFor(ctx context.Context, userID uint64) ([]string, error) {
	var topics []string
	err := r.DB.WithContext(ctx).Model(&Like{}).
		Where("user_id = ?", userID).
		Order("created_at asc, topic asc").
		Pluck("topic", &topics).Error
	return topics, err
}
