package reading

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"newt/internal/user"
)

type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Analytics is the dashboard view of a user's reading history.
type Analytics struct {
	UserID         uint64       `json:"user_id"`
	TotalPoints    int          `json:"total_points"`
	TotalReads     int64        `json:"total_summaries_read"`
	TodayReads     int64        `json:"today_reads"`
	AvgDailyReads  float64      `json:"avg_daily_reads"`
	TopTopics      []TopicCount `json:"top_topics"`
	RecentActivity []DayCount   `json:"recent_activity"`
	Streak         StreakStatus `json:"reading_streak"`
}

// UserAnalytics aggregates the receipt ledger into dashboard numbers.
// RecentActivity covers the last 7 calendar days including today, with zero
// entries for days without reads.
func (s *Service) UserAnalytics(ctx context.Context, userID uint64) (Analytics, error) {
	var u user.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Analytics{}, ErrUserNotFound
		}
		return Analytics{}, err
	}

	a := Analytics{
		UserID:      u.ID,
		TotalPoints: u.Points,
		Streak:      StreakStatus{Current: u.StreakCurrent, Longest: u.StreakLongest},
	}

	db := s.DB.WithContext(ctx)
	today := s.Today()

	if err := db.Model(&Receipt{}).Where("user_id = ?", u.ID).Count(&a.TotalReads).Error; err != nil {
		return Analytics{}, err
	}
	if err := db.Model(&Receipt{}).
		Where("user_id = ? and read_date = ?", u.ID, today).
		Count(&a.TodayReads).Error; err != nil {
		return Analytics{}, err
	}

	var readDays int64
	if err := db.Model(&Receipt{}).
		Where("user_id = ?", u.ID).
		Distinct("read_date").
		Count(&readDays).Error; err != nil {
		return Analytics{}, err
	}
	if readDays > 0 {
		a.AvgDailyReads = float64(a.TotalReads) / float64(readDays)
	}

	if err := db.Raw(`
		select s.topic as topic, count(*) as count
		from receipts r
		join summaries s on s.id = r.summary_id
		where r.user_id = ?
		group by s.topic
		order by count desc, topic asc
		limit 5
	`, u.ID).Scan(&a.TopTopics).Error; err != nil {
		return Analytics{}, err
	}

	since := s.Now().In(s.Loc).AddDate(0, 0, -6).Format(DateLayout)
	var days []DayCount
	if err := db.Model(&Receipt{}).
		Select("read_date as date, count(*) as count").
		Where("user_id = ? and read_date >= ?", u.ID, since).
		Group("read_date").
		Scan(&days).Error; err != nil {
		return Analytics{}, err
	}

	byDate := make(map[string]int64, len(days))
	for _, d := range days {
		byDate[d.Date] = d.Count
	}
	start := s.Now().In(s.Loc).AddDate(0, 0, -6)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(DateLayout)
		a.RecentActivity = append(a.RecentActivity, DayCount{Date: date, Count: byDate[date]})
	}

	return a, nil
}
