package reading

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newt/internal/logger"
	"newt/internal/summary"
	"newt/internal/user"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSummaryNotFound = errors.New("summary not found")
)

// Service is the read-tracking ledger. It owns every mutation of the per-user
// reading aggregates (receipts, points, streak).
type Service struct {
	DB  *gorm.DB
	Loc *time.Location

	// Now is swappable in tests to drive the calendar.
	Now func() time.Time
}

func NewService(db *gorm.DB, loc *time.Location) *Service {
	return &Service{DB: db, Loc: loc, Now: time.Now}
}

type StreakStatus struct {
	Current int  `json:"current"`
	Longest int  `json:"max"`
	Updated bool `json:"updated"`
}

type MarkReadResult struct {
	AlreadyRead  bool
	PointsEarned int
	TotalPoints  int
	TodayReads   int64
	TotalReads   int64
	Streak       StreakStatus
}

type Stats struct {
	Points     int          `json:"points"`
	TotalReads int64        `json:"total_summaries_read"`
	TodayReads int64        `json:"today_reads"`
	Streak     StreakStatus `json:"streak"`
}

// Today returns the current calendar date in the reporting timezone.
func (s *Service) Today() string {
	return s.Now().In(s.Loc).Format(DateLayout)
}

// StartOfToday returns midnight of the current day in the reporting timezone.
func (s *Service) StartOfToday() time.Time {
	now := s.Now().In(s.Loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Loc)
}

// MarkRead records that userID read summaryID. Idempotent per pair: the
// receipt insert uses ON CONFLICT DO NOTHING and the point award and streak
// advance only happen when that insert reports an affected row, so concurrent
// calls for the same pair award exactly one point. All mutations share one
// transaction; a failure rolls everything back and the call is safe to retry.
func (s *Service) MarkRead(ctx context.Context, userID, summaryID uint64) (MarkReadResult, error) {
	today := s.Today()

	var res MarkReadResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var n int64
		if err := tx.Model(&summary.Summary{}).Where("id = ?", summaryID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrSummaryNotFound
		}

		receipt := Receipt{UserID: userID, SummaryID: summaryID, ReadDate: today}
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&receipt)
		if ins.Error != nil {
			return ins.Error
		}

		if ins.RowsAffected == 0 {
			res.AlreadyRead = true
			res.TotalPoints = u.Points
			res.Streak = StreakStatus{Current: u.StreakCurrent, Longest: u.StreakLongest}
			return s.fillCounts(tx, userID, today, &res)
		}

		if err := tx.Model(&user.User{}).Where("id = ?", userID).
			UpdateColumn("points", gorm.Expr("points + 1")).Error; err != nil {
			return err
		}
		res.PointsEarned = 1
		res.TotalPoints = u.Points + 1

		if u.LastReadDate != nil && today < *u.LastReadDate {
			logger.L().Warn("backdated read, streak untouched",
				"user_id", userID, "read_date", today, "last_read_date", *u.LastReadDate)
		}

		prev := Streak{Current: u.StreakCurrent, Longest: u.StreakLongest, LastReadDate: u.LastReadDate}
		next, updated := advance(prev, today)
		if updated {
			// Guarded update: only the first read of a new calendar day may
			// move the streak, even when two reads race past the same
			// in-memory snapshot.
			upd := tx.Model(&user.User{}).
				Where("id = ? and (last_read_date is null or last_read_date < ?)", userID, today).
				Updates(map[string]any{
					"streak_current": next.Current,
					"streak_longest": next.Longest,
					"last_read_date": today,
				})
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				updated = false
				next = prev
			}
		}
		res.Streak = StreakStatus{Current: next.Current, Longest: next.Longest, Updated: updated}

		return s.fillCounts(tx, userID, today, &res)
	})
	if err != nil {
		return MarkReadResult{}, err
	}
	return res, nil
}

func (s *Service) fillCounts(tx *gorm.DB, userID uint64, today string, res *MarkReadResult) error {
	if err := tx.Model(&Receipt{}).Where("user_id = ?", userID).Count(&res.TotalReads).Error; err != nil {
		return err
	}
	return tx.Model(&Receipt{}).
		Where("user_id = ? and read_date = ?", userID, today).
		Count(&res.TodayReads).Error
}

// UserStats returns the ledger view of a user: points, totals and streak.
func (s *Service) UserStats(ctx context.Context, userID uint64) (Stats, error) {
	var u user.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Stats{}, ErrUserNotFound
		}
		return Stats{}, err
	}

	st := Stats{
		Points: u.Points,
		Streak: StreakStatus{Current: u.StreakCurrent, Longest: u.StreakLongest},
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&Receipt{}).Where("user_id = ?", u.ID).Count(&st.TotalReads).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&Receipt{}).
		Where("user_id = ? and read_date = ?", u.ID, s.Today()).
		Count(&st.TodayReads).Error; err != nil {
		return Stats{}, err
	}
	return st, nil
}
