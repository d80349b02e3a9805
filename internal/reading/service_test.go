package reading

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"newt/internal/summary"
	"newt/internal/user"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &summary.Summary{}, &Receipt{}))

	return NewService(db, time.UTC)
}

func seedUser(t *testing.T, db *gorm.DB) user.User {
	t.Helper()
	u := user.User{Email: "reader@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedSummary(t *testing.T, db *gorm.DB, topic string) summary.Summary {
	t.Helper()
	s := summary.Summary{Topic: topic, Title: "t", Body: "b"}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func at(day string) func() time.Time {
	ts, _ := time.Parse(DateLayout, day)
	return func() time.Time { return ts.Add(12 * time.Hour) }
}

func TestMarkReadFirstTime(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)
	s := seedSummary(t, svc.DB, "ai")
	svc.Now = at("2026-08-01")

	res, err := svc.MarkRead(context.Background(), u.ID, s.ID)
	require.NoError(t, err)

	require.False(t, res.AlreadyRead)
	require.Equal(t, 1, res.PointsEarned)
	require.Equal(t, 1, res.TotalPoints)
	require.EqualValues(t, 1, res.TodayReads)
	require.EqualValues(t, 1, res.TotalReads)
	require.Equal(t, StreakStatus{Current: 1, Longest: 1, Updated: true}, res.Streak)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)
	s := seedSummary(t, svc.DB, "ai")
	svc.Now = at("2026-08-01")

	_, err := svc.MarkRead(context.Background(), u.ID, s.ID)
	require.NoError(t, err)

	res, err := svc.MarkRead(context.Background(), u.ID, s.ID)
	require.NoError(t, err)

	require.True(t, res.AlreadyRead)
	require.Equal(t, 0, res.PointsEarned)
	require.Equal(t, 1, res.TotalPoints)
	require.EqualValues(t, 1, res.TotalReads)
	require.False(t, res.Streak.Updated)

	var stored user.User
	require.NoError(t, svc.DB.First(&stored, u.ID).Error)
	require.Equal(t, 1, stored.Points)
}

func TestMarkReadSecondSummarySameDay(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)
	a := seedSummary(t, svc.DB, "ai")
	b := seedSummary(t, svc.DB, "cloud")
	svc.Now = at("2026-08-01")

	_, err := svc.MarkRead(context.Background(), u.ID, a.ID)
	require.NoError(t, err)

	res, err := svc.MarkRead(context.Background(), u.ID, b.ID)
	require.NoError(t, err)

	require.Equal(t, 1, res.PointsEarned)
	require.Equal(t, 2, res.TotalPoints)
	require.EqualValues(t, 2, res.TodayReads)
	// Second read of the day earns a point but does not move the streak.
	require.Equal(t, StreakStatus{Current: 1, Longest: 1, Updated: false}, res.Streak)
}

func TestMarkReadStreakAcrossDays(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)
	ctx := context.Background()

	days := []string{"2026-08-01", "2026-08-02", "2026-08-03"}
	for _, day := range days {
		s := seedSummary(t, svc.DB, "ai")
		svc.Now = at(day)
		res, err := svc.MarkRead(ctx, u.ID, s.ID)
		require.NoError(t, err)
		require.True(t, res.Streak.Updated)
	}

	var stored user.User
	require.NoError(t, svc.DB.First(&stored, u.ID).Error)
	require.Equal(t, 3, stored.StreakCurrent)
	require.Equal(t, 3, stored.StreakLongest)
	require.Equal(t, "2026-08-03", *stored.LastReadDate)
}

func TestMarkReadStreakResetAfterGap(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)
	ctx := context.Background()

	s1 := seedSummary(t, svc.DB, "ai")
	svc.Now = at("2026-08-01")
	_, err := svc.MarkRead(ctx, u.ID, s1.ID)
	require.NoError(t, err)

	s2 := seedSummary(t, svc.DB, "ai")
	svc.Now = at("2026-08-02")
	_, err = svc.MarkRead(ctx, u.ID, s2.ID)
	require.NoError(t, err)

	s3 := seedSummary(t, svc.DB, "ai")
	svc.Now = at("2026-08-07")
	res, err := svc.MarkRead(ctx, u.ID, s3.ID)
	require.NoError(t, err)

	require.Equal(t, StreakStatus{Current: 1, Longest: 2, Updated: true}, res.Streak)
}

func TestMarkReadUnknownUser(t *testing.T) {
	svc := newTestService(t)
	s := seedSummary(t, svc.DB, "ai")

	_, err := svc.MarkRead(context.Background(), 999, s.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMarkReadUnknownSummary(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)

	_, err := svc.MarkRead(context.Background(), u.ID, 999)
	require.ErrorIs(t, err, ErrSummaryNotFound)

	// A failed call must not leave a partial receipt or award points.
	var n int64
	require.NoError(t, svc.DB.Model(&Receipt{}).Count(&n).Error)
	require.EqualValues(t, 0, n)
}

func TestUserStats(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)
	ctx := context.Background()

	s1 := seedSummary(t, svc.DB, "ai")
	svc.Now = at("2026-08-01")
	_, err := svc.MarkRead(ctx, u.ID, s1.ID)
	require.NoError(t, err)

	s2 := seedSummary(t, svc.DB, "cloud")
	svc.Now = at("2026-08-02")
	_, err = svc.MarkRead(ctx, u.ID, s2.ID)
	require.NoError(t, err)

	st, err := svc.UserStats(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, st.Points)
	require.EqualValues(t, 2, st.TotalReads)
	require.EqualValues(t, 1, st.TodayReads)
	require.Equal(t, 2, st.Streak.Current)

	_, err = svc.UserStats(ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserAnalytics(t *testing.T) {
	svc := newTestService(t)
	u := seedUser(t, svc.DB)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		s := seedSummary(t, svc.DB, "ai")
		svc.Now = at("2026-08-01")
		_, err := svc.MarkRead(ctx, u.ID, s.ID)
		require.NoError(t, err)
	}
	s := seedSummary(t, svc.DB, "cloud")
	svc.Now = at("2026-08-02")
	_, err := svc.MarkRead(ctx, u.ID, s.ID)
	require.NoError(t, err)

	a, err := svc.UserAnalytics(ctx, u.ID)
	require.NoError(t, err)

	require.Equal(t, u.ID, a.UserID)
	require.Equal(t, 3, a.TotalPoints)
	require.EqualValues(t, 3, a.TotalReads)
	require.EqualValues(t, 1, a.TodayReads)
	require.InDelta(t, 1.5, a.AvgDailyReads, 0.001)

	require.Len(t, a.TopTopics, 2)
	require.Equal(t, "ai", a.TopTopics[0].Topic)
	require.EqualValues(t, 2, a.TopTopics[0].Count)

	// Seven zero-filled days ending today.
	require.Len(t, a.RecentActivity, 7)
	last := a.RecentActivity[6]
	require.Equal(t, "2026-08-02", last.Date)
	require.EqualValues(t, 1, last.Count)
}
