package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestAdvance(t *testing.T) {
	cases := []struct {
		name    string
		in      Streak
		day     string
		want    Streak
		updated bool
	}{
		{
			name:    "first read ever",
			in:      Streak{},
			day:     "2026-08-01",
			want:    Streak{Current: 1, Longest: 1, LastReadDate: strp("2026-08-01")},
			updated: true,
		},
		{
			name:    "same day is a no-op",
			in:      Streak{Current: 3, Longest: 5, LastReadDate: strp("2026-08-01")},
			day:     "2026-08-01",
			want:    Streak{Current: 3, Longest: 5, LastReadDate: strp("2026-08-01")},
			updated: false,
		},
		{
			name:    "consecutive day extends",
			in:      Streak{Current: 3, Longest: 5, LastReadDate: strp("2026-08-01")},
			day:     "2026-08-02",
			want:    Streak{Current: 4, Longest: 5, LastReadDate: strp("2026-08-02")},
			updated: true,
		},
		{
			name:    "extension can set a new longest",
			in:      Streak{Current: 5, Longest: 5, LastReadDate: strp("2026-08-01")},
			day:     "2026-08-02",
			want:    Streak{Current: 6, Longest: 6, LastReadDate: strp("2026-08-02")},
			updated: true,
		},
		{
			name:    "gap resets to one, longest kept",
			in:      Streak{Current: 9, Longest: 9, LastReadDate: strp("2026-08-01")},
			day:     "2026-08-05",
			want:    Streak{Current: 1, Longest: 9, LastReadDate: strp("2026-08-05")},
			updated: true,
		},
		{
			name:    "month boundary counts as consecutive",
			in:      Streak{Current: 2, Longest: 2, LastReadDate: strp("2026-07-31")},
			day:     "2026-08-01",
			want:    Streak{Current: 3, Longest: 3, LastReadDate: strp("2026-08-01")},
			updated: true,
		},
		{
			name:    "backdated day is a no-op",
			in:      Streak{Current: 4, Longest: 6, LastReadDate: strp("2026-08-10")},
			day:     "2026-08-08",
			want:    Streak{Current: 4, Longest: 6, LastReadDate: strp("2026-08-10")},
			updated: false,
		},
		{
			name:    "corrupt stored date treated as same day",
			in:      Streak{Current: 2, Longest: 2, LastReadDate: strp("not-a-date")},
			day:     "2026-08-01",
			want:    Streak{Current: 2, Longest: 2, LastReadDate: strp("not-a-date")},
			updated: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, updated := advance(tc.in, tc.day)
			assert.Equal(t, tc.updated, updated)
			assert.Equal(t, tc.want.Current, got.Current)
			assert.Equal(t, tc.want.Longest, got.Longest)
			if assert.NotNil(t, got.LastReadDate) {
				assert.Equal(t, *tc.want.LastReadDate, *got.LastReadDate)
			}
		})
	}
}

func TestDayDiff(t *testing.T) {
	assert.Equal(t, 1, dayDiff("2026-08-01", "2026-08-02"))
	assert.Equal(t, 0, dayDiff("2026-08-02", "2026-08-02"))
	assert.Equal(t, -3, dayDiff("2026-08-05", "2026-08-02"))
	assert.Equal(t, 31, dayDiff("2026-07-01", "2026-08-01"))
	assert.Equal(t, 0, dayDiff("garbage", "2026-08-01"))
}
