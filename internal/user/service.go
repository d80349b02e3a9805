package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newt/internal/cache"
	"newt/internal/logger"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
)

const followerCountTTL = time.Hour

type Service struct {
	DB    *gorm.DB
	Cache *cache.RedisCache
}

func NewService(db *gorm.DB, c *cache.RedisCache) *Service {
	return &Service{DB: db, Cache: c}
}

func (s *Service) Create(ctx context.Context, email, passwordHash string) (User, error) {
	u := User{Email: email, PasswordHash: passwordHash}
	err := s.DB.WithContext(ctx).Create(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, ErrEmailTaken
		}
		// unique violation surfaces differently per driver; a second lookup
		// keeps the sentinel reliable
		var existing User
		if s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error == nil {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *Service) ByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := s.DB.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Service) ByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return u, err
}

// List returns users for the discovery page, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]User, error) {
	var out []User
	err := s.DB.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Follow adds follower -> target. The single follows row is both sides of
// the relation, so A.following and B.followers can never disagree.
func (s *Service) Follow(ctx context.Context, followerID, targetID uint64) error {
	if followerID == targetID {
		return ErrSelfFollow
	}
	if err := s.ensureExists(ctx, targetID); err != nil {
		return err
	}

	f := Follow{FollowerID: followerID, FolloweeID: targetID}
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&f)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFollowing
	}

	s.invalidateFollowerCount(ctx, targetID)
	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, targetID uint64) error {
	if followerID == targetID {
		return ErrSelfFollow
	}
	if err := s.ensureExists(ctx, targetID); err != nil {
		return err
	}

	res := s.DB.WithContext(ctx).
		Where("follower_id = ? and followee_id = ?", followerID, targetID).
		Delete(&Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}

	s.invalidateFollowerCount(ctx, targetID)
	return nil
}

// Followers returns the users following userID.
func (s *Service) Followers(ctx context.Context, userID uint64) ([]User, error) {
	if err := s.ensureExists(ctx, userID); err != nil {
		return nil, err
	}
	var out []User
	err := s.DB.WithContext(ctx).
		Joins("join follows f on f.follower_id = users.id").
		Where("f.followee_id = ?", userID).
		Order("f.created_at desc").
		Find(&out).Error
	return out, err
}

// Following returns the users userID follows.
func (s *Service) Following(ctx context.Context, userID uint64) ([]User, error) {
	if err := s.ensureExists(ctx, userID); err != nil {
		return nil, err
	}
	var out []User
	err := s.DB.WithContext(ctx).
		Joins("join follows f on f.followee_id = users.id").
		Where("f.follower_id = ?", userID).
		Order("f.created_at desc").
		Find(&out).Error
	return out, err
}

// IsFollowing reports whether follower -> target exists.
func (s *Service) IsFollowing(ctx context.Context, followerID, targetID uint64) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&Follow{}).
		Where("follower_id = ? and followee_id = ?", followerID, targetID).
		Count(&count).Error
	return count > 0, err
}

// FollowerCount is cache-first: redis with a 1h TTL, DB on miss.
func (s *Service) FollowerCount(ctx context.Context, userID uint64) (int64, error) {
	key := s.Cache.KeyForFollowerCount(userID)
	if n, ok, err := s.Cache.GetCount(ctx, key); err == nil && ok {
		return n, nil
	}

	var count int64
	err := s.DB.WithContext(ctx).Model(&Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if err := s.Cache.SetCount(ctx, key, count, followerCountTTL); err != nil {
		logger.L().Warn("follower count cache write failed", "user_id", userID, "err", err)
	}
	return count, nil
}

func (s *Service) FollowingCount(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (s *Service) ensureExists(ctx context.Context, id uint64) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) invalidateFollowerCount(ctx context.Context, userID uint64) {
	if err := s.Cache.Del(ctx, s.Cache.KeyForFollowerCount(userID)); err != nil {
		logger.L().Warn("follower count cache invalidation failed", "user_id", userID, "err", err)
	}
}
