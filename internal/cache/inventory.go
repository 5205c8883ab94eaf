package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	CampgroundKeyPrefix = "campground:%d"
)

const (
	UserTTL       = 5 * time.Minute
	CampgroundTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CampgroundKey(id uint) string {
	return fmt.Sprintf(CampgroundKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateCampground(ctx context.Context, id uint) {
	Invalidate(ctx, CampgroundKey(id))
}
