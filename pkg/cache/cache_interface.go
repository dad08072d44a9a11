package cache

import (
	"context"
	"time"
)

// Cache định nghĩa contract cho cache layer.
// Production dùng Redis, tests dùng in-memory fake.
type Cache interface {
	// Get lấy data từ cache và unmarshal vào dest.
	// found = false nghĩa là cache miss, dest không bị thay đổi.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set lưu data vào cache với TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete xóa các keys khỏi cache, bỏ qua keys không tồn tại
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern xóa mọi key match glob pattern (vd: "products:list:*")
	DeletePattern(ctx context.Context, pattern string) error

	// Ping kiểm tra connection
	Ping(ctx context.Context) error

	// Counter operations cho failed login throttling
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
