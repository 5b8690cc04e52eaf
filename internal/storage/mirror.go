package storage

import (
	"context"
	"fmt"

	"github.com/jwebster45206/wasteland/internal/config"
	"github.com/jwebster45206/wasteland/pkg/save"
)

// OpenMirror returns the remote save tier selected by cfg.SaveMirror, or nil
// when mirroring is off. The redis mirror reuses rdb.
func OpenMirror(ctx context.Context, cfg *config.Config, rdb *RedisStore) (save.Store, error) {
	switch cfg.SaveMirror {
	case "", "none":
		return nil, nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis mirror requires a redis connection")
		}
		return rdb, nil
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown save mirror %q", cfg.SaveMirror)
	}
}
