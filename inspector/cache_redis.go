package inspector

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "process_inspector:job_definition:"

// NewRedisJobDefinitionCache 多个进程共享的任务定义缓存, keyPrefix为空使用默认前缀
func NewRedisJobDefinitionCache(redisClient redis.Cmdable, keyPrefix string) JobDefinitionCache {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	return &redisJobDefinitionCache{redisClient: redisClient, keyPrefix: keyPrefix}
}

type redisJobDefinitionCache struct {
	redisClient redis.Cmdable
	keyPrefix   string
}

func (d *redisJobDefinitionCache) Get(ctx context.Context, jobDefinitionID string) (*JobDefinitionPo, error) {
	b, err := d.redisClient.Get(ctx, d.key(jobDefinitionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errors.WithMessagef(CacheMissError, "[redisJobDefinitionCache.Get] jobDefinitionID: %s", jobDefinitionID)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "[redisJobDefinitionCache.Get] jobDefinitionID: %s", jobDefinitionID)
	}
	jobDefinition := &JobDefinitionPo{}
	if err := json.Unmarshal(b, jobDefinition); err != nil {
		return nil, errors.WithMessagef(err, "[redisJobDefinitionCache.Get] unmarshal failed, jobDefinitionID: %s", jobDefinitionID)
	}
	return jobDefinition, nil
}

func (d *redisJobDefinitionCache) Set(ctx context.Context, jobDefinition *JobDefinitionPo, ttl time.Duration) error {
	if jobDefinition == nil {
		return errors.New("nil JobDefinitionPo")
	}
	b, err := json.Marshal(jobDefinition)
	if err != nil {
		return errors.WithMessagef(err, "[redisJobDefinitionCache.Set] marshal failed, jobDefinitionID: %s", jobDefinition.ID)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := d.redisClient.Set(ctx, d.key(jobDefinition.ID), b, ttl).Err(); err != nil {
		return errors.WithMessagef(err, "[redisJobDefinitionCache.Set] jobDefinitionID: %s", jobDefinition.ID)
	}
	return nil
}

func (d *redisJobDefinitionCache) key(jobDefinitionID string) string {
	return d.keyPrefix + jobDefinitionID
}
