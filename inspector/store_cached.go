package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// cachedProcessStateRepo 任务定义查询走缓存, 其他查询直接透传
type cachedProcessStateRepo struct {
	ProcessStateRepo
	cache JobDefinitionCache
	ttl   time.Duration
}

// NewCachedProcessStateRepo 任务定义没有找到的结果不缓存, 缓存读写失败只记录日志, 使用repo的结果
func NewCachedProcessStateRepo(repo ProcessStateRepo, cache JobDefinitionCache, ttl time.Duration) ProcessStateRepo {
	if cache == nil {
		return repo
	}
	return &cachedProcessStateRepo{
		ProcessStateRepo: repo,
		cache:            cache,
		ttl:              ttl,
	}
}

func (r *cachedProcessStateRepo) GetJobDefinition(ctx context.Context, jobDefinitionID string) (*JobDefinitionPo, error) {
	jobDefinition, err := r.cache.Get(ctx, jobDefinitionID)
	if err == nil {
		return jobDefinition, nil
	}
	if !errors.Is(err, CacheMissError) {
		slog.WarnContext(ctx, fmt.Sprintf("[cachedProcessStateRepo.GetJobDefinition] cache get failed, jobDefinitionID: %s, err: %v", jobDefinitionID, err))
	}
	jobDefinition, err = r.ProcessStateRepo.GetJobDefinition(ctx, jobDefinitionID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, jobDefinition, r.ttl); err != nil {
		slog.WarnContext(ctx, fmt.Sprintf("[cachedProcessStateRepo.GetJobDefinition] cache set failed, jobDefinitionID: %s, err: %v", jobDefinitionID, err))
	}
	return jobDefinition, nil
}
