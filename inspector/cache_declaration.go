package inspector

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	CacheMissError = errors.New("cache miss")
)

// JobDefinitionCache 任务定义缓存, 任务定义在部署时生成, 运行时不会变化
type JobDefinitionCache interface {
	// Get
	//  @Description: 没有缓存返回CacheMissError
	//  @param ctx 原来的ctx
	//  @param jobDefinitionID 任务定义ID
	//  @return *JobDefinitionPo, error
	Get(ctx context.Context, jobDefinitionID string) (*JobDefinitionPo, error)
	// Set
	//  @Description: 写入缓存, ttl<=0 不过期
	Set(ctx context.Context, jobDefinition *JobDefinitionPo, ttl time.Duration) error
}
