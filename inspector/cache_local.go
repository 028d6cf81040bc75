package inspector

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

func NewLocalJobDefinitionCache() JobDefinitionCache {
	return &localJobDefinitionCache{
		items: &sync.Map{},
	}
}

type localJobDefinitionCache struct {
	items *sync.Map // jobDefinitionID -> *localCacheItem
}

type localCacheItem struct {
	jobDefinition JobDefinitionPo
	expireAt      time.Time // 零值表示不过期
}

func (l *localJobDefinitionCache) Get(ctx context.Context, jobDefinitionID string) (*JobDefinitionPo, error) {
	itemInterface, ok := l.items.Load(jobDefinitionID)
	if !ok {
		return nil, errors.WithMessagef(CacheMissError, "[localJobDefinitionCache.Get] jobDefinitionID: %s", jobDefinitionID)
	}
	item := itemInterface.(*localCacheItem)
	if !item.expireAt.IsZero() && time.Now().After(item.expireAt) {
		// 已经过期, 只删除同一个item, 避免删掉并发写入的新值
		l.items.CompareAndDelete(jobDefinitionID, item)
		return nil, errors.WithMessagef(CacheMissError, "[localJobDefinitionCache.Get] expired, jobDefinitionID: %s", jobDefinitionID)
	}
	// 返回拷贝, 调用方修改不影响缓存
	jobDefinition := item.jobDefinition
	return &jobDefinition, nil
}

func (l *localJobDefinitionCache) Set(ctx context.Context, jobDefinition *JobDefinitionPo, ttl time.Duration) error {
	if jobDefinition == nil {
		return errors.New("nil JobDefinitionPo")
	}
	item := &localCacheItem{jobDefinition: *jobDefinition}
	if ttl > 0 {
		item.expireAt = time.Now().Add(ttl)
	}
	l.items.Store(jobDefinition.ID, item)
	return nil
}
