package inspector

import (
	"context"
)

// ProcessStateRepo 流程引擎的只读查询接口, 只查询不修改
type ProcessStateRepo interface {
	QueryExecution(ctx context.Context, param *QueryExecutionParams) ([]*ExecutionPo, error)
	QueryLocalVariable(ctx context.Context, executionID string) ([]*VariablePo, error)
	QueryEventSubscription(ctx context.Context, executionID string) ([]*EventSubscriptionPo, error)
	QueryJob(ctx context.Context, executionID string) ([]*JobPo, error)
	// GetJobDefinition 没有找到返回ErrJobDefinitionNotFound
	GetJobDefinition(ctx context.Context, jobDefinitionID string) (*JobDefinitionPo, error)
}
