package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pkg/errors"
)

// 辅助函数：替代 String 和 Bool
func String(s string) *string { return &s }
func Bool(b bool) *bool       { return &b }

// ProcessStateServiceImpl 流程实例状态查询服务
type ProcessStateServiceImpl struct {
	repo ProcessStateRepo
}

func NewProcessStateService(repo ProcessStateRepo) ProcessStateService {
	return &ProcessStateServiceImpl{repo: repo}
}

func (s *ProcessStateServiceImpl) DumpProcessState(ctx context.Context, processInstanceID string) (string, error) {
	return s.DumpProcessStateWithParams(ctx, &DumpProcessStateParams{
		ProcessInstanceID: processInstanceID,
	})
}

func (s *ProcessStateServiceImpl) DumpProcessStateWithParams(ctx context.Context, params *DumpProcessStateParams) (string, error) {
	if params == nil {
		return "", errors.Wrap(ErrInspectParamInvalid, "DumpProcessState failed, params is nil")
	}
	if err := validatorUtil.Struct(params); err != nil {
		return "", errors.Wrapf(ErrInspectParamInvalid, "DumpProcessState failed, params: %v,err: %v", params, err)
	}
	root, err := s.QueryProcessStateTree(ctx, params.ProcessInstanceID)
	if err != nil {
		return "", errors.WithMessagef(err, "QueryProcessStateTree failed, processInstanceID: %s", params.ProcessInstanceID)
	}
	return RenderProcessStateTree(root, params.Options), nil
}

func (s *ProcessStateServiceImpl) QueryProcessStateTree(ctx context.Context, processInstanceID string) (*ExecutionNode, error) {
	params := &QueryProcessStateParams{ProcessInstanceID: processInstanceID}
	if err := validatorUtil.Struct(params); err != nil {
		return nil, errors.Wrapf(ErrInspectParamInvalid, "QueryProcessStateTree failed, params: %v,err: %v", params, err)
	}
	executions, err := s.getAllExecutionPo(ctx, processInstanceID)
	if err != nil {
		return nil, errors.WithMessagef(err, "getAllExecutionPo failed, processInstanceID: %s", processInstanceID)
	}
	slog.DebugContext(ctx, fmt.Sprintf("QueryProcessStateTree, processInstanceID: %s, executions count: %d", processInstanceID, len(executions)))
	tree, err := buildExecutionTree(executions)
	if err != nil {
		return nil, errors.WithMessagef(err, "buildExecutionTree failed, processInstanceID: %s", processInstanceID)
	}
	root, err := s.assemblyExecutionNode(ctx, tree, tree.root)
	if err != nil {
		return nil, errors.WithMessagef(err, "assemblyExecutionNode failed, processInstanceID: %s", processInstanceID)
	}
	return root, nil
}

// getAllExecutionPo 分页查询流程实例的全部执行, 不截断
func (s *ProcessStateServiceImpl) getAllExecutionPo(ctx context.Context, processInstanceID string) ([]*ExecutionPo, error) {
	fetchCount := defaultFetchCount
	page := 1
	retExecutions := make([]*ExecutionPo, 0)
	for {
		executions, err := s.repo.QueryExecution(ctx, &QueryExecutionParams{
			ProcessInstanceID: &processInstanceID,
			OrderbyIDAsc:      Bool(true),
			Page: &Pager{
				Page: int64(page),
				Size: int64(fetchCount),
			},
		})
		if err != nil {
			return nil, errors.WithMessagef(err, "QueryExecution failed, processInstanceID: %s, page: %d", processInstanceID, page)
		}
		if len(executions) == 0 {
			break
		}
		retExecutions = append(retExecutions, executions...)
		if len(executions) < fetchCount {
			break
		}
		page++
	}
	return retExecutions, nil
}

// assemblyExecutionNode 组装执行节点, 递归组装子执行
func (s *ProcessStateServiceImpl) assemblyExecutionNode(ctx context.Context, tree *executionTree, execution *ExecutionPo) (*ExecutionNode, error) {
	node := &ExecutionNode{
		ID:                 execution.ID,
		ParentID:           execution.ParentID,
		ActivityID:         execution.ActivityID,
		TransitionID:       execution.TransitionID,
		Variables:          make([]*VariableEntity, 0),
		EventSubscriptions: make([]*EventSubscriptionEntity, 0),
		Jobs:               make([]*JobEntity, 0),
		Children:           make([]*ExecutionNode, 0),
	}
	variables, err := s.repo.QueryLocalVariable(ctx, execution.ID)
	if err != nil {
		return nil, errors.WithMessagef(err, "QueryLocalVariable failed, executionID: %s", execution.ID)
	}
	for _, variable := range variables {
		node.Variables = append(node.Variables, &VariableEntity{
			Name:  variable.Name,
			Type:  variable.Type,
			Value: variable.Value(),
		})
	}
	// 变量按照名称输出, 不依赖repo返回的顺序
	sort.SliceStable(node.Variables, func(i, j int) bool {
		return node.Variables[i].Name < node.Variables[j].Name
	})
	subscriptions, err := s.repo.QueryEventSubscription(ctx, execution.ID)
	if err != nil {
		return nil, errors.WithMessagef(err, "QueryEventSubscription failed, executionID: %s", execution.ID)
	}
	for _, subscription := range subscriptions {
		node.EventSubscriptions = append(node.EventSubscriptions, &EventSubscriptionEntity{
			ID:         subscription.ID,
			EventType:  subscription.EventType,
			EventName:  subscription.EventName,
			ActivityID: subscription.ActivityID,
		})
	}
	jobs, err := s.repo.QueryJob(ctx, execution.ID)
	if err != nil {
		return nil, errors.WithMessagef(err, "QueryJob failed, executionID: %s", execution.ID)
	}
	for _, job := range jobs {
		// 每个任务单独查询任务定义, 找不到任务定义直接返回错误
		jobDefinition, err := s.repo.GetJobDefinition(ctx, job.JobDefinitionID)
		if err != nil {
			return nil, errors.WithMessagef(err, "GetJobDefinition failed, jobID: %s, jobDefinitionID: %s", job.ID, job.JobDefinitionID)
		}
		node.Jobs = append(node.Jobs, &JobEntity{
			ID:               job.ID,
			JobDefinitionID:  job.JobDefinitionID,
			JobType:          jobDefinition.JobType,
			JobConfiguration: jobDefinition.JobConfiguration,
			Retries:          job.Retries,
		})
	}
	for _, child := range tree.childrenOf(execution.ID) {
		childNode, err := s.assemblyExecutionNode(ctx, tree, child)
		if err != nil {
			return nil, errors.WithMessagef(err, "assemblyExecutionNode failed, parentID: %s", execution.ID)
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}
