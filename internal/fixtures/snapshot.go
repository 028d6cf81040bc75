package fixtures

import (
	"context"
	"fmt"

	"github.com/blingmoon/process-inspector/inspector"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Snapshot 一个流程实例在引擎表里面的数据
type Snapshot struct {
	ProcessInstanceID  string
	Executions         []*inspector.ExecutionPo
	Variables          []*inspector.VariablePo
	EventSubscriptions []*inspector.EventSubscriptionPo
	Jobs               []*inspector.JobPo
	JobDefinitions     []*inspector.JobDefinitionPo
}

// Seed 写入快照, 测试和示例使用, 模拟流程引擎写入的数据
func Seed(ctx context.Context, db *gorm.DB, snapshot *Snapshot) error {
	if snapshot == nil {
		return errors.New("snapshot is nil")
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(snapshot.Executions) > 0 {
			if err := tx.Create(snapshot.Executions).Error; err != nil {
				return errors.Wrap(err, "create executions failed")
			}
		}
		if len(snapshot.Variables) > 0 {
			if err := tx.Create(snapshot.Variables).Error; err != nil {
				return errors.Wrap(err, "create variables failed")
			}
		}
		if len(snapshot.EventSubscriptions) > 0 {
			if err := tx.Create(snapshot.EventSubscriptions).Error; err != nil {
				return errors.Wrap(err, "create event subscriptions failed")
			}
		}
		if len(snapshot.Jobs) > 0 {
			if err := tx.Create(snapshot.Jobs).Error; err != nil {
				return errors.Wrap(err, "create jobs failed")
			}
		}
		if len(snapshot.JobDefinitions) > 0 {
			if err := tx.Create(snapshot.JobDefinitions).Error; err != nil {
				return errors.Wrap(err, "create job definitions failed")
			}
		}
		return nil
	})
}

func NewExecution(processInstanceID string, id string, parentID *string, activityID *string, transitionID *string) *inspector.ExecutionPo {
	return &inspector.ExecutionPo{
		ID:                id,
		ProcessInstanceID: processInstanceID,
		ParentID:          parentID,
		ActivityID:        activityID,
		TransitionID:      transitionID,
	}
}

func NewStringVariable(executionID string, name string, value string) *inspector.VariablePo {
	return &inspector.VariablePo{
		ExecutionID: executionID,
		Name:        name,
		Type:        inspector.VariableTypeString,
		TextValue:   value,
	}
}

// ChainProcess 只有一条链的执行树 root -> c1 -> c2 -> ... -> c{depth}
func ChainProcess(processInstanceID string, depth int) *Snapshot {
	snapshot := &Snapshot{ProcessInstanceID: processInstanceID}
	snapshot.Executions = append(snapshot.Executions, NewExecution(processInstanceID, processInstanceID, nil, nil, nil))
	parentID := processInstanceID
	for i := 1; i <= depth; i++ {
		id := fmt.Sprintf("%s-c%d", processInstanceID, i)
		snapshot.Executions = append(snapshot.Executions, NewExecution(processInstanceID, id, inspector.String(parentID), nil, nil))
		parentID = id
	}
	return snapshot
}

// WideProcess 根执行下面有branches个并行分支, 每个分支有一个局部变量 branch=<序号>
func WideProcess(processInstanceID string, branches int) *Snapshot {
	snapshot := &Snapshot{ProcessInstanceID: processInstanceID}
	snapshot.Executions = append(snapshot.Executions, NewExecution(processInstanceID, processInstanceID, nil, nil, nil))
	for i := 0; i < branches; i++ {
		id := fmt.Sprintf("%s-b%04d", processInstanceID, i)
		snapshot.Executions = append(snapshot.Executions, NewExecution(processInstanceID, id, inspector.String(processInstanceID), inspector.String("UserTask"), nil))
		snapshot.Variables = append(snapshot.Variables, &inspector.VariablePo{
			ExecutionID: id,
			Name:        "branch",
			Type:        inspector.VariableTypeLong,
			LongValue:   int64(i),
		})
	}
	return snapshot
}
