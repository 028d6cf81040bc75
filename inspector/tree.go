package inspector

import (
	"strings"

	"github.com/pkg/errors"
)

// ExecutionNode 执行树节点entity, 变量/事件订阅/任务只挂在所属的执行上
type ExecutionNode struct {
	ID                 string                     `json:"id"`
	ParentID           *string                    `json:"parent_id,omitempty"`
	ActivityID         *string                    `json:"activity_id,omitempty"`
	TransitionID       *string                    `json:"transition_id,omitempty"`
	Variables          []*VariableEntity          `json:"variables"`
	EventSubscriptions []*EventSubscriptionEntity `json:"event_subscriptions"`
	Jobs               []*JobEntity               `json:"jobs"`
	Children           []*ExecutionNode           `json:"children"`
}

type VariableEntity struct {
	Name  string       `json:"name"`
	Type  VariableType `json:"type"`
	Value any          `json:"value"`
}

type EventSubscriptionEntity struct {
	ID         string    `json:"id"`
	EventType  EventType `json:"event_type"`
	EventName  string    `json:"event_name"`
	ActivityID string    `json:"activity_id"`
}

type JobEntity struct {
	ID               string `json:"id"`
	JobDefinitionID  string `json:"job_definition_id"`
	JobType          string `json:"job_type"`
	JobConfiguration string `json:"job_configuration"`
	Retries          int64  `json:"retries"`
}

// Walk 先序遍历, depth从0开始, f返回false时不再访问该节点的子节点
func (n *ExecutionNode) Walk(f func(node *ExecutionNode, depth int) bool) {
	n.walk(f, 0)
}

func (n *ExecutionNode) walk(f func(node *ExecutionNode, depth int) bool, depth int) {
	if n == nil {
		return
	}
	if !f(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(f, depth+1)
	}
}

// Count 树中执行的数量
func (n *ExecutionNode) Count() int {
	count := 0
	n.Walk(func(*ExecutionNode, int) bool {
		count++
		return true
	})
	return count
}

// executionTree 扁平的执行集合按照parent_id分组之后的结果
type executionTree struct {
	root     *ExecutionPo
	children map[string][]*ExecutionPo // parent_id -> 子执行, 保持查询返回的顺序
	size     int
}

func (t *executionTree) childrenOf(executionID string) []*ExecutionPo {
	return t.children[executionID]
}

/*
*
  - @description: 扁平的执行集合构建执行树
    根执行: 按照返回顺序第一个parent为空的执行
    parent不在集合里面返回ErrParentExecutionNotFound
    从根执行访问不到的执行(多个根执行,parent有环)返回ErrExecutionUnreachable
  - @param executions []*ExecutionPo 一个流程实例的全部执行
  - @return *executionTree, error
*/
func buildExecutionTree(executions []*ExecutionPo) (*executionTree, error) {
	if len(executions) == 0 {
		return nil, errors.WithMessage(ErrProcessInstanceNotFound, "no execution")
	}
	executionMap := make(map[string]*ExecutionPo, len(executions))
	for _, execution := range executions {
		executionMap[execution.ID] = execution
	}
	tree := &executionTree{
		children: make(map[string][]*ExecutionPo),
		size:     len(executions),
	}
	for _, execution := range executions {
		if execution.ParentID == nil {
			if tree.root == nil {
				tree.root = execution
			}
			continue
		}
		if _, ok := executionMap[*execution.ParentID]; !ok {
			return nil, errors.WithMessagef(ErrParentExecutionNotFound, "executionID: %s, parentID: %s", execution.ID, *execution.ParentID)
		}
		tree.children[*execution.ParentID] = append(tree.children[*execution.ParentID], execution)
	}
	if tree.root == nil {
		return nil, errors.WithMessagef(ErrRootExecutionNotFound, "executions count: %d", len(executions))
	}

	// 检查所有的执行都可以从根执行访问到, 并且只访问一次
	visitMap := make(map[string]bool, len(executions))
	stack := []*ExecutionPo{tree.root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visitMap[current.ID] {
			continue
		}
		visitMap[current.ID] = true
		stack = append(stack, tree.children[current.ID]...)
	}
	if len(visitMap) != len(executionMap) || len(executionMap) != len(executions) {
		unreachable := make([]string, 0)
		for _, execution := range executions {
			if !visitMap[execution.ID] {
				unreachable = append(unreachable, execution.ID)
			}
		}
		if len(unreachable) == 0 {
			// id重复
			return nil, errors.WithMessagef(ErrExecutionUnreachable, "duplicate execution id, executions count: %d", len(executions))
		}
		return nil, errors.WithMessagef(ErrExecutionUnreachable, "rootID: %s, unreachable: %s", tree.root.ID, strings.Join(unreachable, ","))
	}
	return tree, nil
}
