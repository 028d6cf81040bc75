package inspector

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakeProcessStateRepo 内存版本的引擎查询, 不保证返回顺序
type fakeProcessStateRepo struct {
	executions     []*ExecutionPo
	variables      map[string][]*VariablePo
	subscriptions  map[string][]*EventSubscriptionPo
	jobs           map[string][]*JobPo
	jobDefinitions map[string]*JobDefinitionPo

	queryExecutionErr error
	queryVariableErr  error
	queryJobErr       error

	queryExecutionCalls int
	jobDefinitionCalls  int
}

func newFakeProcessStateRepo() *fakeProcessStateRepo {
	return &fakeProcessStateRepo{
		variables:      make(map[string][]*VariablePo),
		subscriptions:  make(map[string][]*EventSubscriptionPo),
		jobs:           make(map[string][]*JobPo),
		jobDefinitions: make(map[string]*JobDefinitionPo),
	}
}

func (r *fakeProcessStateRepo) addExecution(processInstanceID string, id string, parentID *string) *ExecutionPo {
	execution := &ExecutionPo{ID: id, ProcessInstanceID: processInstanceID, ParentID: parentID}
	r.executions = append(r.executions, execution)
	return execution
}

func (r *fakeProcessStateRepo) addVariable(executionID string, name string, value string) {
	r.variables[executionID] = append(r.variables[executionID], &VariablePo{
		ExecutionID: executionID,
		Name:        name,
		Type:        VariableTypeString,
		TextValue:   value,
	})
}

func (r *fakeProcessStateRepo) addSubscription(executionID string, id string, eventName string, activityID string) {
	r.subscriptions[executionID] = append(r.subscriptions[executionID], &EventSubscriptionPo{
		ID:          id,
		ExecutionID: executionID,
		EventType:   EventTypeSignal,
		EventName:   eventName,
		ActivityID:  activityID,
	})
}

func (r *fakeProcessStateRepo) addJob(executionID string, id string, jobDefinition *JobDefinitionPo) {
	r.jobs[executionID] = append(r.jobs[executionID], &JobPo{
		ID:              id,
		ExecutionID:     executionID,
		JobDefinitionID: jobDefinition.ID,
	})
	r.jobDefinitions[jobDefinition.ID] = jobDefinition
}

func (r *fakeProcessStateRepo) shuffle(rnd *rand.Rand) {
	rnd.Shuffle(len(r.executions), func(i, j int) {
		r.executions[i], r.executions[j] = r.executions[j], r.executions[i]
	})
}

func (r *fakeProcessStateRepo) QueryExecution(ctx context.Context, param *QueryExecutionParams) ([]*ExecutionPo, error) {
	r.queryExecutionCalls++
	if r.queryExecutionErr != nil {
		return nil, r.queryExecutionErr
	}
	matched := make([]*ExecutionPo, 0)
	for _, execution := range r.executions {
		if param.ProcessInstanceID != nil && execution.ProcessInstanceID != *param.ProcessInstanceID {
			continue
		}
		matched = append(matched, execution)
	}
	if param.Page == nil || (param.Page.IsNoLimit != nil && *param.Page.IsNoLimit) {
		return matched, nil
	}
	start := int((param.Page.Page - 1) * param.Page.Size)
	if start >= len(matched) {
		return []*ExecutionPo{}, nil
	}
	end := start + int(param.Page.Size)
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *fakeProcessStateRepo) QueryLocalVariable(ctx context.Context, executionID string) ([]*VariablePo, error) {
	if r.queryVariableErr != nil {
		return nil, r.queryVariableErr
	}
	return r.variables[executionID], nil
}

func (r *fakeProcessStateRepo) QueryEventSubscription(ctx context.Context, executionID string) ([]*EventSubscriptionPo, error) {
	return r.subscriptions[executionID], nil
}

func (r *fakeProcessStateRepo) QueryJob(ctx context.Context, executionID string) ([]*JobPo, error) {
	if r.queryJobErr != nil {
		return nil, r.queryJobErr
	}
	return r.jobs[executionID], nil
}

func (r *fakeProcessStateRepo) GetJobDefinition(ctx context.Context, jobDefinitionID string) (*JobDefinitionPo, error) {
	r.jobDefinitionCalls++
	jobDefinition, ok := r.jobDefinitions[jobDefinitionID]
	if !ok {
		return nil, errors.WithMessagef(ErrJobDefinitionNotFound, "jobDefinitionID: %s", jobDefinitionID)
	}
	return jobDefinition, nil
}

// reportLine 报告中的一行
type reportLine struct {
	indent int
	text   string
}

func (l reportLine) isExecution() bool {
	return !strings.HasPrefix(l.text, "- ")
}

func (l reportLine) executionID() string {
	return strings.Fields(l.text)[0]
}

func parseReport(t *testing.T, report string) []reportLine {
	t.Helper()
	require.True(t, strings.HasPrefix(report, "\n"), "every entry starts with a line break")
	lines := make([]reportLine, 0)
	for _, line := range strings.Split(report[1:], "\n") {
		text := strings.TrimLeft(line, " ")
		lines = append(lines, reportLine{indent: len(line) - len(text), text: text})
	}
	return lines
}

// reportStructure 从报告中还原 execution -> 缩进, execution -> parent, 子行 -> 所属execution
type reportStructure struct {
	indent     map[string]int
	parent     map[string]string
	owner      map[string]string
	entryCount int
}

func analyzeReport(t *testing.T, report string) *reportStructure {
	t.Helper()
	structure := &reportStructure{
		indent: make(map[string]int),
		parent: make(map[string]string),
		owner:  make(map[string]string),
	}
	// stack 当前路径上的执行
	stack := make([]reportLine, 0)
	current := ""
	for _, line := range parseReport(t, report) {
		if !line.isExecution() {
			require.NotEmpty(t, current, "child line before any execution: %q", line.text)
			require.Equal(t, structure.indent[current], line.indent, "child line indent: %q", line.text)
			structure.owner[line.text] = current
			continue
		}
		structure.entryCount++
		id := line.executionID()
		for len(stack) > 0 && stack[len(stack)-1].indent >= line.indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			structure.parent[id] = stack[len(stack)-1].executionID()
		}
		structure.indent[id] = line.indent
		stack = append(stack, line)
		current = id
	}
	return structure
}
