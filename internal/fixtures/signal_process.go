package fixtures

import (
	"github.com/blingmoon/process-inspector/inspector"
)

// SignalProcess 信号流程运行中的快照
// 流程结构：开始 -> 并行网关 -> (UserTask_1 | UserTask_2 | 等待信号 alarm) -> 汇聚
// UserTask_2 的执行上设置了局部变量 var=val, 另外一个分支正在异步继续 (async-continuation)
//
//	<pid>
//	    <pid>-task1 in UserTask_1
//	    <pid>-task2 in UserTask_2
//	    - Variable 'var' = val
//	    <pid>-signal in SignalCatch_1
//	    - EventSubscription[<pid>-sub1] for alarm in SignalCatch_1
//	    <pid>-async at SequenceFlow_4
//	    - Job[<pid>-job1] async-continuation (transition-notify-listener-take$SequenceFlow_4)
func SignalProcess(processInstanceID string) *Snapshot {
	pid := processInstanceID
	return &Snapshot{
		ProcessInstanceID: pid,
		Executions: []*inspector.ExecutionPo{
			NewExecution(pid, pid, nil, nil, nil),
			NewExecution(pid, pid+"-task1", inspector.String(pid), inspector.String("UserTask_1"), nil),
			NewExecution(pid, pid+"-task2", inspector.String(pid), inspector.String("UserTask_2"), nil),
			NewExecution(pid, pid+"-signal", inspector.String(pid), inspector.String("SignalCatch_1"), nil),
			NewExecution(pid, pid+"-async", inspector.String(pid), nil, inspector.String("SequenceFlow_4")),
		},
		Variables: []*inspector.VariablePo{
			NewStringVariable(pid+"-task2", "var", "val"),
		},
		EventSubscriptions: []*inspector.EventSubscriptionPo{
			{
				ID:          pid + "-sub1",
				ExecutionID: pid + "-signal",
				EventType:   inspector.EventTypeSignal,
				EventName:   "alarm",
				ActivityID:  "SignalCatch_1",
			},
		},
		Jobs: []*inspector.JobPo{
			{
				ID:              pid + "-job1",
				ExecutionID:     pid + "-async",
				JobDefinitionID: pid + "-jobdef1",
				Retries:         3,
			},
		},
		JobDefinitions: []*inspector.JobDefinitionPo{
			{
				ID:               pid + "-jobdef1",
				JobType:          "async-continuation",
				JobConfiguration: "transition-notify-listener-take$SequenceFlow_4",
				ActivityID:       "SequenceFlow_4",
			},
		},
	}
}
