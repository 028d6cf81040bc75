package inspector

import "context"

// ProcessStateService 流程实例状态查询服务, 只读, 用于诊断
//
// 多次查询(执行,变量,事件订阅,任务,任务定义)之间没有事务,
// 如果流程实例同时被其他进程修改(如完成了一个任务), 结果是一个不一致的快照,
// 对于诊断工具是可以接受的
type ProcessStateService interface {
	/**
	 * @description: 输出流程实例当前状态的文本报告, 使用默认的缩进配置
	 * @param ctx context.Context
	 * @param processInstanceID string 流程实例ID
	 * @return string, error 出现错误时不返回部分结果
	 */
	DumpProcessState(ctx context.Context, processInstanceID string) (string, error)
	/**
	 * @description: 输出流程实例当前状态的文本报告
	 * @param ctx context.Context
	 * @param params *DumpProcessStateParams
	 *				  params.ProcessInstanceID 为流程实例ID
	 *				  params.Options 为缩进配置, 为空使用默认配置
	 * @return string, error
	 */
	DumpProcessStateWithParams(ctx context.Context, params *DumpProcessStateParams) (string, error)
	/**
	 * @description: 查询流程实例的执行树, 文本报告的数据来源
	 * @param ctx context.Context
	 * @param processInstanceID string 流程实例ID
	 * @return *ExecutionNode 根执行, error
	 */
	QueryProcessStateTree(ctx context.Context, processInstanceID string) (*ExecutionNode, error)
}

type DumpProcessStateParams struct {
	ProcessInstanceID string         `json:"process_instance_id" validate:"required"`
	Options           *RenderOptions `json:"options"`
}

type QueryProcessStateParams struct {
	ProcessInstanceID string `json:"process_instance_id" validate:"required"`
}
