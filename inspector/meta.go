package inspector

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	ErrInspectParamInvalid     = errors.New("inspect param invalid")
	ErrProcessInstanceNotFound = errors.New("process instance not found")
	ErrJobDefinitionNotFound   = errors.New("job definition not found")
	// 结构异常的error, 说明引擎返回的执行树不完整
	// ErrRootExecutionNotFound: 有执行, 但是没有一个执行的parent为空
	// 场景: 流程实例正在被终止, 根执行已经被删除
	ErrRootExecutionNotFound = errors.New("root execution not found")
	// ErrParentExecutionNotFound: 执行的parent不在同一个流程实例的执行集合里面
	ErrParentExecutionNotFound = errors.New("parent execution not found")
	// ErrExecutionUnreachable: 执行从根执行出发访问不到, 如多个根执行或者parent之间有环
	ErrExecutionUnreachable = errors.New("execution unreachable from root")
)

var validatorUtil = validator.New()

const (
	defaultIndentStep = 4
	defaultFetchCount = 100
)

type VariableType = string

const (
	VariableTypeString  VariableType = "string"
	VariableTypeLong    VariableType = "long"
	VariableTypeDouble  VariableType = "double"
	VariableTypeBoolean VariableType = "boolean"
	VariableTypeNull    VariableType = "null"
	// json 类型的变量值存放在bytes_value中
	VariableTypeJSON VariableType = "json"
)

type EventType = string

const (
	EventTypeSignal      EventType = "signal"
	EventTypeMessage     EventType = "message"
	EventTypeCompensate  EventType = "compensate"
	EventTypeConditional EventType = "conditional"
)

// IsStructuralError 判断是否是执行树结构异常,
// 结构异常不是查询失败, 重试没有意义, 需要人工检查引擎的数据
func IsStructuralError(err error) bool {
	if err == nil {
		return false
	}
	causeErr := errors.Cause(err)
	if errors.Is(causeErr, ErrRootExecutionNotFound) ||
		errors.Is(causeErr, ErrParentExecutionNotFound) ||
		errors.Is(causeErr, ErrExecutionUnreachable) ||
		errors.Is(causeErr, ErrJobDefinitionNotFound) {
		return true
	}
	return false
}
