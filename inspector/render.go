package inspector

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RenderOptions 文本报告的缩进配置
type RenderOptions struct {
	BaseIndent int `json:"base_indent" validate:"gte=0"` // 根执行的缩进
	IndentStep int `json:"indent_step" validate:"gt=0"`  // 每一层子执行增加的缩进
}

func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		BaseIndent: 0,
		IndentStep: defaultIndentStep,
	}
}

/*
*
  - @description: 执行树渲染成文本报告, 每一行前面都有一个换行
    <id>[ in <activityId>][ at <transitionId>]
    - Variable '<name>' = <value>
    - EventSubscription[<id>] for <eventName> in <activityId>
    - Job[<id>] <jobType> (<jobConfiguration>)
    子执行的缩进 + IndentStep
  - @param root *ExecutionNode
  - @param options *RenderOptions 为空使用默认配置
  - @return string
*/
func RenderProcessStateTree(root *ExecutionNode, options *RenderOptions) string {
	if root == nil {
		return ""
	}
	if options == nil {
		options = DefaultRenderOptions()
	}
	sb := &strings.Builder{}
	renderExecutionNode(sb, options.BaseIndent, options.IndentStep, root)
	return sb.String()
}

func renderExecutionNode(sb *strings.Builder, indent int, indentStep int, node *ExecutionNode) {
	padding := strings.Repeat(" ", indent)
	sb.WriteByte('\n')
	sb.WriteString(padding)
	sb.WriteString(node.ID)
	if node.ActivityID != nil {
		sb.WriteString(" in ")
		sb.WriteString(*node.ActivityID)
	}
	if node.TransitionID != nil {
		sb.WriteString(" at ")
		sb.WriteString(*node.TransitionID)
	}
	for _, variable := range node.Variables {
		fmt.Fprintf(sb, "\n%s- Variable '%s' = %s", padding, variable.Name, formatVariableValue(variable.Value))
	}
	for _, subscription := range node.EventSubscriptions {
		fmt.Fprintf(sb, "\n%s- EventSubscription[%s] for %s in %s", padding, subscription.ID, subscription.EventName, subscription.ActivityID)
	}
	for _, job := range node.Jobs {
		fmt.Fprintf(sb, "\n%s- Job[%s] %s (%s)", padding, job.ID, job.JobType, job.JobConfiguration)
	}
	for _, child := range node.Children {
		renderExecutionNode(sb, indent+indentStep, indentStep, child)
	}
}

func formatVariableValue(value any) string {
	if value == nil {
		return "null"
	}
	switch v := value.(type) {
	case float64:
		return formatDouble(v)
	case float32:
		return formatDouble(float64(v))
	}
	return fmt.Sprintf("%v", value)
}

// formatDouble 浮点数保留小数部分, 1 输出 1.0, 1e21 输出 1.0E21
// 绝对值在 [1e-3, 1e7) 之间使用小数形式, 其他使用科学计数法
func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	// 1E+21 -> 1.0E21, 1.5E-05 -> 1.5E-5
	s := strconv.FormatFloat(v, 'E', -1, 64)
	mantissa, exponent, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(exp)
}

// RenderProcessStateJSON 执行树的json格式, 给程序或者其他工具使用
func RenderProcessStateJSON(root *ExecutionNode) ([]byte, error) {
	if root == nil {
		return nil, errors.New("root is nil")
	}
	b, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, errors.WithMessagef(err, "MarshalIndent failed, executionID: %s", root.ID)
	}
	return b, nil
}
