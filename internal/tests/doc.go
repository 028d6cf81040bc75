// Package tests 是 process-inspector 的内部测试模块。
//
// 此包位于 internal/ 目录下，外部项目无法导入。
//
// 测试内容
//
// 此模块使用内存 SQLite 模拟流程引擎的表，包含以下测试：
//   - gorm 查询实现的测试（分页、排序、任务定义查询）
//   - 从 SQLite 读取并输出流程状态的端到端测试
//   - 结构异常（没有根执行、parent丢失）的测试
//
// 运行测试
//
// 在项目根目录：
//
//	go test ./internal/tests/...
package tests
