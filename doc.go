// Package inspector 提供流程实例状态的只读诊断功能。
//
// 给定一个运行中的流程实例ID，查询流程引擎扁平的执行、变量、事件订阅、任务表，
// 按照 parent_id 还原执行树，输出流程实例当前状态的文本报告。
//
// 主要特性：
//   - 只读：不修改流程引擎的任何数据
//   - 完整：每个执行只输出一次，挂在真实的父执行下面，分页查询不截断
//   - 结构检查：没有根执行、父执行丢失、访问不到的执行都会返回明确的错误
//   - 缓存：任务定义可以缓存在进程内或者 Redis 中
//
// 基础使用示例:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/blingmoon/process-inspector/inspector"
//	    "gorm.io/driver/sqlite"
//	    "gorm.io/gorm"
//	)
//
//	func main() {
//	    // 1. 打开流程引擎的数据库
//	    db, _ := gorm.Open(sqlite.Open("workflow.db"), &gorm.Config{})
//
//	    // 2. 创建查询服务
//	    repo := inspector.NewProcessStateRepo(db)
//	    service := inspector.NewProcessStateService(repo)
//
//	    // 3. 输出流程实例状态
//	    report, err := service.DumpProcessState(context.Background(), "Signal:1")
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(report)
//	}
//
// 报告格式：
//
// 每个执行一行，子执行比父执行多缩进4个空格，变量、事件订阅、任务和所属执行的缩进一样：
//
//	Signal:1
//	    Signal:1-task2 in UserTask_2
//	    - Variable 'var' = val
//	    Signal:1-signal in SignalCatch_1
//	    - EventSubscription[sub1] for alarm in SignalCatch_1
//	    Signal:1-async at SequenceFlow_4
//	    - Job[job1] async-continuation (cfg-1)
//
// 多次查询之间没有事务，流程实例同时被修改时输出的是不一致的快照。
//
// 更多示例和文档请访问: https://github.com/blingmoon/process-inspector
package inspector
