package tests

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blingmoon/process-inspector/inspector"
	"github.com/blingmoon/process-inspector/internal/fixtures"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建内存数据库, 模拟流程引擎的表
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// 内存数据库每个连接都是独立的库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, inspector.AutoMigrate(db))
	return db
}

func setupTestService(t *testing.T, snapshots ...*fixtures.Snapshot) inspector.ProcessStateService {
	db := setupTestDB(t)
	for _, snapshot := range snapshots {
		require.NoError(t, fixtures.Seed(context.Background(), db, snapshot))
	}
	return inspector.NewProcessStateService(inspector.NewProcessStateRepo(db))
}

// TestDumpSignalProcess gorm实现按照id升序返回, 兄弟执行的顺序是确定的
func TestDumpSignalProcess(t *testing.T) {
	service := setupTestService(t, fixtures.SignalProcess("pi-1"), fixtures.ChainProcess("pi-2", 3))
	ctx := context.Background()

	t.Run("并行分支", func(t *testing.T) {
		report, err := service.DumpProcessState(ctx, "pi-1")
		require.NoError(t, err)
		expected := "\npi-1" +
			"\n    pi-1-async at SequenceFlow_4" +
			"\n    - Job[pi-1-job1] async-continuation (transition-notify-listener-take$SequenceFlow_4)" +
			"\n    pi-1-signal in SignalCatch_1" +
			"\n    - EventSubscription[pi-1-sub1] for alarm in SignalCatch_1" +
			"\n    pi-1-task1 in UserTask_1" +
			"\n    pi-1-task2 in UserTask_2" +
			"\n    - Variable 'var' = val"
		assert.Equal(t, expected, report)
	})

	t.Run("单链", func(t *testing.T) {
		report, err := service.DumpProcessState(ctx, "pi-2")
		require.NoError(t, err)
		assert.Equal(t, "\npi-2\n    pi-2-c1\n        pi-2-c2\n            pi-2-c3", report)
	})

	t.Run("流程实例不存在", func(t *testing.T) {
		_, err := service.DumpProcessState(ctx, "pi-404")
		require.Error(t, err)
		assert.True(t, errors.Is(err, inspector.ErrProcessInstanceNotFound))
	})

	t.Run("执行树json", func(t *testing.T) {
		root, err := service.QueryProcessStateTree(ctx, "pi-1")
		require.NoError(t, err)
		assert.Equal(t, 5, root.Count())
		b, err := inspector.RenderProcessStateJSON(root)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"job_type": "async-continuation"`)
		assert.Contains(t, string(b), `"event_type": "signal"`)
	})
}

func TestDumpWideProcess(t *testing.T) {
	// 超过一页(100)的执行
	service := setupTestService(t, fixtures.WideProcess("pi-wide", 250))
	report, err := service.DumpProcessState(context.Background(), "pi-wide")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimPrefix(report, "\n"), "\n")
	// 根执行 + 250个分支, 每个分支一个变量
	require.Len(t, lines, 1+250*2)
	assert.Equal(t, "pi-wide", lines[0])
	for i := 0; i < 250; i++ {
		assert.Equal(t, fmt.Sprintf("    pi-wide-b%04d in UserTask", i), lines[1+i*2])
		assert.Equal(t, fmt.Sprintf("    - Variable 'branch' = %d", i), lines[2+i*2])
	}
}

func TestDumpStructuralError(t *testing.T) {
	ctx := context.Background()
	broken := &fixtures.Snapshot{
		ProcessInstanceID: "pi-broken",
		Executions: []*inspector.ExecutionPo{
			fixtures.NewExecution("pi-broken", "pi-broken", nil, nil, nil),
			fixtures.NewExecution("pi-broken", "pi-broken-a", inspector.String("deleted"), nil, nil),
		},
	}
	rootless := &fixtures.Snapshot{
		ProcessInstanceID: "pi-rootless",
		Executions: []*inspector.ExecutionPo{
			fixtures.NewExecution("pi-rootless", "pi-rootless-a", inspector.String("pi-rootless-b"), nil, nil),
			fixtures.NewExecution("pi-rootless", "pi-rootless-b", inspector.String("pi-rootless-a"), nil, nil),
		},
	}
	service := setupTestService(t, broken, rootless)

	_, err := service.DumpProcessState(ctx, "pi-broken")
	assert.True(t, errors.Is(err, inspector.ErrParentExecutionNotFound))
	assert.True(t, inspector.IsStructuralError(err))

	_, err = service.DumpProcessState(ctx, "pi-rootless")
	assert.True(t, errors.Is(err, inspector.ErrRootExecutionNotFound))
}

func TestProcessStateRepoGorm(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	require.NoError(t, fixtures.Seed(ctx, db, fixtures.ChainProcess("pi", 4)))
	require.NoError(t, fixtures.Seed(ctx, db, &fixtures.Snapshot{
		Variables: []*inspector.VariablePo{
			fixtures.NewStringVariable("pi", "zeta", "z"),
			{ExecutionID: "pi", Name: "amount", Type: inspector.VariableTypeLong, LongValue: 42},
			{ExecutionID: "pi", Name: "approved", Type: inspector.VariableTypeBoolean, LongValue: 1},
			{ExecutionID: "pi", Name: "nothing", Type: inspector.VariableTypeNull},
			{ExecutionID: "pi", Name: "order", Type: inspector.VariableTypeJSON, BytesValue: []byte(`{"id":"O-1"}`)},
			fixtures.NewStringVariable("pi-c1", "other", "x"),
		},
		JobDefinitions: []*inspector.JobDefinitionPo{{ID: "D", JobType: "timer", JobConfiguration: "PT1H"}},
	}))
	repo := inspector.NewProcessStateRepo(db)

	t.Run("分页查询执行", func(t *testing.T) {
		executions, err := repo.QueryExecution(ctx, &inspector.QueryExecutionParams{
			ProcessInstanceID: inspector.String("pi"),
			OrderbyIDAsc:      inspector.Bool(false),
			Page:              &inspector.Pager{Page: 2, Size: 2},
		})
		require.NoError(t, err)
		require.Len(t, executions, 2)
		// pi-c4, pi-c3 | pi-c2, pi-c1 | pi
		assert.Equal(t, "pi-c2", executions[0].ID)
		assert.Equal(t, "pi-c1", executions[1].ID)
		assert.Equal(t, "pi", executions[0].ProcessInstanceID)
	})

	t.Run("不分页", func(t *testing.T) {
		executions, err := repo.QueryExecution(ctx, &inspector.QueryExecutionParams{
			ProcessInstanceID: inspector.String("pi"),
			Page:              &inspector.Pager{IsNoLimit: inspector.Bool(true)},
		})
		require.NoError(t, err)
		assert.Len(t, executions, 5)
	})

	t.Run("page为空", func(t *testing.T) {
		_, err := repo.QueryExecution(ctx, &inspector.QueryExecutionParams{ProcessInstanceID: inspector.String("pi")})
		assert.Error(t, err)
		_, err = repo.QueryExecution(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("局部变量按照名称排序", func(t *testing.T) {
		variables, err := repo.QueryLocalVariable(ctx, "pi")
		require.NoError(t, err)
		names := make([]string, 0)
		values := make([]any, 0)
		for _, variable := range variables {
			names = append(names, variable.Name)
			values = append(values, variable.Value())
		}
		assert.Equal(t, []string{"amount", "approved", "nothing", "order", "zeta"}, names)
		assert.Equal(t, int64(42), values[0])
		assert.Equal(t, true, values[1])
		assert.Nil(t, values[2])
		assert.Equal(t, `{"id":"O-1"}`, fmt.Sprint(values[3]))
		assert.Equal(t, "z", values[4])
	})

	t.Run("任务定义", func(t *testing.T) {
		jobDefinition, err := repo.GetJobDefinition(ctx, "D")
		require.NoError(t, err)
		assert.Equal(t, "timer", jobDefinition.JobType)

		_, err = repo.GetJobDefinition(ctx, "missing")
		assert.True(t, errors.Is(err, inspector.ErrJobDefinitionNotFound))
	})

	t.Run("变量输出", func(t *testing.T) {
		report, err := inspector.NewProcessStateService(repo).DumpProcessState(ctx, "pi")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(report, "\npi"+
			"\n- Variable 'amount' = 42"+
			"\n- Variable 'approved' = true"+
			"\n- Variable 'nothing' = null"+
			"\n- Variable 'order' = {\"id\":\"O-1\"}"+
			"\n- Variable 'zeta' = z"+
			"\n    pi-c1"+
			"\n    - Variable 'other' = x"), report)
	})
}

func TestDumpWithCachedRepo(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	require.NoError(t, fixtures.Seed(ctx, db, fixtures.SignalProcess("pi-1")))
	repo := inspector.NewCachedProcessStateRepo(inspector.NewProcessStateRepo(db), inspector.NewLocalJobDefinitionCache(), time.Minute)
	service := inspector.NewProcessStateService(repo)

	first, err := service.DumpProcessState(ctx, "pi-1")
	require.NoError(t, err)

	// 删除任务定义之后仍然可以从缓存中读取
	require.NoError(t, db.Where("1 = 1").Delete(&inspector.JobDefinitionPo{}).Error)
	second, err := service.DumpProcessState(ctx, "pi-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
