package inspector

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ExecutionPo struct {
	ID                string  `gorm:"column:id;primaryKey" json:"id"`
	ProcessInstanceID string  `gorm:"column:process_instance_id;index" json:"process_instance_id"`
	ParentID          *string `gorm:"column:parent_id;index" json:"parent_id"`       // 为空是根执行
	ActivityID        *string `gorm:"column:activity_id" json:"activity_id"`     // 当前所在的活动
	TransitionID      *string `gorm:"column:transition_id" json:"transition_id"` // 当前正在经过的连线
	CreatedAt         int64   `gorm:"column:created_at" json:"created_at"`
}

func (ExecutionPo) TableName() string {
	return "process_execution"
}

type VariablePo struct {
	ID          int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExecutionID string       `gorm:"column:execution_id;index" json:"execution_id"`
	Name        string       `gorm:"column:name" json:"name"`
	Type        VariableType `gorm:"column:type" json:"type"`
	TextValue   string       `gorm:"column:text_value" json:"text_value"`
	LongValue   int64        `gorm:"column:long_value" json:"long_value"` // long和boolean共用
	DoubleValue float64      `gorm:"column:double_value" json:"double_value"`
	BytesValue  []byte       `gorm:"column:bytes_value" json:"bytes_value"`
}

func (VariablePo) TableName() string {
	return "process_variable"
}

// Value 按照变量类型取出变量值
func (v *VariablePo) Value() any {
	switch v.Type {
	case VariableTypeString:
		return v.TextValue
	case VariableTypeLong:
		return v.LongValue
	case VariableTypeDouble:
		return v.DoubleValue
	case VariableTypeBoolean:
		return v.LongValue != 0
	case VariableTypeNull:
		return nil
	case VariableTypeJSON:
		return NewJSONContext(v.BytesValue)
	}
	return v.TextValue
}

type EventSubscriptionPo struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	ExecutionID string    `gorm:"column:execution_id;index" json:"execution_id"`
	EventType   EventType `gorm:"column:event_type" json:"event_type"`
	EventName   string    `gorm:"column:event_name" json:"event_name"`
	ActivityID  string    `gorm:"column:activity_id" json:"activity_id"`
	CreatedAt   int64     `gorm:"column:created_at" json:"created_at"`
}

func (EventSubscriptionPo) TableName() string {
	return "process_event_subscription"
}

type JobPo struct {
	ID              string `gorm:"column:id;primaryKey" json:"id"`
	ExecutionID     string `gorm:"column:execution_id;index" json:"execution_id"`
	JobDefinitionID string `gorm:"column:job_definition_id" json:"job_definition_id"`
	Retries         int64  `gorm:"column:retries" json:"retries"`
	DueDate         int64  `gorm:"column:due_date" json:"due_date"` // 0表示立即执行
	CreatedAt       int64  `gorm:"column:created_at" json:"created_at"`
}

func (JobPo) TableName() string {
	return "process_job"
}

type JobDefinitionPo struct {
	ID               string `gorm:"column:id;primaryKey" json:"id"`
	JobType          string `gorm:"column:job_type" json:"job_type"`
	JobConfiguration string `gorm:"column:job_configuration" json:"job_configuration"`
	ActivityID       string `gorm:"column:activity_id" json:"activity_id"`
}

func (JobDefinitionPo) TableName() string {
	return "process_job_definition"
}

type QueryExecutionParams struct {
	ProcessInstanceID *string `json:"process_instance_id"`
	ExecutionID       *string `json:"execution_id"`
	OrderbyIDAsc      *bool   `json:"orderby_id_asc"`
	Page              *Pager  `json:"page"`
}

type Pager struct {
	IsNoLimit *bool `json:"is_no_limit"`
	Page      int64 `json:"page"`
	Size      int64 `json:"size"`
}

type processStateRepo struct {
	db *gorm.DB
}

func NewProcessStateRepo(db *gorm.DB) ProcessStateRepo {
	return &processStateRepo{
		db: db,
	}
}

// AutoMigrate 建表, 只给测试和示例使用, 真实环境的表由流程引擎维护
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ExecutionPo{}, &VariablePo{}, &EventSubscriptionPo{}, &JobPo{}, &JobDefinitionPo{})
}

func buildQueryExecutionParams(db *gorm.DB, param *QueryExecutionParams) (*gorm.DB, error) {
	if param == nil {
		return nil, errors.New("nil QueryExecutionParams")
	}
	if param.ProcessInstanceID != nil {
		db = db.Where("process_instance_id = ?", *param.ProcessInstanceID)
	}
	if param.ExecutionID != nil {
		db = db.Where("id = ?", *param.ExecutionID)
	}
	if param.OrderbyIDAsc != nil {
		if *param.OrderbyIDAsc {
			db = db.Order("id asc")
		} else {
			db = db.Order("id desc")
		}
	}
	if param.Page == nil {
		return nil, errors.New("page is nil")
	}
	if param.Page.IsNoLimit != nil && *param.Page.IsNoLimit {
		// 不分页显示指定了true
		return db, nil
	}
	if param.Page.Page == 0 {
		param.Page.Page = 1
	}
	if param.Page.Size == 0 {
		param.Page.Size = defaultFetchCount
	}
	db = db.Offset(int(param.Page.Page-1) * int(param.Page.Size)).Limit(int(param.Page.Size))
	return db, nil
}

func (r *processStateRepo) QueryExecution(ctx context.Context, param *QueryExecutionParams) ([]*ExecutionPo, error) {
	if param == nil {
		return nil, fmt.Errorf("nil QueryExecutionParams")
	}
	db := r.db.WithContext(ctx).Model(&ExecutionPo{})
	db, err := buildQueryExecutionParams(db, param)
	if err != nil {
		return nil, errors.WithMessage(err, "buildQueryExecutionParams failed")
	}
	pos := make([]*ExecutionPo, 0)
	if err := db.Find(&pos).Error; err != nil {
		return nil, errors.WithMessage(err, "QueryExecution failed")
	}
	return pos, nil
}

func (r *processStateRepo) QueryLocalVariable(ctx context.Context, executionID string) ([]*VariablePo, error) {
	pos := make([]*VariablePo, 0)
	err := r.db.WithContext(ctx).Model(&VariablePo{}).
		Where("execution_id = ?", executionID).
		Order("name asc").
		Find(&pos).Error
	if err != nil {
		return nil, errors.WithMessagef(err, "QueryLocalVariable failed, executionID: %s", executionID)
	}
	return pos, nil
}

func (r *processStateRepo) QueryEventSubscription(ctx context.Context, executionID string) ([]*EventSubscriptionPo, error) {
	pos := make([]*EventSubscriptionPo, 0)
	err := r.db.WithContext(ctx).Model(&EventSubscriptionPo{}).
		Where("execution_id = ?", executionID).
		Order("id asc").
		Find(&pos).Error
	if err != nil {
		return nil, errors.WithMessagef(err, "QueryEventSubscription failed, executionID: %s", executionID)
	}
	return pos, nil
}

func (r *processStateRepo) QueryJob(ctx context.Context, executionID string) ([]*JobPo, error) {
	pos := make([]*JobPo, 0)
	err := r.db.WithContext(ctx).Model(&JobPo{}).
		Where("execution_id = ?", executionID).
		Order("id asc").
		Find(&pos).Error
	if err != nil {
		return nil, errors.WithMessagef(err, "QueryJob failed, executionID: %s", executionID)
	}
	return pos, nil
}

func (r *processStateRepo) GetJobDefinition(ctx context.Context, jobDefinitionID string) (*JobDefinitionPo, error) {
	pos := make([]*JobDefinitionPo, 0)
	err := r.db.WithContext(ctx).Model(&JobDefinitionPo{}).
		Where("id = ?", jobDefinitionID).
		Limit(1).
		Find(&pos).Error
	if err != nil {
		return nil, errors.WithMessagef(err, "GetJobDefinition failed, jobDefinitionID: %s", jobDefinitionID)
	}
	if len(pos) == 0 {
		return nil, errors.WithMessagef(ErrJobDefinitionNotFound, "jobDefinitionID: %s", jobDefinitionID)
	}
	return pos[0], nil
}
