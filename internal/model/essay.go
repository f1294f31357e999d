package model

import (
	"encoding/json"
	"time"
)

// EssayQuestion 作文题及考生作答，AIScore 仅在评估后有值
type EssayQuestion struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	MaxScore float64  `json:"maxScore"`
	Answer   string   `json:"answer"`
	AIScore  *float64 `json:"aiScore,omitempty"`
	Feedback string   `json:"feedback,omitempty"`
}

// Evaluation 已保存的评估记录
// swagger:model Evaluation
type Evaluation struct {
	UUIDBase
	CandidateID   string          `gorm:"size:64;index;not null" json:"candidateId"`
	Evaluator     string          `gorm:"size:100" json:"evaluator"`
	EvaluatedAt   time.Time       `gorm:"index" json:"timestamp"`
	SessionID     string          `gorm:"size:64;index" json:"-"`
	QuestionsJSON json.RawMessage `gorm:"type:json" json:"-"`
	Questions     []EssayQuestion `gorm:"-" json:"questions"`
}

func (Evaluation) TableName() string {
	return "essay_evaluations"
}
