package model

const QuestionCountPerELO = "per-elo"

// QuizRequest 测验生成表单
type QuizRequest struct {
	Name          string   `json:"name" validate:"required"`
	Grade         string   `json:"grade" validate:"required"`
	Subject       string   `json:"subject" validate:"required"`
	Chapter       string   `json:"chapter" validate:"required"`
	ELOs          []string `json:"elos" validate:"required,min=1,max=30,dive,required"`
	QuestionCount string   `json:"questionCount" validate:"required,question_count"`
}

// QuizQuestion 单选题，Options 固定四项，CorrectIndex 指向正确选项
// swagger:model QuizQuestion
type QuizQuestion struct {
	ID           string   `json:"id"`
	ELO          string   `json:"elo"`
	Stem         string   `json:"stem"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

type ELOGroup struct {
	ELO       string         `json:"elo"`
	Questions []QuizQuestion `json:"questions"`
}

// Quiz 生成结果
type Quiz struct {
	Request   QuizRequest    `json:"request"`
	Questions []QuizQuestion `json:"questions"`
}
