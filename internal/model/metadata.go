package model

type MetadataRequest struct {
	QuestionText string `json:"questionText" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	Grade        string `json:"grade"`
}

// ItemMetadata 题目元数据建议
type ItemMetadata struct {
	Subject          string   `json:"subject"`
	Grade            string   `json:"grade,omitempty"`
	Taxonomy         string   `json:"taxonomy"`
	Difficulty       string   `json:"difficulty"`
	Keywords         []string `json:"keywords"`
	EstimatedSeconds int      `json:"estimatedSeconds"`
}
