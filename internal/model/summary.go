package model

type SummaryRequest struct {
	ChapterName string `json:"chapterName" form:"chapterName" validate:"required"`
	Text        string `json:"text" form:"text"`
}

// ChapterSummary 章节摘要
type ChapterSummary struct {
	ChapterName string   `json:"chapterName"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	Source      string   `json:"source"` // llm / simulation
}
