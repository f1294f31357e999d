package model

const (
	UsageTypeTotals   = 1
	UsageTypeBookWise = 2
)

type UsageRequest struct {
	CustCode string `json:"custcode"`
	OrgCode  string `json:"orgcode"`
	UserCode string `json:"usercode"`
	AppCode  string `json:"appcode"`
	Type     int    `json:"type"`
}

// BookUsage 按书目统计的使用量，由上游的位置数组解码而来（见 gateway.DecodeBookUsage）
// swagger:model BookUsage
type BookUsage struct {
	BookName        string  `json:"bookName"`
	BookCode        string  `json:"bookCode"`
	TotalQuestions  int     `json:"totalQuestions"`
	TokensUsed      string  `json:"tokensUsed"`
	QuestionTypes   string  `json:"questionTypes"`
	ChaptersCovered string  `json:"chaptersCovered"`
	AverageScore    float64 `json:"averageScore"`
	CoverImage      string  `json:"coverImage"`
	DocumentPath    string  `json:"documentPath"`
}
