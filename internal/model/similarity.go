package model

type SimilarityStatus string

const (
	StatusSimilar SimilarityStatus = "similar"
	StatusEnemy   SimilarityStatus = "enemy"
)

// Toggle similar 与 enemy 互相切换
func (s SimilarityStatus) Toggle() SimilarityStatus {
	if s == StatusEnemy {
		return StatusSimilar
	}
	return StatusEnemy
}

// QuestionItem 上传工作簿中的题目
type QuestionItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Type     string `json:"type"`
}

// SimilarItem 相似题，Score 取值 0-100
// swagger:model SimilarItem
type SimilarItem struct {
	ID         string           `json:"id"`
	SourceID   string           `json:"sourceId"`
	Question   string           `json:"question"`
	Similarity float64          `json:"similarity"`
	Type       string           `json:"type"`
	Status     SimilarityStatus `json:"status"`
}

// UploadedFile 已上传并选中的文件
type UploadedFile struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type SimilarityResult struct {
	QuestionItems []QuestionItem `json:"questionItems"`
	SimilarItems  []SimilarItem  `json:"similarItems"`
	EnemyItems    []SimilarItem  `json:"enemyItems"`
}

// SimilarityFilter 列表过滤与排序条件
type SimilarityFilter struct {
	Status   SimilarityStatus `form:"status"`
	MinScore float64          `form:"minScore"`
	Search   string           `form:"search"`
	Sort     string           `form:"sort"` // score_asc / score_desc
}
