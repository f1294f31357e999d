package model

// LearningObjective 学习目标（LO），上游字段为 loCode / loName
// swagger:model LearningObjective
type LearningObjective struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Chapter 章节，上游字段为 chapterCode / chapterName
// swagger:model Chapter
type Chapter struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DropdownOption 下拉选项（书目等），上游直接返回 {code, name} 数组
type DropdownOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type DropdownRequest struct {
	CustCode string `json:"custcode"`
	OrgCode  string `json:"orgcode"`
	AppCode  string `json:"appcode"`
}
