package model

// ItemGenInput 题目生成参数，会话编码由服务层填充
type ItemGenInput struct {
	URL            string `json:"url" validate:"required"`
	Question       string `json:"question" validate:"required"`
	Source         string `json:"source"`
	BookID         int    `json:"bookid" validate:"required,gt=0"`
	QuestionTypeID int    `json:"questiontypeid" validate:"required,gt=0"`
	TaxonomyID     int    `json:"taxonomyid" validate:"required,gt=0"`
	DifficultyID   int    `json:"difficultyid" validate:"required,gt=0"`
	ChapterCode    string `json:"chaptercode" validate:"required"`
	LOCode         string `json:"locode,omitempty"`
	Count          int    `json:"count" validate:"required,min=1,max=100"`
	CustCode       string `json:"custcode"`
	OrgCode        string `json:"orgcode"`
	UserCode       string `json:"usercode"`
	AppCode        string `json:"appcode"`
}

// ItemQuery 题库查询条件，PageSize / PageNo 原样透传给上游
type ItemQuery struct {
	CustCode       string `json:"custcode"`
	OrgCode        string `json:"orgcode"`
	UserCode       string `json:"usercode"`
	AppCode        string `json:"appcode"`
	BookID         int    `json:"bookid,omitempty"`
	ChapterCode    string `json:"chaptercode,omitempty"`
	LOCode         string `json:"locode,omitempty"`
	QuestionTypeID int    `json:"questiontypeid,omitempty"`
	PageSize       int    `json:"pagesize"`
	PageNo         int    `json:"pageno"`
}

type DeleteQuestionRequest struct {
	QuestionID        string `json:"questionid"`
	QuestionRequestID string `json:"questionrequestid"`
	UserCode          string `json:"usercode"`
}

type QuestionUpdate struct {
	QuestionID  string   `json:"questionid"`
	Question    string   `json:"question" validate:"required"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	UserCode    string   `json:"usercode"`
}
