package model

import "time"

// KnowledgeBase 检索增强对话使用的知识库
// swagger:model KnowledgeBase
type KnowledgeBase struct {
	BaseModel
	Name        string              `gorm:"size:255;not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	CreatedBy   string              `gorm:"size:64;index" json:"createdBy"`
	Documents   []KnowledgeDocument `gorm:"foreignKey:KnowledgeBaseID" json:"documents,omitempty"`
}

func (KnowledgeBase) TableName() string {
	return "knowledge_bases"
}

// KnowledgeDocument 知识库文档，Content 为抽取出的纯文本
type KnowledgeDocument struct {
	BaseModel
	KnowledgeBaseID uint   `gorm:"index;not null" json:"knowledgeBaseId"`
	FileName        string `gorm:"size:255;not null" json:"fileName"`
	FileURL         string `gorm:"size:512" json:"fileUrl"`
	StorageKey      string `gorm:"size:255" json:"-"`
	ContentType     string `gorm:"size:100" json:"contentType"`
	Content         string `gorm:"type:longtext" json:"-"`
	CharCount       int    `json:"charCount"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}

// ChatMessage 文档对话历史
type ChatMessage struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	KnowledgeBaseID uint      `gorm:"index" json:"knowledgeBaseId"`
	SessionID       string    `gorm:"size:64;index" json:"-"`
	Question        string    `gorm:"type:text;not null" json:"question"`
	Answer          string    `gorm:"type:text;not null" json:"answer"`
	Intent          string    `gorm:"size:30" json:"intent"`
	Source          string    `gorm:"size:20" json:"source"` // intent / knowledge_base / llm / fallback
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "doc_chat_messages"
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatReply struct {
	Answer string `json:"answer"`
	Intent string `json:"intent,omitempty"`
	Source string `json:"source"`
}
