package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 会话相关
const (
	SessionHeader     = "X-Session-Token"
	SessionContextKey = "session"
)

// 上游成功状态码
const StatusSuccess = "S001"

// 单次请求最多生成的题目数
const MaxQuestionCount = 100

// 文件上传相关常量
const (
	MimePDF         = "application/pdf"
	MimeText        = "text/plain"
	MimeOctetStream = "application/octet-stream"
	MimeXLSX        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS         = "application/vnd.ms-excel"
	MaxUploadSize   = 20 << 20
)

var (
	AllowedWorkbookExtensions = []string{".xlsx", ".xls"}
	AllowedDocumentExtensions = []string{".pdf", ".txt", ".md"}
)
