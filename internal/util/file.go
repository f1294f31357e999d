package util

import (
	"path/filepath"
	"strings"
)

// HasExtension 判断文件名扩展名是否在允许列表中（忽略大小写）
func HasExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// IsPDF 检测 PDF 魔数
func IsPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
