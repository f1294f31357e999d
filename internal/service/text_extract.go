package service

import (
	"ai_authoring_backend/internal/util"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ExtractText 从 PDF 或纯文本 / markdown 文件中抽取文本
func ExtractText(filename string, data []byte) (text string, contentType string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf" || util.IsPDF(data):
		text, err = extractPDF(data)
		contentType = util.MimePDF
	case ext == ".txt" || ext == ".md":
		if !utf8.Valid(data) {
			return "", "", fmt.Errorf("%w: %s is not valid UTF-8 text", util.ErrUnsupportedFile, filename)
		}
		text = collapseWhitespace(string(data))
		contentType = util.MimeText
	default:
		return "", "", fmt.Errorf("%w: %s", util.ErrUnsupportedFile, ext)
	}
	if err != nil {
		return "", "", err
	}
	if text == "" {
		return "", "", util.ErrEmptyDocument
	}
	return text, contentType, nil
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

// collapseWhitespace 合并连续空白，段落间保留一个换行
func collapseWhitespace(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// splitSentences 简单按句末标点切分
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range strings.ReplaceAll(text, "\n", " ") {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}
