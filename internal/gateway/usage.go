package gateway

import (
	"ai_authoring_backend/internal/model"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 书目使用量的位置数组约定。上游按下标返回字段，没有字段名也没有版本号，
// 任何字段顺序调整只需要改这一张表。
//
//	idx  字段              处理
//	0    BookName          字符串
//	1    BookCode          字符串
//	2    TotalQuestions    数值化（数字或数字字符串，否则为 0）
//	3    TokensUsed        字符串
//	4    QuestionTypes     字符串
//	5    ChaptersCovered   字符串
//	6    AverageScore      数字
//	7    CoverImage        字符串
//	8    DocumentPath      字符串
const bookUsageWidth = 9

var bookUsageFields = [bookUsageWidth]func(u *model.BookUsage, cell json.RawMessage){
	func(u *model.BookUsage, c json.RawMessage) { u.BookName = cellString(c) },
	func(u *model.BookUsage, c json.RawMessage) { u.BookCode = cellString(c) },
	func(u *model.BookUsage, c json.RawMessage) { u.TotalQuestions = int(cellNumber(c)) },
	func(u *model.BookUsage, c json.RawMessage) { u.TokensUsed = cellString(c) },
	func(u *model.BookUsage, c json.RawMessage) { u.QuestionTypes = cellString(c) },
	func(u *model.BookUsage, c json.RawMessage) { u.ChaptersCovered = cellString(c) },
	func(u *model.BookUsage, c json.RawMessage) { u.AverageScore = cellNumber(c) },
	func(u *model.BookUsage, c json.RawMessage) { u.CoverImage = cellString(c) },
	func(u *model.BookUsage, c json.RawMessage) { u.DocumentPath = cellString(c) },
}

// DecodeBookUsage 把 [[...], [...]] 形式的响应映射为 BookUsage 列表
// 不足 9 列的行按零值补齐，多出的列忽略
func DecodeBookUsage(body []byte) ([]model.BookUsage, error) {
	rows, err := NormalizeListResponse[[]json.RawMessage](body)
	if err != nil {
		return nil, fmt.Errorf("decode book usage: %w", err)
	}

	out := make([]model.BookUsage, 0, len(rows))
	for _, row := range rows {
		var u model.BookUsage
		for i, cell := range row {
			if i >= bookUsageWidth {
				break
			}
			bookUsageFields[i](&u, cell)
		}
		out = append(out, u)
	}
	return out, nil
}

// cellString 字符串原样返回，数字等其他标量取其字面量，null 为空串
func cellString(c json.RawMessage) string {
	c = bytes.TrimSpace(c)
	if len(c) == 0 || bytes.Equal(c, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(c, &s); err == nil {
		return s
	}
	return string(c)
}

// cellNumber 数字直接取值，数字字符串解析，其余为 0
func cellNumber(c json.RawMessage) float64 {
	c = bytes.TrimSpace(c)
	var f float64
	if err := json.Unmarshal(c, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(c, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}
