package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NormalizeListResponse 同时接受 T[] 与 {"data": T[]} 两种响应形态，null 或缺少 data 时返回空列表
func NormalizeListResponse[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return nonNil(list), nil
	case '{':
		var envelope struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode data envelope: %w", err)
		}
		return nonNil(envelope.Data), nil
	default:
		return nil, fmt.Errorf("unexpected list response: %.40s", string(trimmed))
	}
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// codeNamePair 上游 LO / 章节条目的公共形态
type codeNamePair interface {
	pair() (code, name string)
}

type rawLearningObjective struct {
	LOCode string `json:"loCode"`
	LOName string `json:"loName"`
}

func (r rawLearningObjective) pair() (string, string) { return r.LOCode, r.LOName }

type rawChapter struct {
	ChapterCode string `json:"chapterCode"`
	ChapterName string `json:"chapterName"`
}

func (r rawChapter) pair() (string, string) { return r.ChapterCode, r.ChapterName }

// filterCodeNames 丢弃 code 和 name 同时为空的条目
func filterCodeNames[T codeNamePair, R any](items []T, build func(code, name string) R) []R {
	out := make([]R, 0, len(items))
	for _, it := range items {
		code, name := it.pair()
		if code == "" && name == "" {
			continue
		}
		out = append(out, build(code, name))
	}
	return out
}
