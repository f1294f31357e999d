package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"context"
	"sort"
	"strings"
	"unicode"
)

const (
	pageMetadata    = "metadata"
	maxKeywords     = 5
	secondsPerWord  = 3
	minItemDuration = 30
)

type MetadataPage struct {
	flow *Flow[model.ItemMetadata]
}

func newMetadataPage() *MetadataPage {
	return &MetadataPage{flow: NewFlow[model.ItemMetadata]()}
}

type MetadataService struct {
	pages *PageRegistry[MetadataPage]
	sim   *Simulator
}

func NewMetadataService(sim *Simulator) *MetadataService {
	return &MetadataService{pages: NewPageRegistry(newMetadataPage), sim: sim}
}

func (s *MetadataService) Pages() Sweeper {
	return s.pages
}

func (s *MetadataService) Tag(ctx context.Context, sess *session.Context, req model.MetadataRequest) (*model.ItemMetadata, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	page := s.pages.Get(sess.ID())
	meta, err := runFlow(ctx, page.flow, pageMetadata, "tag", sess.ID(), func(ctx context.Context) (model.ItemMetadata, error) {
		if err := s.sim.Wait(ctx); err != nil {
			return model.ItemMetadata{}, err
		}
		return SynthesizeMetadata(req), nil
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *MetadataService) Current(sess *session.Context) FlowSnapshot[model.ItemMetadata] {
	return s.pages.Get(sess.ID()).flow.Snapshot()
}

// bloomLevels 自高到低匹配，命中第一个即返回
var bloomLevels = []struct {
	level string
	verbs []string
}{
	{"Create", []string{"design", "create", "compose", "construct", "formulate", "invent", "plan"}},
	{"Evaluate", []string{"evaluate", "justify", "judge", "critique", "assess", "defend", "argue"}},
	{"Analyze", []string{"analyze", "analyse", "compare", "contrast", "differentiate", "examine", "categorize"}},
	{"Apply", []string{"solve", "calculate", "apply", "use", "demonstrate", "compute", "find"}},
	{"Understand", []string{"explain", "describe", "summarize", "interpret", "classify", "discuss"}},
	{"Remember", []string{"define", "list", "name", "identify", "recall", "state", "what", "which", "who"}},
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true, "or": true, "to": true, "in": true,
	"on": true, "for": true, "is": true, "are": true, "was": true, "were": true, "be": true, "by": true,
	"with": true, "that": true, "this": true, "it": true, "its": true, "as": true, "at": true, "from": true,
	"what": true, "which": true, "who": true, "how": true, "why": true, "when": true, "if": true, "do": true,
	"does": true, "your": true, "you": true, "following": true, "each": true, "their": true, "they": true,
}

// SynthesizeMetadata 由题干文本推断分类层级、难度、关键词和作答时长
func SynthesizeMetadata(req model.MetadataRequest) model.ItemMetadata {
	words := tokenize(req.QuestionText)
	return model.ItemMetadata{
		Subject:          req.Subject,
		Grade:            req.Grade,
		Taxonomy:         bloomLevel(words),
		Difficulty:       difficultyFor(len(words)),
		Keywords:         topKeywords(words, maxKeywords),
		EstimatedSeconds: max(minItemDuration, len(words)*secondsPerWord),
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

func bloomLevel(words []string) string {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	for _, lvl := range bloomLevels {
		for _, v := range lvl.verbs {
			if set[v] {
				return lvl.level
			}
		}
	}
	return "Remember"
}

func difficultyFor(wordCount int) string {
	switch {
	case wordCount <= 12:
		return "Easy"
	case wordCount <= 30:
		return "Medium"
	default:
		return "Hard"
	}
}

// topKeywords 按出现次数降序，次数相同按首次出现顺序
func topKeywords(words []string, n int) []string {
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, w := range words {
		if len(w) < 3 || stopWords[w] {
			continue
		}
		if _, seen := first[w]; !seen {
			first[w] = i
		}
		counts[w]++
	}
	keys := make([]string, 0, len(counts))
	for w := range counts {
		keys = append(keys, w)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return first[keys[i]] < first[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
