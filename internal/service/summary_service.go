package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	pageSummary        = "summary"
	summarySentences   = 3
	summaryKeyPoints   = 5
	summaryPromptLimit = 12000

	SummarySourceLLM        = "llm"
	SummarySourceSimulation = "simulation"
)

type SummaryPage struct {
	flow *Flow[model.ChapterSummary]
}

func newSummaryPage() *SummaryPage {
	return &SummaryPage{flow: NewFlow[model.ChapterSummary]()}
}

type SummaryService struct {
	pages     *PageRegistry[SummaryPage]
	assistant Assistant
	sim       *Simulator
}

func NewSummaryService(assistant Assistant, sim *Simulator) *SummaryService {
	return &SummaryService{pages: NewPageRegistry(newSummaryPage), assistant: assistant, sim: sim}
}

func (s *SummaryService) Pages() Sweeper {
	return s.pages
}

// SummarizeUpload 从上传的 PDF / 文本中取章节内容
func (s *SummaryService) SummarizeUpload(ctx context.Context, sess *session.Context, chapterName, filename string, r io.Reader) (*model.ChapterSummary, error) {
	if !util.HasExtension(filename, util.AllowedDocumentExtensions) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFile, filename)
	}
	data, err := io.ReadAll(io.LimitReader(r, util.MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > util.MaxUploadSize {
		return nil, util.NewValidationError("file", "file exceeds the 20MB upload limit")
	}
	text, _, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}
	return s.Summarize(ctx, sess, model.SummaryRequest{ChapterName: chapterName, Text: text})
}

func (s *SummaryService) Summarize(ctx context.Context, sess *session.Context, req model.SummaryRequest) (*model.ChapterSummary, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, util.NewValidationError("text", "text or a chapter file is required")
	}

	page := s.pages.Get(sess.ID())
	summary, err := runFlow(ctx, page.flow, pageSummary, "summarize", sess.ID(), func(ctx context.Context) (model.ChapterSummary, error) {
		if s.assistant != nil && s.assistant.Enabled() {
			out, err := s.summarizeWithAI(ctx, req)
			if err == nil {
				return out, nil
			}
			logger.Log.Warn("AI summary failed, using extractive summary", zap.Error(err))
		}
		if err := s.sim.Wait(ctx); err != nil {
			return model.ChapterSummary{}, err
		}
		return ExtractiveSummary(req), nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *SummaryService) summarizeWithAI(ctx context.Context, req model.SummaryRequest) (model.ChapterSummary, error) {
	text := req.Text
	if r := []rune(text); len(r) > summaryPromptLimit {
		text = string(r[:summaryPromptLimit])
	}
	prompt := fmt.Sprintf("Summarise the chapter %q in one paragraph, then list up to %d key points, one per line starting with \"- \".",
		req.ChapterName, summaryKeyPoints)
	answer, err := s.assistant.Chat(ctx, prompt, text)
	if err != nil {
		return model.ChapterSummary{}, err
	}

	var paragraph []string
	var points []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			points = append(points, strings.TrimSpace(line[2:]))
		default:
			paragraph = append(paragraph, line)
		}
	}
	return model.ChapterSummary{
		ChapterName: req.ChapterName,
		Summary:     strings.Join(paragraph, " "),
		KeyPoints:   nonNilStrings(points),
		Source:      SummarySourceLLM,
	}, nil
}

// ExtractiveSummary 取开头几句作为摘要，关键词所在句作为要点
func ExtractiveSummary(req model.SummaryRequest) model.ChapterSummary {
	sentences := splitSentences(req.Text)
	lead := sentences
	if len(lead) > summarySentences {
		lead = lead[:summarySentences]
	}

	points := make([]string, 0, summaryKeyPoints)
	used := make(map[int]bool)
	for _, kw := range topKeywords(tokenize(req.Text), summaryKeyPoints) {
		for i, sent := range sentences {
			if used[i] || i < len(lead) {
				continue
			}
			if strings.Contains(strings.ToLower(sent), kw) {
				points = append(points, sent)
				used[i] = true
				break
			}
		}
	}
	if len(points) == 0 {
		for _, kw := range topKeywords(tokenize(req.Text), summaryKeyPoints) {
			points = append(points, "Key concept: "+kw)
		}
	}

	return model.ChapterSummary{
		ChapterName: req.ChapterName,
		Summary:     strings.Join(lead, " "),
		KeyPoints:   points,
		Source:      SummarySourceSimulation,
	}
}

func (s *SummaryService) Current(sess *session.Context) FlowSnapshot[model.ChapterSummary] {
	return s.pages.Get(sess.ID()).flow.Snapshot()
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
