package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	pageEssay = "essay"
	// 评分下限为满分的 60%
	essayScoreFloor = 0.6
)

// EssayQuestionSource 考生作文题来源
type EssayQuestionSource interface {
	QuestionsFor(ctx context.Context, candidateID string) ([]model.EssayQuestion, error)
}

// EvaluationStore 已保存评估的持久化
type EvaluationStore interface {
	Create(ctx context.Context, e *model.Evaluation) error
	ListBySession(ctx context.Context, sessionID string) ([]model.Evaluation, error)
}

// EssaySheet 一次评估页面的可见状态
type EssaySheet struct {
	CandidateID string                `json:"candidateId"`
	Questions   []model.EssayQuestion `json:"questions"`
	Evaluated   bool                  `json:"evaluated"`
	Flow        FlowState             `json:"state"`
	Error       string                `json:"error,omitempty"`
}

type EssayPage struct {
	mu          sync.Mutex
	candidateID string
	questions   []model.EssayQuestion
	evaluated   bool
	opened      bool
	flow        *Flow[[]model.EssayQuestion]
}

func newEssayPage() *EssayPage {
	return &EssayPage{flow: NewFlow[[]model.EssayQuestion]()}
}

func (p *EssayPage) sheet() *EssaySheet {
	snap := p.flow.Snapshot()
	return &EssaySheet{
		CandidateID: p.candidateID,
		Questions:   cloneEssayQuestions(p.questions),
		Evaluated:   p.evaluated,
		Flow:        snap.State,
		Error:       snap.Error,
	}
}

type EssayService struct {
	pages  *PageRegistry[EssayPage]
	source EssayQuestionSource
	store  EvaluationStore
	sim    *Simulator
}

func NewEssayService(source EssayQuestionSource, store EvaluationStore, sim *Simulator) *EssayService {
	return &EssayService{
		pages:  NewPageRegistry(newEssayPage),
		source: source,
		store:  store,
		sim:    sim,
	}
}

func (s *EssayService) Pages() Sweeper {
	return s.pages
}

// Open 载入考生作文题，作答为空且未评估
func (s *EssayService) Open(ctx context.Context, sess *session.Context, candidateID string) (*EssaySheet, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, util.NewValidationError("candidateId", "candidateId is required")
	}
	questions, err := s.source.QuestionsFor(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	defer page.mu.Unlock()
	page.candidateID = candidateID
	page.questions = make([]model.EssayQuestion, 0, len(questions))
	for _, q := range questions {
		page.questions = append(page.questions, model.EssayQuestion{ID: q.ID, Prompt: q.Prompt, MaxScore: q.MaxScore})
	}
	page.evaluated = false
	page.opened = true
	page.flow.Reset()
	return page.sheet(), nil
}

func (s *EssayService) Sheet(sess *session.Context) (*EssaySheet, error) {
	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	defer page.mu.Unlock()
	if !page.opened {
		return nil, util.ErrPageNotOpened
	}
	return page.sheet(), nil
}

func (s *EssayService) SetAnswer(sess *session.Context, questionID, answer string) (*EssaySheet, error) {
	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	defer page.mu.Unlock()
	if !page.opened {
		return nil, util.ErrPageNotOpened
	}
	_, idx, ok := lo.FindIndexOf(page.questions, func(q model.EssayQuestion) bool { return q.ID == questionID })
	if !ok {
		return nil, util.ErrItemNotFound
	}
	page.questions[idx].Answer = answer
	return page.sheet(), nil
}

// ClearAll 清空作答、评分和反馈，重置 evaluated；本来为空时不做任何改动
func (s *EssayService) ClearAll(sess *session.Context) (*EssaySheet, error) {
	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	defer page.mu.Unlock()
	if !page.opened {
		return nil, util.ErrPageNotOpened
	}
	dirty := page.evaluated || lo.SomeBy(page.questions, func(q model.EssayQuestion) bool {
		return q.Answer != "" || q.AIScore != nil || q.Feedback != ""
	})
	if !dirty {
		return page.sheet(), nil
	}
	for i := range page.questions {
		page.questions[i].Answer = ""
		page.questions[i].AIScore = nil
		page.questions[i].Feedback = ""
	}
	page.evaluated = false
	return page.sheet(), nil
}

// Evaluate 至少一题有作答才能评估，每题评分落在 [0.6*满分, 满分]
func (s *EssayService) Evaluate(ctx context.Context, sess *session.Context) (*EssaySheet, error) {
	page := s.pages.Get(sess.ID())

	page.mu.Lock()
	if !page.opened {
		page.mu.Unlock()
		return nil, util.ErrPageNotOpened
	}
	answered := lo.SomeBy(page.questions, func(q model.EssayQuestion) bool { return strings.TrimSpace(q.Answer) != "" })
	snapshot := cloneEssayQuestions(page.questions)
	page.mu.Unlock()

	if !answered {
		return nil, util.ErrNothingToEvaluate
	}

	scored, err := runFlow(ctx, page.flow, pageEssay, "evaluate", sess.ID(), func(ctx context.Context) ([]model.EssayQuestion, error) {
		if err := s.sim.Wait(ctx); err != nil {
			return nil, err
		}
		for i := range snapshot {
			q := &snapshot[i]
			score := s.sim.Between(essayScoreFloor*q.MaxScore, q.MaxScore)
			q.AIScore = &score
			q.Feedback = essayFeedback(score, q.MaxScore, q.Answer)
		}
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	page.mu.Lock()
	defer page.mu.Unlock()
	// 评估期间作答被修改时以评估时的内容为准
	page.questions = cloneEssayQuestions(scored)
	page.evaluated = true
	return page.sheet(), nil
}

func essayFeedback(score, maxScore float64, answer string) string {
	ratio := score / maxScore
	words := len(strings.Fields(answer))
	switch {
	case words == 0:
		return "No response was submitted for this question."
	case ratio >= 0.9:
		return fmt.Sprintf("Excellent response (%d words). Ideas are well organised and fully address the prompt.", words)
	case ratio >= 0.75:
		return fmt.Sprintf("Good response (%d words). Consider adding more supporting detail.", words)
	default:
		return fmt.Sprintf("Adequate response (%d words). The argument needs clearer structure and evidence.", words)
	}
}

// Save 首次评估完成前拒绝；保存列表只追加
func (s *EssayService) Save(ctx context.Context, sess *session.Context, evaluator string) (*model.Evaluation, error) {
	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	if !page.opened || !page.evaluated {
		page.mu.Unlock()
		return nil, util.ErrNotEvaluated
	}
	questions := cloneEssayQuestions(page.questions)
	candidateID := page.candidateID
	page.mu.Unlock()

	if strings.TrimSpace(evaluator) == "" {
		evaluator = sess.UserCode(ctx)
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	eval := &model.Evaluation{
		CandidateID:   candidateID,
		Evaluator:     evaluator,
		EvaluatedAt:   time.Now(),
		SessionID:     sess.ID(),
		QuestionsJSON: raw,
		Questions:     questions,
	}
	eval.ID = model.GenerateUUID()
	if err := s.store.Create(ctx, eval); err != nil {
		return nil, fmt.Errorf("save evaluation: %w", err)
	}
	logger.Log.Info("Evaluation saved",
		zap.String("session", sess.ID()), zap.String("candidate", candidateID), zap.String("evaluation", eval.ID))
	return eval, nil
}

func (s *EssayService) Saved(ctx context.Context, sess *session.Context) ([]model.Evaluation, error) {
	evals, err := s.store.ListBySession(ctx, sess.ID())
	if err != nil {
		return nil, err
	}
	for i := range evals {
		if len(evals[i].Questions) == 0 && len(evals[i].QuestionsJSON) > 0 {
			_ = json.Unmarshal(evals[i].QuestionsJSON, &evals[i].Questions)
		}
	}
	return evals, nil
}

func cloneEssayQuestions(in []model.EssayQuestion) []model.EssayQuestion {
	out := make([]model.EssayQuestion, len(in))
	for i, q := range in {
		out[i] = q
		if q.AIScore != nil {
			v := *q.AIScore
			out[i].AIScore = &v
		}
	}
	return out
}

// staticEssaySource 内置题目，所有考生相同
type staticEssaySource struct{}

func NewStaticEssaySource() EssayQuestionSource {
	return staticEssaySource{}
}

func (staticEssaySource) QuestionsFor(_ context.Context, candidateID string) ([]model.EssayQuestion, error) {
	return []model.EssayQuestion{
		{ID: candidateID + "-q1", Prompt: "Describe a time you solved a difficult problem. What steps did you take?", MaxScore: 10},
		{ID: candidateID + "-q2", Prompt: "Explain the causes and effects of water pollution in your community.", MaxScore: 20},
		{ID: candidateID + "-q3", Prompt: "Should homework be mandatory in middle school? Support your opinion.", MaxScore: 15},
	}, nil
}
