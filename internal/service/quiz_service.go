package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	pageQuiz            = "quiz"
	questionsPerELO     = 3
	quizOptionsPerQuest = 4
)

type QuizPage struct {
	flow *Flow[model.Quiz]
}

func newQuizPage() *QuizPage {
	return &QuizPage{flow: NewFlow[model.Quiz]()}
}

// QuizService 测验生成页面
type QuizService struct {
	pages *PageRegistry[QuizPage]
	sim   *Simulator
}

func NewQuizService(sim *Simulator) *QuizService {
	return &QuizService{pages: NewPageRegistry(newQuizPage), sim: sim}
}

func (s *QuizService) Pages() Sweeper {
	return s.pages
}

// QuestionTotal "per-elo" 时每个 ELO 三题，否则为字面数量
func QuestionTotal(req model.QuizRequest) int {
	if req.QuestionCount == model.QuestionCountPerELO {
		return len(req.ELOs) * questionsPerELO
	}
	if n := util.ParseIntDefault(req.QuestionCount, 0); n > 0 {
		return n
	}
	return 0
}

func (s *QuizService) Generate(ctx context.Context, sess *session.Context, req model.QuizRequest) (*model.Quiz, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	page := s.pages.Get(sess.ID())

	quiz, err := runFlow(ctx, page.flow, pageQuiz, "generate", sess.ID(), func(ctx context.Context) (model.Quiz, error) {
		if err := s.sim.Wait(ctx); err != nil {
			return model.Quiz{}, err
		}
		return s.compose(req), nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// compose 题目按所选 ELO 轮流分配
func (s *QuizService) compose(req model.QuizRequest) model.Quiz {
	total := QuestionTotal(req)
	questions := make([]model.QuizQuestion, 0, total)
	for i := 0; i < total; i++ {
		elo := req.ELOs[i%len(req.ELOs)]
		n := i + 1
		questions = append(questions, model.QuizQuestion{
			ID:  uuid.NewString(),
			ELO: elo,
			Stem: fmt.Sprintf("Q%d. In %s (%s, grade %s), which statement best demonstrates: %s?",
				n, req.Chapter, req.Subject, req.Grade, elo),
			Options: []string{
				fmt.Sprintf("A correct application of %s", elo),
				fmt.Sprintf("A common misconception about %s", elo),
				fmt.Sprintf("A partially correct statement about %s", elo),
				fmt.Sprintf("An unrelated fact from %s", req.Chapter),
			},
			CorrectIndex: s.sim.Intn(quizOptionsPerQuest),
			Explanation:  fmt.Sprintf("This question checks understanding of %s within %s.", elo, req.Chapter),
		})
	}
	// 正确选项随机放置
	for i := range questions {
		q := &questions[i]
		q.Options[0], q.Options[q.CorrectIndex] = q.Options[q.CorrectIndex], q.Options[0]
	}
	return model.Quiz{Request: req, Questions: questions}
}

func (s *QuizService) Current(sess *session.Context) FlowSnapshot[model.Quiz] {
	return s.pages.Get(sess.ID()).flow.Snapshot()
}

// Grouped 按所选 ELO 的顺序分组
func (s *QuizService) Grouped(sess *session.Context) ([]model.ELOGroup, error) {
	quiz, ok := s.pages.Get(sess.ID()).flow.Result()
	if !ok {
		return nil, util.ErrPageNotOpened
	}
	byELO := lo.GroupBy(quiz.Questions, func(q model.QuizQuestion) string { return q.ELO })
	groups := make([]model.ELOGroup, 0, len(quiz.Request.ELOs))
	for _, elo := range lo.Uniq(quiz.Request.ELOs) {
		groups = append(groups, model.ELOGroup{ELO: elo, Questions: nonNilQuestions(byELO[elo])})
	}
	return groups, nil
}

func (s *QuizService) RemoveQuestion(sess *session.Context, id string) error {
	found, err := s.pages.Get(sess.ID()).flow.Update(func(q *model.Quiz) error {
		_, idx, ok := lo.FindIndexOf(q.Questions, func(item model.QuizQuestion) bool { return item.ID == id })
		if !ok {
			return util.ErrItemNotFound
		}
		q.Questions = append(q.Questions[:idx:idx], q.Questions[idx+1:]...)
		return nil
	})
	if !found {
		return util.ErrPageNotOpened
	}
	return err
}

func (s *QuizService) Reset(sess *session.Context) {
	s.pages.Get(sess.ID()).flow.Reset()
}

func nonNilQuestions(qs []model.QuizQuestion) []model.QuizQuestion {
	if qs == nil {
		return []model.QuizQuestion{}
	}
	return qs
}
