package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const pageSimilarity = "similarity"

// ObjectStorage 上传文件落地，由 StorageService 实现
type ObjectStorage interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// SimilarityAnalyzer 相似题分析
type SimilarityAnalyzer interface {
	Analyze(ctx context.Context, file model.UploadedFile) (model.SimilarityResult, error)
}

type SimilarityPage struct {
	mu       sync.Mutex
	selected *model.UploadedFile
	flow     *Flow[model.SimilarityResult]
}

func newSimilarityPage() *SimilarityPage {
	return &SimilarityPage{flow: NewFlow[model.SimilarityResult]()}
}

// SimilarityView 页面快照
type SimilarityView struct {
	File   *model.UploadedFile     `json:"file,omitempty"`
	State  FlowState               `json:"state"`
	Error  string                  `json:"error,omitempty"`
	Result *model.SimilarityResult `json:"result,omitempty"`
}

type SimilarityService struct {
	pages    *PageRegistry[SimilarityPage]
	storage  ObjectStorage
	analyzer SimilarityAnalyzer
}

func NewSimilarityService(storage ObjectStorage, analyzer SimilarityAnalyzer) *SimilarityService {
	return &SimilarityService{
		pages:    NewPageRegistry(newSimilarityPage),
		storage:  storage,
		analyzer: analyzer,
	}
}

func (s *SimilarityService) Pages() Sweeper {
	return s.pages
}

// Upload 仅接受 .xlsx / .xls，保存后设为当前选中文件
func (s *SimilarityService) Upload(ctx context.Context, sess *session.Context, filename string, r io.Reader, size int64) (*model.UploadedFile, error) {
	if !util.HasExtension(filename, util.AllowedWorkbookExtensions) {
		return nil, fmt.Errorf("%w: %s (expected .xlsx or .xls)", util.ErrUnsupportedFile, path.Ext(filename))
	}
	if size > util.MaxUploadSize {
		return nil, util.NewValidationError("file", "file exceeds the 20MB upload limit")
	}

	ext := strings.ToLower(path.Ext(filename))
	key := path.Join("similarity", sess.ID(), uuid.NewString()+ext)
	url, err := s.storage.Upload(ctx, key, r, size, lo.Ternary(ext == ".xls", util.MimeXLS, util.MimeXLSX))
	if err != nil {
		return nil, fmt.Errorf("store workbook: %w", err)
	}

	file := &model.UploadedFile{Name: filename, Key: key, URL: url, Size: size}
	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	page.selected = file
	page.mu.Unlock()
	return file, nil
}

// Process 没有选中文件时直接拒绝，不调用分析器
func (s *SimilarityService) Process(ctx context.Context, sess *session.Context) (*model.SimilarityResult, error) {
	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	selected := page.selected
	page.mu.Unlock()
	if selected == nil {
		return nil, util.ErrNoFileSelected
	}

	result, err := runFlow(ctx, page.flow, pageSimilarity, "process", sess.ID(), func(ctx context.Context) (model.SimilarityResult, error) {
		res, err := s.analyzer.Analyze(ctx, *selected)
		if err != nil {
			return model.SimilarityResult{}, err
		}
		res.EnemyItems = enemySubset(res.SimilarItems)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleStatus similar 与 enemy 互换并重新计算 enemy 子集
func (s *SimilarityService) ToggleStatus(sess *session.Context, id string) (*model.SimilarItem, error) {
	var toggled model.SimilarItem
	found, err := s.pages.Get(sess.ID()).flow.Update(func(r *model.SimilarityResult) error {
		items := append([]model.SimilarItem(nil), r.SimilarItems...)
		_, idx, ok := lo.FindIndexOf(items, func(it model.SimilarItem) bool { return it.ID == id })
		if !ok {
			return util.ErrItemNotFound
		}
		items[idx].Status = items[idx].Status.Toggle()
		r.SimilarItems = items
		r.EnemyItems = enemySubset(items)
		toggled = items[idx]
		return nil
	})
	if !found {
		return nil, util.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &toggled, nil
}

// List 按状态、最低分、关键字过滤并按分数排序
func (s *SimilarityService) List(sess *session.Context, filter model.SimilarityFilter) SimilarityView {
	page := s.pages.Get(sess.ID())
	page.mu.Lock()
	selected := page.selected
	page.mu.Unlock()

	snap := page.flow.Snapshot()
	view := SimilarityView{File: selected, State: snap.State, Error: snap.Error}
	if snap.Result == nil {
		return view
	}
	res := *snap.Result
	res.SimilarItems = FilterSimilarItems(res.SimilarItems, filter)
	res.EnemyItems = enemySubset(snap.Result.SimilarItems)
	view.Result = &res
	return view
}

func FilterSimilarItems(items []model.SimilarItem, filter model.SimilarityFilter) []model.SimilarItem {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := lo.Filter(items, func(it model.SimilarItem, _ int) bool {
		if filter.Status != "" && it.Status != filter.Status {
			return false
		}
		if it.Similarity < filter.MinScore {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Question), search) && !strings.Contains(strings.ToLower(it.ID), search) {
			return false
		}
		return true
	})
	switch filter.Sort {
	case "score_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity < out[j].Similarity })
	case "score_desc", "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	}
	return out
}

func enemySubset(items []model.SimilarItem) []model.SimilarItem {
	return lo.Filter(items, func(it model.SimilarItem, _ int) bool { return it.Status == model.StatusEnemy })
}

// SimulatedSimilarityAnalyzer 返回固定的分析结果，文件内容不参与计算
type SimulatedSimilarityAnalyzer struct {
	sim *Simulator
}

func NewSimulatedSimilarityAnalyzer(sim *Simulator) *SimulatedSimilarityAnalyzer {
	return &SimulatedSimilarityAnalyzer{sim: sim}
}

func (a *SimulatedSimilarityAnalyzer) Analyze(ctx context.Context, _ model.UploadedFile) (model.SimilarityResult, error) {
	if err := a.sim.Wait(ctx); err != nil {
		return model.SimilarityResult{}, err
	}
	questions := []model.QuestionItem{
		{ID: "Q001", Question: "What is the value of x if 2x + 3 = 11?", Type: "MCQ"},
		{ID: "Q002", Question: "Which organelle is known as the powerhouse of the cell?", Type: "MCQ"},
		{ID: "Q003", Question: "Identify the main idea of the passage about migrating birds.", Type: "Short Answer"},
		{ID: "Q004", Question: "Calculate the area of a triangle with base 6 cm and height 4 cm.", Type: "MCQ"},
	}
	similar := []model.SimilarItem{
		{ID: "S101", SourceID: "Q001", Question: "Solve for x: 2x + 3 = 11.", Similarity: 96, Type: "MCQ", Status: model.StatusEnemy},
		{ID: "S102", SourceID: "Q001", Question: "If 3x + 2 = 11, what is x?", Similarity: 78, Type: "MCQ", Status: model.StatusSimilar},
		{ID: "S103", SourceID: "Q002", Question: "The mitochondria is called the ____ of the cell.", Similarity: 91, Type: "Fill in the blanks", Status: model.StatusEnemy},
		{ID: "S104", SourceID: "Q002", Question: "Which organelle produces energy in plant cells?", Similarity: 64, Type: "MCQ", Status: model.StatusSimilar},
		{ID: "S105", SourceID: "Q003", Question: "What is the central idea of the text on bird migration?", Similarity: 88, Type: "Short Answer", Status: model.StatusSimilar},
		{ID: "S106", SourceID: "Q004", Question: "Find the area of a triangle whose base is 6 cm and height is 4 cm.", Similarity: 98, Type: "MCQ", Status: model.StatusEnemy},
		{ID: "S107", SourceID: "Q004", Question: "What is the perimeter of a triangle with sides 3, 4 and 5 cm?", Similarity: 42, Type: "MCQ", Status: model.StatusSimilar},
	}
	return model.SimilarityResult{QuestionItems: questions, SimilarItems: similar}, nil
}
