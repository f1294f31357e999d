package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"sync"

	"gorm.io/gorm"
)

func newTestSession(id string) *session.Context {
	return session.NewContext(id, session.NewMemoryStore())
}

func newTestSimulator() *Simulator {
	return NewSimulator(0, rand.New(rand.NewSource(42)))
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, filename string, r io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[filename] = data
	return "/uploads/" + filename, nil
}

func (f *fakeStorage) Delete(_ context.Context, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[filename]; !ok {
		return errBoom
	}
	delete(f.objects, filename)
	return nil
}

func (f *fakeStorage) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakeEvaluationStore struct {
	mu    sync.Mutex
	evals []model.Evaluation
}

func (f *fakeEvaluationStore) Create(_ context.Context, e *model.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals = append(f.evals, *e)
	return nil
}

func (f *fakeEvaluationStore) ListBySession(_ context.Context, sid string) ([]model.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Evaluation
	for _, e := range f.evals {
		if e.SessionID == sid {
			e.Questions = nil
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeKnowledgeBaseStore struct {
	mu     sync.Mutex
	nextID uint
	kbs    map[uint]*model.KnowledgeBase
	docs   []model.KnowledgeDocument
}

func newFakeKnowledgeBaseStore() *fakeKnowledgeBaseStore {
	return &fakeKnowledgeBaseStore{kbs: make(map[uint]*model.KnowledgeBase)}
}

func (f *fakeKnowledgeBaseStore) Create(_ context.Context, kb *model.KnowledgeBase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	kb.ID = f.nextID
	copied := *kb
	f.kbs[kb.ID] = &copied
	return nil
}

func (f *fakeKnowledgeBaseStore) ListByOwner(_ context.Context, owner string) ([]model.KnowledgeBase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.KnowledgeBase
	for _, kb := range f.kbs {
		if kb.CreatedBy == owner {
			out = append(out, *kb)
		}
	}
	return out, nil
}

func (f *fakeKnowledgeBaseStore) FindByID(_ context.Context, id uint) (*model.KnowledgeBase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kb, ok := f.kbs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *kb
	copied.Documents = nil
	for _, d := range f.docs {
		if d.KnowledgeBaseID == id {
			copied.Documents = append(copied.Documents, d)
		}
	}
	return &copied, nil
}

func (f *fakeKnowledgeBaseStore) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.kbs, id)
	kept := f.docs[:0]
	for _, d := range f.docs {
		if d.KnowledgeBaseID != id {
			kept = append(kept, d)
		}
	}
	f.docs = kept
	return nil
}

func (f *fakeKnowledgeBaseStore) AddDocument(_ context.Context, doc *model.KnowledgeDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc.ID = uint(len(f.docs) + 1)
	f.docs = append(f.docs, *doc)
	return nil
}

func (f *fakeKnowledgeBaseStore) SearchDocuments(_ context.Context, kbID uint, terms []string, limit int) ([]model.KnowledgeDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.KnowledgeDocument
	for _, d := range f.docs {
		if d.KnowledgeBaseID != kbID {
			continue
		}
		hit := len(terms) == 0
		for _, t := range terms {
			if strings.Contains(strings.ToLower(d.Content), strings.ToLower(t)) {
				hit = true
				break
			}
		}
		if hit {
			out = append(out, d)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeHistory struct {
	mu   sync.Mutex
	msgs []model.ChatMessage
}

func (f *fakeHistory) SaveMessage(_ context.Context, msg *model.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, *msg)
	return nil
}

func (f *fakeHistory) History(_ context.Context, kbID uint, sid string, _ int) ([]model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ChatMessage
	for _, m := range f.msgs {
		if m.KnowledgeBaseID == kbID && m.SessionID == sid {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeHistory) ClearHistory(_ context.Context, kbID uint, sid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.msgs[:0]
	for _, m := range f.msgs {
		if m.KnowledgeBaseID != kbID || m.SessionID != sid {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
	return nil
}

type fakeAssistant struct {
	enabled bool
	answer  string
	err     error
	prompts []string
	context []string
}

func (f *fakeAssistant) Enabled() bool { return f.enabled }

func (f *fakeAssistant) Chat(_ context.Context, prompt, background string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.context = append(f.context, background)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

var errBoom = errors.New("boom")

// countingAnalyzer 记录调用次数
type countingAnalyzer struct {
	calls int
	inner SimilarityAnalyzer
}

func (c *countingAnalyzer) Analyze(ctx context.Context, file model.UploadedFile) (model.SimilarityResult, error) {
	c.calls++
	return c.inner.Analyze(ctx, file)
}
