package gateway

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/util"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Simulation 无真实上游时使用的内存后端，每次调用前等待 delay
type Simulation struct {
	delay atomic.Int64

	mu    sync.Mutex
	items map[string]*simItem
	order []string
	apps  map[string]bool
}

type simItem struct {
	ID          string   `json:"questionid"`
	RequestID   string   `json:"questionrequestid"`
	BookID      int      `json:"bookid"`
	ChapterCode string   `json:"chaptercode"`
	LOCode      string   `json:"locode,omitempty"`
	TypeID      int      `json:"questiontypeid"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	UserCode    string   `json:"usercode"`
	CreatedAt   string   `json:"createdAt"`
}

func NewSimulation(delay time.Duration) *Simulation {
	s := &Simulation{
		items: make(map[string]*simItem),
		apps:  map[string]bool{"Adm488": true},
	}
	s.SetDelay(delay)
	return s
}

// SetDelay 配置热更新时调整
func (s *Simulation) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.delay.Store(int64(d))
}

func (s *Simulation) Delay() time.Duration {
	return time.Duration(s.delay.Load())
}

func (s *Simulation) wait(ctx context.Context) error {
	return util.Sleep(ctx, s.Delay())
}

var simChapters = map[string][]model.Chapter{
	"BK001": {
		{Code: "CH101", Name: "Numbers and Operations"},
		{Code: "CH102", Name: "Linear Equations"},
		{Code: "CH103", Name: "Geometry Basics"},
	},
	"BK002": {
		{Code: "CH201", Name: "Cells and Organisms"},
		{Code: "CH202", Name: "Ecosystems"},
	},
	"BK003": {
		{Code: "CH301", Name: "Reading Comprehension"},
		{Code: "CH302", Name: "Narrative Writing"},
	},
}

var simObjectives = map[string][]model.LearningObjective{
	"CH101": {
		{Code: "LO1011", Name: "Compare and order rational numbers"},
		{Code: "LO1012", Name: "Apply order of operations"},
	},
	"CH102": {
		{Code: "LO1021", Name: "Solve one-variable linear equations"},
		{Code: "LO1022", Name: "Model word problems with equations"},
		{Code: "LO1023", Name: "Interpret the slope of a line"},
	},
	"CH103": {
		{Code: "LO1031", Name: "Classify angles and triangles"},
	},
	"CH201": {
		{Code: "LO2011", Name: "Describe the structure of a cell"},
		{Code: "LO2012", Name: "Distinguish plant and animal cells"},
	},
	"CH202": {
		{Code: "LO2021", Name: "Explain food chains and webs"},
	},
	"CH301": {
		{Code: "LO3011", Name: "Identify the main idea of a passage"},
		{Code: "LO3012", Name: "Draw inferences from text"},
	},
	"CH302": {
		{Code: "LO3021", Name: "Structure a narrative with a clear arc"},
	},
}

var simBooks = []model.DropdownOption{
	{Code: "BK001", Name: "Mathematics Grade 8"},
	{Code: "BK002", Name: "Life Science Grade 7"},
	{Code: "BK003", Name: "English Language Arts Grade 6"},
}

var simApps = []model.AppDetail{
	{ID: 1, AppCode: "Adm488", Name: "Item Generator", Description: "Generate assessment items from book content", URL: "/item-generation"},
	{ID: 2, AppCode: "Adm489", Name: "Quiz Creator", Description: "Build quizzes aligned to learning objectives", URL: "/quiz-creator"},
	{ID: 3, AppCode: "Adm490", Name: "Essay Evaluation", Description: "AI assisted scoring for essay answers", URL: "/essay-evaluation"},
	{ID: 4, AppCode: "Adm491", Name: "Item Similarity", Description: "Detect similar and enemy items in a bank", URL: "/item-similarity"},
	{ID: 5, AppCode: "Adm492", Name: "Item Metadata", Description: "Tag items with taxonomy and difficulty", URL: "/item-metadata"},
	{ID: 6, AppCode: "Adm493", Name: "Doc Chat", Description: "Chat with knowledge base documents", URL: "/doc-chat"},
}

func (s *Simulation) GetLearningObjectives(ctx context.Context, chapterCode string) ([]model.LearningObjective, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return append([]model.LearningObjective{}, simObjectives[chapterCode]...), nil
}

func (s *Simulation) GetChapters(ctx context.Context, bookCode string) ([]model.Chapter, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return append([]model.Chapter{}, simChapters[bookCode]...), nil
}

func (s *Simulation) GetDropdownOptions(ctx context.Context, _ model.DropdownRequest) ([]model.DropdownOption, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return append([]model.DropdownOption{}, simBooks...), nil
}

// Login 接受任意非空凭据
func (s *Simulation) Login(ctx context.Context, creds model.LoginCredentials) (*model.LoginUser, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", util.ErrLoginFailed)
	}
	raw, err := json.Marshal(map[string]string{
		"usercode": "Usr" + shortHash(creds.Email),
		"orgcode":  "Exc195",
		"custcode": "ES",
		"name":     "Demo User",
		"email":    creds.Email,
	})
	if err != nil {
		return nil, err
	}
	var user model.LoginUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Simulation) Register(ctx context.Context, payload model.RegisterPayload) (*model.RegisterResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	data, _ := json.Marshal(map[string]string{"name": payload.Name, "email": payload.Email})
	return &model.RegisterResult{
		Status:  util.StatusSuccess,
		Message: "User registered successfully",
		Data:    data,
	}, nil
}

func (s *Simulation) GetAppDetails(ctx context.Context, q model.AppDetailsQuery) ([]model.AppDetail, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AppDetail, 0, len(simApps))
	for _, app := range simApps {
		if s.apps[app.AppCode] {
			app.Subscription = 1
		}
		switch q.Subscription {
		case "1":
			if !app.Subscribed() {
				continue
			}
		case "0":
			if app.Subscribed() {
				continue
			}
		}
		out = append(out, app)
	}
	return out, nil
}

func (s *Simulation) SubscribeApp(ctx context.Context, req model.SubscribeRequest) (*model.SubscribeResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	_, known := lo.Find(simApps, func(a model.AppDetail) bool { return a.AppCode == req.AppCode })
	if !known {
		return &model.SubscribeResult{Success: false, Message: "Unknown application " + req.AppCode}, nil
	}
	s.mu.Lock()
	s.apps[req.AppCode] = true
	s.mu.Unlock()
	return &model.SubscribeResult{Success: true, Message: "Subscribed to " + req.AppCode}, nil
}

func (s *Simulation) GetUsageTotals(ctx context.Context, _ model.UsageRequest) ([]float64, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	generated := float64(len(s.items))
	s.mu.Unlock()
	// 总题数, 消耗 token, 书目数, 章节数
	return []float64{128 + generated, 45210 + generated*350, float64(len(simBooks)), 7}, nil
}

func (s *Simulation) GetBookWiseUsage(ctx context.Context, _ model.UsageRequest) ([]model.BookUsage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	body := []byte(`[
		["Mathematics Grade 8","BK001",64,"22400","MCQ, Fill in the blanks","3",78.5,"covers/bk001.png","books/bk001.pdf"],
		["Life Science Grade 7","BK002","41","14350","MCQ","2",81,"covers/bk002.png","books/bk002.pdf"],
		["English Language Arts Grade 6","BK003",23,"8460","Essay","2",72.25,"covers/bk003.png","books/bk003.pdf"]
	]`)
	return DecodeBookUsage(body)
}

// GenerateItems 按 count 生成题目并保存在内存题库中
func (s *Simulation) GenerateItems(ctx context.Context, in model.ItemGenInput) (json.RawMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	created := make([]*simItem, 0, in.Count)
	for i := 0; i < in.Count; i++ {
		item := &simItem{
			ID:          uuid.NewString(),
			RequestID:   requestID,
			BookID:      in.BookID,
			ChapterCode: in.ChapterCode,
			LOCode:      in.LOCode,
			TypeID:      in.QuestionTypeID,
			Question:    fmt.Sprintf("%s (variant %d)", in.Question, i+1),
			Options:     []string{"Option A", "Option B", "Option C", "Option D"},
			Answer:      "Option A",
			Explanation: "Generated from " + lo.Ternary(in.Source != "", in.Source, in.URL),
			UserCode:    in.UserCode,
			CreatedAt:   now,
		}
		s.items[item.ID] = item
		s.order = append(s.order, item.ID)
		created = append(created, item)
	}
	s.mu.Unlock()

	return json.Marshal(map[string]interface{}{
		"status":            util.StatusSuccess,
		"questionrequestid": requestID,
		"data":              created,
	})
}

func (s *Simulation) GetFromDB(ctx context.Context, q model.ItemQuery) (json.RawMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	matched := make([]*simItem, 0, len(s.order))
	for _, id := range s.order {
		it := s.items[id]
		if q.BookID != 0 && it.BookID != q.BookID {
			continue
		}
		if q.ChapterCode != "" && it.ChapterCode != q.ChapterCode {
			continue
		}
		if q.LOCode != "" && it.LOCode != q.LOCode {
			continue
		}
		if q.QuestionTypeID != 0 && it.TypeID != q.QuestionTypeID {
			continue
		}
		copied := *it
		matched = append(matched, &copied)
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt > matched[j].CreatedAt })

	total := len(matched)
	pageSize := lo.Ternary(q.PageSize > 0, q.PageSize, 10)
	pageNo := lo.Ternary(q.PageNo > 0, q.PageNo, 1)
	start := lo.Clamp((pageNo-1)*pageSize, 0, total)
	end := lo.Clamp(start+pageSize, 0, total)

	return json.Marshal(map[string]interface{}{
		"status":   util.StatusSuccess,
		"total":    total,
		"pageno":   pageNo,
		"pagesize": pageSize,
		"data":     matched[start:end],
	})
}

func (s *Simulation) UpdateQuestion(ctx context.Context, u model.QuestionUpdate) (json.RawMessage, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[u.QuestionID]
	if !ok {
		return json.Marshal(map[string]string{"status": "E404", "message": "question not found"})
	}
	it.Question = u.Question
	if len(u.Options) > 0 {
		it.Options = append([]string(nil), u.Options...)
	}
	if u.Answer != "" {
		it.Answer = u.Answer
	}
	if u.Explanation != "" {
		it.Explanation = u.Explanation
	}
	return json.Marshal(map[string]interface{}{"status": util.StatusSuccess, "data": it})
}

// DeleteQuestion 已知 id 删除成功
func (s *Simulation) DeleteQuestion(ctx context.Context, req model.DeleteQuestionRequest) bool {
	if err := s.wait(ctx); err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[req.QuestionID]; !ok {
		return false
	}
	delete(s.items, req.QuestionID)
	s.order = lo.Without(s.order, req.QuestionID)
	return true
}

func shortHash(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%03d", h.Sum32()%1000)
}
