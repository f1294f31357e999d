package service

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	pageDocChat         = "doc_chat"
	chatSearchLimit     = 3
	chatSearchTerms     = 5
	chatSnippetMaxChars = 400
	chatHistoryLimit    = 200

	ReplySourceIntent        = "intent"
	ReplySourceKnowledgeBase = "knowledge_base"
	ReplySourceLLM           = "llm"
	ReplySourceFallback      = "fallback"
)

// ChatHistoryStore 对话历史持久化
type ChatHistoryStore interface {
	SaveMessage(ctx context.Context, msg *model.ChatMessage) error
	History(ctx context.Context, kbID uint, sessionID string, limit int) ([]model.ChatMessage, error)
	ClearHistory(ctx context.Context, kbID uint, sessionID string) error
}

type chatIntent struct {
	name     string
	keywords []string
	reply    string
}

// chatIntents 按顺序匹配
var chatIntents = []chatIntent{
	{
		name:     "greeting",
		keywords: []string{"hello", "hi", "hey", "greetings", "namaste"},
		reply:    "Hello! Ask me anything about the documents in this knowledge base.",
	},
	{
		name:     "thanks",
		keywords: []string{"thanks", "thank", "thx"},
		reply:    "You're welcome! Let me know if you have more questions about the material.",
	},
	{
		name:     "help",
		keywords: []string{"help", "usage", "instructions"},
		reply:    "Upload PDF, text or markdown documents to this knowledge base, then ask questions about them. I can also summarise a chapter or suggest quiz questions.",
	},
	{
		name:     "summary",
		keywords: []string{"summary", "summarise", "summarize", "overview"},
		reply:    "To get a chapter summary, open the Chapter Summary tool and paste the chapter text or upload its PDF.",
	},
	{
		name:     "quiz",
		keywords: []string{"quiz", "mcq", "test"},
		reply:    "Use the Quiz Creator to generate questions aligned to your selected learning objectives.",
	},
}

// DetectIntent 按词匹配固定意图，没有命中返回空
func DetectIntent(message string) (name, reply string) {
	words := tokenize(message)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	for _, in := range chatIntents {
		for _, k := range in.keywords {
			if set[k] {
				return in.name, in.reply
			}
		}
	}
	return "", ""
}

type DocChatPage struct {
	flow *Flow[model.ChatReply]
}

func newDocChatPage() *DocChatPage {
	return &DocChatPage{flow: NewFlow[model.ChatReply]()}
}

type DocChatService struct {
	pages     *PageRegistry[DocChatPage]
	kbs       *KnowledgeBaseService
	history   ChatHistoryStore
	assistant Assistant
	sim       *Simulator
}

func NewDocChatService(kbs *KnowledgeBaseService, history ChatHistoryStore, assistant Assistant, sim *Simulator) *DocChatService {
	return &DocChatService{
		pages:     NewPageRegistry(newDocChatPage),
		kbs:       kbs,
		history:   history,
		assistant: assistant,
		sim:       sim,
	}
}

func (s *DocChatService) Pages() Sweeper {
	return s.pages
}

func (s *DocChatService) Chat(ctx context.Context, sess *session.Context, kbID uint, req model.ChatRequest) (*model.ChatReply, error) {
	if err := util.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.kbs.Get(ctx, sess, kbID); err != nil {
		return nil, err
	}

	page := s.pages.Get(sess.ID())
	reply, err := runFlow(ctx, page.flow, pageDocChat, "chat", sess.ID(), func(ctx context.Context) (model.ChatReply, error) {
		return s.answer(ctx, kbID, req.Message)
	})
	if err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		KnowledgeBaseID: kbID,
		SessionID:       sess.ID(),
		Question:        req.Message,
		Answer:          reply.Answer,
		Intent:          reply.Intent,
		Source:          reply.Source,
		CreatedAt:       time.Now(),
	}
	if err := s.history.SaveMessage(ctx, msg); err != nil {
		logger.Log.Warn("Failed to persist chat message", zap.Uint("knowledgeBase", kbID), zap.Error(err))
	}
	return &reply, nil
}

// answer 意图优先，其次知识库检索，再交给外部 AI，最后回退到固定回复
func (s *DocChatService) answer(ctx context.Context, kbID uint, message string) (model.ChatReply, error) {
	if name, reply := DetectIntent(message); name != "" {
		if err := s.sim.Wait(ctx); err != nil {
			return model.ChatReply{}, err
		}
		return model.ChatReply{Answer: reply, Intent: name, Source: ReplySourceIntent}, nil
	}

	terms := topKeywords(tokenize(message), chatSearchTerms)
	docs, err := s.kbs.store.SearchDocuments(ctx, kbID, terms, chatSearchLimit)
	if err != nil {
		return model.ChatReply{}, err
	}

	var best, bestDoc string
	bestScore := 0
	snippets := make([]string, 0, len(docs))
	for _, d := range docs {
		snip, score := BestSnippet(d.Content, terms)
		if snip == "" {
			continue
		}
		snippets = append(snippets, fmt.Sprintf("[%s] %s", d.FileName, snip))
		if score > bestScore {
			best, bestDoc, bestScore = snip, d.FileName, score
		}
	}

	if s.assistant != nil && s.assistant.Enabled() {
		answer, err := s.assistant.Chat(ctx, message, strings.Join(snippets, "\n\n"))
		if err == nil && strings.TrimSpace(answer) != "" {
			return model.ChatReply{Answer: answer, Source: ReplySourceLLM}, nil
		}
		logger.Log.Warn("AI chat failed, using local answer", zap.Error(err))
	}

	if err := s.sim.Wait(ctx); err != nil {
		return model.ChatReply{}, err
	}
	if best != "" {
		return model.ChatReply{
			Answer: fmt.Sprintf("From %s: %s", bestDoc, best),
			Source: ReplySourceKnowledgeBase,
		}, nil
	}
	return model.ChatReply{
		Answer: "I couldn't find anything about that in this knowledge base. Try rephrasing your question or upload a relevant document.",
		Source: ReplySourceFallback,
	}, nil
}

// BestSnippet 命中关键词最多的句子及其后一句
func BestSnippet(content string, terms []string) (string, int) {
	if len(terms) == 0 {
		return "", 0
	}
	sentences := splitSentences(content)
	bestIdx, bestScore := -1, 0
	for i, sent := range sentences {
		lower := strings.ToLower(sent)
		score := 0
		for _, t := range terms {
			score += strings.Count(lower, strings.ToLower(t))
		}
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return "", 0
	}
	snippet := sentences[bestIdx]
	if bestIdx+1 < len(sentences) {
		snippet += " " + sentences[bestIdx+1]
	}
	if r := []rune(snippet); len(r) > chatSnippetMaxChars {
		snippet = string(r[:chatSnippetMaxChars]) + "..."
	}
	return snippet, bestScore
}

func (s *DocChatService) History(ctx context.Context, sess *session.Context, kbID uint) ([]model.ChatMessage, error) {
	if _, err := s.kbs.Get(ctx, sess, kbID); err != nil {
		return nil, err
	}
	return s.history.History(ctx, kbID, sess.ID(), chatHistoryLimit)
}

func (s *DocChatService) ClearHistory(ctx context.Context, sess *session.Context, kbID uint) error {
	if _, err := s.kbs.Get(ctx, sess, kbID); err != nil {
		return err
	}
	return s.history.ClearHistory(ctx, kbID, sess.ID())
}
