package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/extract"
	"github.com/olivia-0916/storybot/internal/ports"
	"github.com/olivia-0916/storybot/internal/worker"
)

// SceneQueue is the slice of the render pool the service needs.
type SceneQueue interface {
	Submit(job worker.Job) error
}

const (
	replyGuidance      = "我懂了！想再補充一點嗎？\n主角是誰？在哪裡？想發生什麼？"
	replyNewStory      = "好的，我們從頭開始一個新故事吧！主角是誰呢？"
	ReplySceneQueued   = "收到！畫好後馬上傳給你～"
	replySceneBusy     = "現在要畫的圖有點多，稍等一下再請我畫一次～"
	replyNeedMoreStory = "我需要再多一點故事內容，才能開始畫喔～"
	replySummaryFailed = "總結的時候出了點狀況，等等再試一次可以嗎？"
)

// StoryService owns the per-user sessions and coordinates the whole update
// cycle: history append, command routing, attribute extraction, and
// persistence. Collaborator failures degrade durability, never availability.
type StoryService struct {
	engine     *extract.Engine
	snapshots  ports.SnapshotRepository
	chatLog    ports.ChatLogger
	summarizer ports.Summarizer
	scenes     SceneQueue
	clock      ports.Clock
	sessions   *sessionCache
}

func NewStoryService(
	engine *extract.Engine,
	snapshots ports.SnapshotRepository,
	chatLog ports.ChatLogger,
	summarizer ports.Summarizer,
	scenes SceneQueue,
	clock ports.Clock,
) *StoryService {
	if engine == nil {
		engine = extract.NewEngine(nil)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &StoryService{
		engine:     engine,
		snapshots:  snapshots,
		chatLog:    chatLog,
		summarizer: summarizer,
		scenes:     scenes,
		clock:      clock,
		sessions:   newSessionCache(clock),
	}
}

// Ensure returns the in-memory session for key, creating it and overlaying
// the most recent persisted snapshot on first sight.
func (s *StoryService) Ensure(ctx context.Context, key domain.SessionKey) *domain.Session {
	entry, created := s.sessions.acquire(key)
	defer entry.release()
	if created {
		s.load(ctx, key, entry.session)
	}
	return entry.session
}

// HandleMessage runs one full update cycle for an inbound utterance and
// returns the reply text. Scene renders complete asynchronously through the
// notifier; only their acknowledgement is returned here.
func (s *StoryService) HandleMessage(ctx context.Context, key domain.SessionKey, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return replyGuidance
	}

	entry, created := s.sessions.acquire(key)
	defer entry.release()
	session := entry.session
	if created {
		s.load(ctx, key, session)
	}

	session.Append(domain.RoleUser, text, s.clock.Now())
	s.logChat(ctx, key, domain.RoleUser, text)

	switch {
	case resetPattern.MatchString(text):
		session.ResetStory()
		s.save(ctx, key, session)
		s.logChat(ctx, key, domain.RoleAssistant, replyNewStory)
		return replyNewStory

	case summaryPattern.MatchString(text):
		reply := s.summarize(ctx, key, session)
		s.logChat(ctx, key, domain.RoleAssistant, reply)
		return reply

	default:
		if index, extra, ok := parseDrawCommand(text); ok {
			return s.requestScene(ctx, key, session, index, extra)
		}

		if s.engine.Observe(session, text) {
			s.save(ctx, key, session)
		}
		s.logChat(ctx, key, domain.RoleAssistant, replyGuidance)
		return replyGuidance
	}
}

// ResetStory issues a fresh story identifier and clears everything scoped to
// the old one.
func (s *StoryService) ResetStory(ctx context.Context, key domain.SessionKey) {
	entry, created := s.sessions.acquire(key)
	defer entry.release()
	if created {
		s.load(ctx, key, entry.session)
	}
	entry.session.ResetStory()
	s.save(ctx, key, entry.session)
}

// Hint renders the current character cards into the consistency hint string.
func (s *StoryService) Hint(ctx context.Context, key domain.SessionKey) string {
	entry, created := s.sessions.acquire(key)
	defer entry.release()
	if created {
		s.load(ctx, key, entry.session)
	}
	return extract.RenderCards(entry.session.Characters)
}

func (s *StoryService) summarize(ctx context.Context, key domain.SessionKey, session *domain.Session) string {
	paragraphs, err := s.freshParagraphs(ctx, key, session)
	if err != nil {
		log.Printf("summarize for %s: %v", key, err)
		return replySummaryFailed
	}
	return "✨ 故事總結完成：\n" + numberedList(paragraphs)
}

// freshParagraphs re-summarizes the recent user text and persists the result.
func (s *StoryService) freshParagraphs(ctx context.Context, key domain.SessionKey, session *domain.Session) ([]string, error) {
	texts := session.UserTexts()
	if len(texts) == 0 {
		return nil, domain.ErrNoParagraphs
	}
	paragraphs, err := s.summarizer.Summarize(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("summarize story: %w", err)
	}
	if len(paragraphs) == 0 {
		return nil, domain.ErrNoParagraphs
	}
	session.SetParagraphs(paragraphs)
	s.save(ctx, key, session)
	return session.Paragraphs, nil
}

func (s *StoryService) requestScene(ctx context.Context, key domain.SessionKey, session *domain.Session, index int, extra string) string {
	paragraphs := s.paragraphsFor(ctx, key, session)
	if len(paragraphs) == 0 || index >= len(paragraphs) {
		return replyNeedMoreStory
	}

	prompt := ScenePrompt(paragraphs[index], extra, extract.RenderCards(session.Characters))
	job := worker.Job{
		To:     key,
		Prompt: prompt,
		Scene:  index + 1,
		Name:   sceneObjectName(key, index),
	}
	if err := s.scenes.Submit(job); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			return replySceneBusy
		}
		log.Printf("submit scene render for %s: %v", key, err)
		return replySceneBusy
	}
	return ReplySceneQueued
}

// paragraphsFor prefers the persisted paragraph set, then the in-memory one,
// and finally summarizes on the fly from the recent user text.
func (s *StoryService) paragraphsFor(ctx context.Context, key domain.SessionKey, session *domain.Session) []string {
	if s.snapshots != nil {
		snap, err := s.snapshots.Load(ctx, key)
		if err == nil && len(snap.Paragraphs) > 0 && snap.StoryID == session.StoryID {
			session.SetParagraphs(snap.Paragraphs)
			return session.Paragraphs
		}
	}
	if len(session.Paragraphs) > 0 {
		return session.Paragraphs
	}
	paragraphs, err := s.freshParagraphs(ctx, key, session)
	if err != nil {
		if !errors.Is(err, domain.ErrNoParagraphs) {
			log.Printf("fallback summarize for %s: %v", key, err)
		}
		return nil
	}
	return paragraphs
}

func (s *StoryService) load(ctx context.Context, key domain.SessionKey, session *domain.Session) {
	if s.snapshots == nil {
		return
	}
	snap, err := s.snapshots.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			log.Printf("load snapshot for %s: %v", key, err)
		}
		return
	}
	session.Overlay(snap)
}

func (s *StoryService) save(ctx context.Context, key domain.SessionKey, session *domain.Session) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, key, session.Snapshot()); err != nil {
		log.Printf("save snapshot for %s: %v", key, err)
	}
}

func (s *StoryService) logChat(ctx context.Context, key domain.SessionKey, role domain.Role, text string) {
	if s.chatLog == nil {
		return
	}
	if err := s.chatLog.Append(ctx, key, role, text, s.clock.Now()); err != nil {
		log.Printf("append chat log for %s: %v", key, err)
	}
}

func numberedList(paragraphs []string) string {
	var b strings.Builder
	for i, p := range paragraphs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

func sceneObjectName(key domain.SessionKey, index int) string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("line_images/%s_s%d.png", key, index+1)
	}
	return fmt.Sprintf("line_images/%s-%s_s%d.png", key, hex.EncodeToString(b), index+1)
}
