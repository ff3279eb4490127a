package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/internal/ai"
	"github.com/weaverapp/backend/repository"
	plannerUC "github.com/weaverapp/backend/usecase/planner"
)

const sessionTitleLimit = 50

// UseCase drives one conversational turn end to end: session resolution,
// generation, classification, persistence, and plan/task derivation.
type UseCase struct {
	client        *ai.Client
	conversations *ai.ConversationCache
	chats         repository.ChatSessionRepository
	tasks         repository.TaskRepository
	stats         repository.StatsRepository
	planner       *plannerUC.UseCase
	logger        *zap.Logger
	now           func() time.Time
}

func New(
	client *ai.Client,
	chats repository.ChatSessionRepository,
	tasks repository.TaskRepository,
	stats repository.StatsRepository,
	planner *plannerUC.UseCase,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		client:        client,
		conversations: ai.NewConversationCache(),
		chats:         chats,
		tasks:         tasks,
		stats:         stats,
		planner:       planner,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// TurnInput is one user message, optionally addressed to an existing session.
type TurnInput struct {
	UserID    string
	Message   string
	SessionID string
}

// TurnResult reports the assistant's classified response. Plan is set only
// for plan turns; Text always carries the raw assistant text.
type TurnResult struct {
	SessionID string
	Kind      ai.Kind
	Plan      *ai.ExtractedPlan
	Text      string
	Timestamp time.Time
}

// HandleTurn runs one turn. Nothing is persisted until generation and
// classification succeed, so a failed turn leaves the session untouched.
// Turns addressed to the same session are serialized through the
// conversation cache; turns on different sessions run in parallel.
func (uc *UseCase) HandleTurn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	if in.UserID == "" || in.Message == "" {
		return nil, domain.ErrInvalidPayload
	}

	sessionID := in.SessionID
	created := sessionID == ""
	if created {
		sessionID = uuid.NewString()
	}

	conv, release := uc.conversations.Acquire(sessionID, func() *ai.Conversation {
		return uc.client.StartConversation(ai.PlannerSystemPrompt)
	})
	defer release()

	// Load under the session lock so concurrent turns never work from a
	// stale copy of the message list.
	var session *domain.ChatSession
	if created {
		session = &domain.ChatSession{
			ID:       sessionID,
			UserID:   in.UserID,
			Title:    truncateTitle(in.Message),
			Category: domain.ChatKindChat,
		}
	} else {
		found, err := uc.chats.Find(ctx, sessionID, in.UserID)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil, domain.ErrChatSessionNotFound
			}
			return nil, domain.WrapError(domain.ErrCodeUnavailable, "chat session not loaded", err)
		}
		session = found
	}

	log := uc.logger.With(
		zap.String("session_id", sessionID),
		zap.String("user_id", in.UserID),
	)

	text, err := conv.Send(ctx, in.Message)
	if err != nil {
		log.Error("assistant generation failed", zap.Error(err))
		return nil, err
	}

	extraction := ai.Extract(text)
	log.Info("assistant turn classified", zap.String("kind", string(extraction.Kind)))

	content, err := assistantContent(extraction)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	session.Append(domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   in.Message,
		Timestamp: now,
	})
	session.Append(domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   content,
		Type:      string(extraction.Kind),
		Timestamp: now,
	})
	session.Category = string(extraction.Kind)
	if extraction.Kind == ai.KindPlan {
		session.Title = extraction.Plan.Title
	}

	if created {
		err = uc.chats.Create(ctx, session)
	} else {
		err = uc.chats.Save(ctx, session)
	}
	if err != nil {
		log.Error("chat session not persisted", zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "chat session not persisted", err)
	}
	if created {
		uc.bumpCounter(ctx, in.UserID, domain.StatTotalSessions)
	}

	switch extraction.Kind {
	case ai.KindPlan:
		if _, _, err := uc.planner.DeriveFromExtraction(ctx, in.UserID, extraction.Plan); err != nil {
			return nil, err
		}
		uc.bumpCounter(ctx, in.UserID, domain.StatPlansCreated)

	case ai.KindTasks:
		if err := uc.createListedTasks(ctx, in.UserID, extraction.Tasks, now); err != nil {
			return nil, domain.WrapError(domain.ErrCodeUnavailable, "assistant tasks not persisted", err)
		}
		uc.bumpCounter(ctx, in.UserID, domain.StatTasksCreated)
	}

	return &TurnResult{
		SessionID: session.ID,
		Kind:      extraction.Kind,
		Plan:      extraction.Plan,
		Text:      text,
		Timestamp: now,
	}, nil
}

// History lists the user's chat sessions, newest activity first.
func (uc *UseCase) History(ctx context.Context, userID, category string) ([]domain.ChatSession, error) {
	return uc.chats.List(ctx, repository.ChatSessionFilter{
		UserID:   userID,
		Category: category,
		Limit:    50,
	})
}

// GetSession fetches a single session, enforcing ownership.
func (uc *UseCase) GetSession(ctx context.Context, id, userID string) (*domain.ChatSession, error) {
	return uc.chats.Find(ctx, id, userID)
}

func (uc *UseCase) createListedTasks(ctx context.Context, userID string, list *ai.ExtractedTaskList, now time.Time) error {
	due := now
	for _, entry := range list.Tasks {
		title := entry.Title
		if title == "" {
			title = "AI Task"
		}
		task := domain.Task{
			UserID:      userID,
			Title:       title,
			Description: entry.Description,
			Priority:    domain.PriorityMedium,
			DueDate:     &due,
			AIGenerated: true,
		}
		if _, err := uc.tasks.Create(ctx, &task); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UseCase) bumpCounter(ctx context.Context, userID, counter string) {
	if err := uc.stats.Increment(ctx, userID, counter); err != nil {
		uc.logger.Warn("failed to bump counter",
			zap.String("counter", counter),
			zap.Error(err))
	}
}

func assistantContent(extraction ai.Extraction) (string, error) {
	switch extraction.Kind {
	case ai.KindPlan:
		payload, err := json.Marshal(extraction.Plan)
		if err != nil {
			return "", err
		}
		return string(payload), nil
	case ai.KindTasks:
		payload, err := json.Marshal(extraction.Tasks)
		if err != nil {
			return "", err
		}
		return string(payload), nil
	default:
		return extraction.Text, nil
	}
}

func truncateTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= sessionTitleLimit {
		return message
	}
	return string(runes[:sessionTitleLimit]) + "..."
}
