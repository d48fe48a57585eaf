package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/ai"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/google/uuid"
)

const (
	recommendationsPerRun = 4
	maxRecTitle           = 60
	maxRecDescription     = 200
)

const recommendationSystemPrompt = "You are a study coach for university students. " +
	"Reply with a JSON array only, without commentary or Markdown."

type RecommendationService struct {
	store  storage.Store
	ai     ai.Client
	filter *ContentFilter
}

// NewRecommendationService accepts a nil client when no AI key is
// configured; Generate then fails with ErrAIUnavailable.
func NewRecommendationService(store storage.Store, client ai.Client, filter *ContentFilter) *RecommendationService {
	if filter == nil {
		filter = NewContentFilter()
	}
	return &RecommendationService{store: store, ai: client, filter: filter}
}

func (s *RecommendationService) List(ctx context.Context, userID string) ([]models.StudyRecommendation, error) {
	return s.store.ListRecommendations(ctx, userID)
}

func (s *RecommendationService) Dismiss(ctx context.Context, userID string, id uuid.UUID) (*models.StudyRecommendation, error) {
	if _, err := authorizeOwned(ctx, userID, id, s.store.GetRecommendation, recommendationOwner); err != nil {
		return nil, err
	}
	rec, err := s.store.DismissRecommendation(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}

// StudySummary is the aggregate of a user's activity sent to the model.
type StudySummary struct {
	TotalTasks        int
	CompletedTasks    int
	PendingTasks      int
	InProgressTasks   int
	StudyMinutes      int
	Subjects          []string
	SessionCount      int
	CompletedSessions int
}

func summarize(tasks []models.Task, sessions []models.PomodoroSession) StudySummary {
	sum := StudySummary{TotalTasks: len(tasks), SessionCount: len(sessions)}
	seen := map[string]bool{}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			sum.CompletedTasks++
		case models.TaskPending:
			sum.PendingTasks++
		case models.TaskInProgress:
			sum.InProgressTasks++
		}
		if t.Subject != nil && *t.Subject != "" && !seen[*t.Subject] {
			seen[*t.Subject] = true
			sum.Subjects = append(sum.Subjects, *t.Subject)
		}
	}
	sort.Strings(sum.Subjects)
	for _, sess := range sessions {
		if sess.Completed {
			sum.CompletedSessions++
			sum.StudyMinutes += sess.Duration
		}
	}
	return sum
}

func buildRecommendationPrompt(sum StudySummary) string {
	subjects := "none yet"
	if len(sum.Subjects) > 0 {
		subjects = strings.Join(sum.Subjects, ", ")
	}

	var b strings.Builder
	b.WriteString("Here is a summary of a student's recent activity.\n")
	fmt.Fprintf(&b, "- Tasks: %d total, %d completed, %d pending, %d in progress\n",
		sum.TotalTasks, sum.CompletedTasks, sum.PendingTasks, sum.InProgressTasks)
	fmt.Fprintf(&b, "- Pomodoro sessions: %d recorded, %d completed\n", sum.SessionCount, sum.CompletedSessions)
	fmt.Fprintf(&b, "- Total focused study time: %d minutes\n", sum.StudyMinutes)
	fmt.Fprintf(&b, "- Subjects: %s\n\n", subjects)
	fmt.Fprintf(&b, "Give exactly %d personalised study recommendations as a JSON array. ", recommendationsPerRun)
	b.WriteString("Each element must be an object with these fields:\n")
	fmt.Fprintf(&b, `  "title": string, at most %d characters`+"\n", maxRecTitle)
	fmt.Fprintf(&b, `  "description": string, at most %d characters`+"\n", maxRecDescription)
	b.WriteString(`  "subject": one of the subjects above, or null` + "\n")
	b.WriteString(`  "type": one of "study_tip", "focus", "review", "schedule"` + "\n")
	b.WriteString(`  "priority": one of "low", "medium", "high"` + "\n")
	return b.String()
}

type recommendationCandidate struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Subject     *string `json:"subject"`
	Type        string  `json:"type"`
	Priority    string  `json:"priority"`
}

// parseRecommendations decodes the model reply as a JSON array. Each
// element is decoded strictly on its own, so one malformed object only
// drops that candidate. A reply that is not an array yields nil.
func parseRecommendations(content string) []recommendationCandidate {
	content = ai.StripCodeFence(content)
	dec := json.NewDecoder(strings.NewReader(content))

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	if dec.More() {
		return nil
	}

	out := make([]recommendationCandidate, 0, len(raw))
	for _, elem := range raw {
		c, err := decodeCandidate(elem)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func decodeCandidate(elem json.RawMessage) (recommendationCandidate, error) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.DisallowUnknownFields()
	var c recommendationCandidate
	if err := dec.Decode(&c); err != nil {
		return recommendationCandidate{}, err
	}
	return c, nil
}

// coerce normalizes a candidate into a row. ok is false when the
// candidate has no usable title.
func coerce(userID string, c recommendationCandidate) (models.StudyRecommendation, bool) {
	title := truncate(strings.TrimSpace(c.Title), maxRecTitle)
	if title == "" {
		return models.StudyRecommendation{}, false
	}

	rec := models.StudyRecommendation{
		UserID:      userID,
		Title:       title,
		Description: truncate(strings.TrimSpace(c.Description), maxRecDescription),
		Type:        strings.ToLower(strings.TrimSpace(c.Type)),
		Priority:    strings.ToLower(strings.TrimSpace(c.Priority)),
	}
	if !models.RecommendationTypes[rec.Type] {
		rec.Type = models.RecommendationStudyTip
	}
	if !models.Priorities[rec.Priority] {
		rec.Priority = models.PriorityMedium
	}
	if c.Subject != nil {
		subject := truncate(strings.TrimSpace(*c.Subject), maxSubject)
		if subject != "" && !strings.EqualFold(subject, "null") {
			rec.Subject = &subject
		}
	}
	return rec, true
}

func (s *RecommendationService) Generate(ctx context.Context, userID string) ([]models.StudyRecommendation, error) {
	if s.ai == nil {
		return nil, ErrAIUnavailable
	}

	tasks, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.ai.Complete(ctx, recommendationSystemPrompt, buildRecommendationPrompt(summarize(tasks, sessions)))
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	candidates := parseRecommendations(reply)
	if candidates == nil {
		slog.Warn("AI reply was not a recommendation array", "user_id", userID)
	}

	recs := make([]models.StudyRecommendation, 0, recommendationsPerRun)
	for _, c := range candidates {
		if len(recs) == recommendationsPerRun {
			break
		}
		rec, ok := coerce(userID, c)
		if !ok {
			continue
		}
		if ok, reason := s.filter.Check(rec.Title + "\n" + rec.Description); !ok {
			slog.Warn("dropped AI recommendation", "user_id", userID, "reason", reason)
			continue
		}
		recs = append(recs, rec)
	}

	return s.store.CreateRecommendations(ctx, recs)
}
