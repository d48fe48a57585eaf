package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/models"
)

const fourRecommendations = "```json\n" + `[
  {"title":"Review calculus","description":"Spend 20 minutes on limits.","subject":"Math","type":"review","priority":"high"},
  {"title":"Plan your week","description":"Block time for each subject.","subject":null,"type":"schedule","priority":"medium"},
  {"title":"Short breaks","description":"Use five minute breaks.","subject":"","type":"focus","priority":"low"},
  {"title":"Active recall","description":"Quiz yourself after reading.","subject":"History","type":"study_tip","priority":"medium"},
  {"title":"Fifth one","description":"Should be dropped.","subject":null,"type":"focus","priority":"low"}
]` + "\n```"

func TestGenerateWithoutAIReturnsUnavailable(t *testing.T) {
	store := newTestStore(t)
	svc := NewRecommendationService(store, nil, nil)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, "user-a"); !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
	recs, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
}

func TestGeneratePersistsAtMostFour(t *testing.T) {
	store := newTestStore(t)
	client := &fakeAI{reply: fourRecommendations}
	svc := NewRecommendationService(store, client, nil)
	ctx := context.Background()

	if _, err := NewTaskService(store).Create(ctx, "user-a", dto.CreateTaskRequest{Title: "Essay", Subject: strPtr("History"), Status: "completed"}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	recs, err := svc.Generate(ctx, "user-a")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 recommendations, got %d", len(recs))
	}
	for _, r := range recs {
		if r.Dismissed || r.UserID != "user-a" {
			t.Fatalf("unexpected recommendation: %+v", r)
		}
	}
	if recs[1].Subject != nil || recs[2].Subject != nil {
		t.Fatal("null and empty subjects should be stored as null")
	}
	if client.calls != 1 || !strings.Contains(client.prompts[0], "1 completed") || !strings.Contains(client.prompts[0], "History") {
		t.Fatalf("prompt did not carry the activity summary: %q", client.prompts)
	}

	stored, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 4 {
		t.Fatalf("expected 4 stored recommendations, got %d", len(stored))
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	svc := NewRecommendationService(newTestStore(t), &fakeAI{err: errors.New("boom")}, nil)
	_, err := svc.Generate(context.Background(), "user-a")
	if err == nil || errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected a generic failure, got %v", err)
	}
}

func TestGenerateMalformedReplyYieldsEmptySet(t *testing.T) {
	svc := NewRecommendationService(newTestStore(t), &fakeAI{reply: "Sure! Here you go: [{\"title\":\"x\"}] hope it helps"}, nil)
	recs, err := svc.Generate(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations from prose reply, got %d", len(recs))
	}
}

func TestGenerateDropsOnlyMalformedCandidates(t *testing.T) {
	reply := `[
  {"title":"Review notes","priority":2},
  {"title":"Plan the week","type":"schedule","priority":"high"},
  {"title":"Extra key","mood":"happy"},
  {"title":"Short breaks","type":"focus","priority":"low"}
]`
	svc := NewRecommendationService(newTestStore(t), &fakeAI{reply: reply}, nil)
	recs, err := svc.Generate(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Title != "Plan the week" || recs[1].Title != "Short breaks" {
		t.Fatalf("unexpected titles %q, %q", recs[0].Title, recs[1].Title)
	}
}

func TestParseRecommendationsIsStrict(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`[]`, 0},
		{`[{"title":"a"}]`, 1},
		{"```\n[{\"title\":\"a\"}]\n```", 1},
		{`{"title":"a"}`, 0},
		{`[{"title":"a","extra":"field"}]`, 0},
		{`[{"title":"a"}] trailing`, 0},
		{`not json at all`, 0},
		{`[{"title":"a","priority":3}]`, 0},
		{`[{"title":"a","extra":"field"},{"title":"b"}]`, 1},
		{`[{"title":"a","priority":2},{"title":"b"},{"title":"c"}]`, 2},
		{`[{"title":"a"},"oops",{"title":"c"}]`, 2},
	}
	for _, tc := range cases {
		if got := len(parseRecommendations(tc.in)); got != tc.want {
			t.Errorf("parseRecommendations(%q) returned %d candidates, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCoerceAppliesDefaultsAndLimits(t *testing.T) {
	rec, ok := coerce("u", recommendationCandidate{
		Title:       strings.Repeat("t", 80),
		Description: strings.Repeat("d", 300),
		Subject:     strPtr("  "),
		Type:        "meditate",
		Priority:    "urgent",
	})
	if !ok {
		t.Fatal("expected candidate to be kept")
	}
	if len(rec.Title) != 60 || len(rec.Description) != 200 {
		t.Fatalf("expected truncation, got title=%d description=%d", len(rec.Title), len(rec.Description))
	}
	if rec.Type != models.RecommendationStudyTip || rec.Priority != models.PriorityMedium {
		t.Fatalf("expected defaults, got type=%s priority=%s", rec.Type, rec.Priority)
	}
	if rec.Subject != nil {
		t.Fatal("blank subject should be null")
	}

	if _, ok := coerce("u", recommendationCandidate{Title: "   "}); ok {
		t.Fatal("candidate without title should be dropped")
	}
}

func TestGenerateDropsFilteredContent(t *testing.T) {
	reply := `[{"title":"Visit https://example.com","description":"click","type":"focus","priority":"low"},
	           {"title":"Read chapter 3","description":"Take notes.","type":"review","priority":"low"}]`
	svc := NewRecommendationService(newTestStore(t), &fakeAI{reply: reply}, nil)
	recs, err := svc.Generate(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(recs) != 1 || recs[0].Title != "Read chapter 3" {
		t.Fatalf("expected only the clean recommendation, got %+v", recs)
	}
}

func TestDismissIsOwnedAndMonotonic(t *testing.T) {
	store := newTestStore(t)
	svc := NewRecommendationService(store, &fakeAI{reply: `[{"title":"Plan","description":"d","type":"schedule","priority":"low"}]`}, nil)
	ctx := context.Background()

	recs, err := svc.Generate(ctx, "user-a")
	if err != nil || len(recs) != 1 {
		t.Fatalf("generate: %v (%d recs)", err, len(recs))
	}

	if _, err := svc.Dismiss(ctx, "user-b", recs[0].ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	for i := 0; i < 2; i++ {
		rec, err := svc.Dismiss(ctx, "user-a", recs[0].ID)
		if err != nil {
			t.Fatalf("dismiss: %v", err)
		}
		if !rec.Dismissed {
			t.Fatal("expected dismissed recommendation")
		}
	}
}

func TestContentFilterCheck(t *testing.T) {
	f := NewContentFilter()
	cases := []struct {
		text string
		want bool
	}{
		{"Review your notes", true},
		{"Email me at a@b.com", false},
		{"Call 555-123-4567", false},
		{"See www.example.com now", false},
		{"This is bullshit", false},
		{"", true},
	}
	for _, tc := range cases {
		if got, _ := f.Check(tc.text); got != tc.want {
			t.Errorf("Check(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestContentFilterSharedAcrossGoroutines(t *testing.T) {
	f := NewContentFilter()
	texts := []string{"Plan the week", "visit https://example.com", "what a scam"}
	for i := 0; i < 8; i++ {
		text := texts[i%len(texts)]
		want, _ := f.Check(text)
		t.Run(text, func(t *testing.T) {
			t.Parallel()
			for j := 0; j < 50; j++ {
				if got, _ := f.Check(text); got != want {
					t.Fatalf("Check(%q) = %v, want %v", text, got, want)
				}
			}
		})
	}
}
