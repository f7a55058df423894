package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"smartintern/internal/ai"
	"smartintern/internal/database"
)

type scriptedGenerator struct {
	reply string
	err   error
}

func (g *scriptedGenerator) Generate(context.Context, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestAnalyze_ReturnsStructuredResult(t *testing.T) {
	gen := &scriptedGenerator{reply: `{"match_score": 72, "missing_keywords": ["Docker"], "advice": "Mention containers."}`}
	h := NewAIHandler(nil, ai.NewService(gen), nil)

	c, w := newJSONContext(t, http.MethodPost, "/ai/analyze", map[string]any{
		"resume_text":     "Go developer",
		"job_description": "Backend role",
	}, "alice@example.com")

	h.Analyze(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp ai.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MatchScore != 72 || len(resp.MissingKeywords) != 1 {
		t.Fatalf("unexpected analysis: %+v", resp)
	}
}

func TestAnalyze_FallbackStaysHTTP200(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("upstream down")}
	h := NewAIHandler(nil, ai.NewService(gen), nil)

	c, w := newJSONContext(t, http.MethodPost, "/ai/analyze", map[string]any{
		"resume_text":     "Go developer",
		"job_description": "Backend role",
	}, "alice@example.com")

	h.Analyze(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (swallow policy)", w.Code)
	}

	var resp ai.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MatchScore != 0 || resp.Advice != "Error parsing AI response" {
		t.Fatalf("expected fallback, got %+v", resp)
	}
}

func TestAnalyze_PersistsOntoOwnedApplication(t *testing.T) {
	db := newTestDB(t)
	gen := &scriptedGenerator{reply: `{"match_score": 64, "missing_keywords": ["Terraform", "AWS"], "advice": "Add cloud work."}`}
	h := NewAIHandler(db, ai.NewService(gen), nil)

	app := seedApplication(t, db, "alice@example.com", "Acme", "Applied", time.Now())
	db.Model(&app).Updates(map[string]any{
		"resume_text":     "Go developer",
		"job_description": "Backend role",
	})

	c, w := newJSONContext(t, http.MethodPost, "/ai/analyze", map[string]any{
		"application_id": app.ID,
	}, "alice@example.com")

	h.Analyze(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var stored database.Application
	if err := db.First(&stored, app.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if stored.MatchScore != 64 {
		t.Fatalf("match score = %d, want 64", stored.MatchScore)
	}

	var keywords []string
	if err := json.Unmarshal(stored.MissingKeywords, &keywords); err != nil {
		t.Fatalf("decode stored keywords: %v", err)
	}
	if len(keywords) != 2 || keywords[0] != "Terraform" {
		t.Fatalf("stored keywords = %v", keywords)
	}
}

func TestAnalyze_UnownedApplicationLooksAbsent(t *testing.T) {
	db := newTestDB(t)
	gen := &scriptedGenerator{reply: `{"match_score": 1, "missing_keywords": [], "advice": "x"}`}
	h := NewAIHandler(db, ai.NewService(gen), nil)

	app := seedApplication(t, db, "bob@example.com", "Globex", "Applied", time.Now())

	c, w := newJSONContext(t, http.MethodPost, "/ai/analyze", map[string]any{
		"application_id":  app.ID,
		"resume_text":     "Go developer",
		"job_description": "Backend role",
	}, "alice@example.com")

	h.Analyze(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestAnalyze_RequiresTexts(t *testing.T) {
	gen := &scriptedGenerator{reply: `{}`}
	h := NewAIHandler(nil, ai.NewService(gen), nil)

	c, w := newJSONContext(t, http.MethodPost, "/ai/analyze", map[string]any{
		"resume_text": "only one side",
	}, "alice@example.com")

	h.Analyze(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestColdEmail_PassesReplyThrough(t *testing.T) {
	gen := &scriptedGenerator{reply: "Hi, I noticed your posting..."}
	h := NewAIHandler(nil, ai.NewService(gen), nil)

	c, w := newJSONContext(t, http.MethodPost, "/ai/cold-email", map[string]any{
		"job_description": "Backend role at Acme",
	}, "alice@example.com")

	h.ColdEmail(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "Hi, I noticed your posting..." {
		t.Fatalf("email = %q", resp.Email)
	}
}

func TestChat_SwallowsProviderError(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("quota exceeded")}
	h := NewAIHandler(nil, ai.NewService(gen), nil)

	c, w := newJSONContext(t, http.MethodPost, "/ai/chat", map[string]any{
		"message": "How should I prepare?",
	}, "alice@example.com")

	h.Chat(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (swallow policy)", w.Code)
	}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply != "quota exceeded" {
		t.Fatalf("reply = %q, want raw error text", resp.Reply)
	}
}
