package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// maxPromptInputLen bounds how much of the resume and job description is
// embedded in the analysis prompt.
const maxPromptInputLen = 2000

// DefaultRole is assumed when a cold-email request does not name one.
const DefaultRole = "Developer"

// fallbackAdvice is returned whenever the analysis reply cannot be parsed.
const fallbackAdvice = "Error parsing AI response"

const chatPersona = "You are a helpful Career Coach assistant named 'SmartIntern'."

// Analysis is the structured result of a resume/job-description comparison.
type Analysis struct {
	MatchScore      int      `json:"match_score"`
	MissingKeywords []string `json:"missing_keywords"`
	Advice          string   `json:"advice"`
}

// Service builds prompts for the career-assistant features and interprets
// the provider replies.
//
// Policy: a provider failure never fails the request. AnalyzeResume degrades
// to a fixed zero-score result, ColdEmail and Chat pass the error text
// through as if it were a normal reply. This mirrors the product's original
// behavior and is deliberate; callers that want hard failures should use the
// Generator directly.
type Service struct {
	gen Generator
}

// NewService 构造 AI 服务。
func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// AnalyzeResume compares a resume against a job description and returns a
// structured match report. It never returns an error: unparseable or failed
// replies yield the fixed fallback result.
func (s *Service) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) Analysis {
	prompt := fmt.Sprintf(`Act as an ATS Scanner. Compare this Resume and Job Description (JD).
Resume: %s...
JD: %s...

Output ONLY valid JSON format:
{
    "match_score": (integer 0-100),
    "missing_keywords": ["list", "of", "missing", "skills"],
    "advice": "1 sentence advice"
}`, truncate(resumeText, maxPromptInputLen), truncate(jobDescription, maxPromptInputLen))

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return fallbackAnalysis()
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &analysis); err != nil {
		return fallbackAnalysis()
	}
	if analysis.MissingKeywords == nil {
		analysis.MissingKeywords = []string{}
	}
	return analysis
}

// ColdEmail drafts a recruiter-ready email body for the given job
// description. The provider reply is passed through verbatim; provider
// failures surface as the error text in place of the email.
func (s *Service) ColdEmail(ctx context.Context, jobDescription, role string) string {
	if role == "" {
		role = DefaultRole
	}

	prompt := fmt.Sprintf(`Write a professional, concise cold email to a recruiter for this Job Description.
My Role: %s
Job Description: %s

Output ONLY the email body text. No subject line placeholders.`, role, jobDescription)

	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return err.Error()
	}
	return reply
}

// Chat answers a career-coach message, optionally grounded in prior
// conversation context. Same pass-through policy as ColdEmail.
func (s *Service) Chat(ctx context.Context, message, chatContext string) string {
	prompt := fmt.Sprintf(`%s
Context: %s

User: %s
Assistant:`, chatPersona, chatContext, message)

	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return err.Error()
	}
	return reply
}

func fallbackAnalysis() Analysis {
	return Analysis{
		MatchScore:      0,
		MissingKeywords: []string{},
		Advice:          fallbackAdvice,
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// stripCodeFences removes markdown code-fence markers the model sometimes
// wraps around JSON replies.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
