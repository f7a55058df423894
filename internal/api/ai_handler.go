package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smartintern/internal/ai"
	"smartintern/internal/api/middleware"
	"smartintern/internal/database"
)

// AIHandler 负责处理 AI 辅助功能的 API 请求。
type AIHandler struct {
	db     *gorm.DB
	ai     *ai.Service
	logger *slog.Logger
}

// NewAIHandler 构造 AIHandler。
func NewAIHandler(db *gorm.DB, aiService *ai.Service, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		db:     db,
		ai:     aiService,
		logger: logger,
	}
}

type analyzeRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	// ApplicationID optionally names an owned application whose stored
	// texts are used when the inline ones are empty, and onto which the
	// match result is persisted.
	ApplicationID uint `json:"application_id"`
}

type coldEmailRequest struct {
	JobDescription string `json:"job_description" binding:"required"`
	Role           string `json:"role"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	Context string `json:"context"`
}

// Analyze compares a resume against a job description. Provider failures or
// unparseable replies degrade to the fixed zero-score fallback, never to an
// error status.
func (h *AIHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	email, ok := middleware.UserEmailFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	var app *database.Application
	if req.ApplicationID != 0 {
		if h.db == nil {
			DatabaseUnavailable(c)
			return
		}
		var found database.Application
		if err := h.db.WithContext(ctx).
			Where("id = ? AND user_email = ?", req.ApplicationID, email).
			First(&found).Error; err != nil {
			NotFound(c, "application not found")
			return
		}
		app = &found
		if req.ResumeText == "" {
			req.ResumeText = found.ResumeText
		}
		if req.JobDescription == "" {
			req.JobDescription = found.JobDescription
		}
	}

	if req.ResumeText == "" || req.JobDescription == "" {
		BadRequest(c, "resume_text and job_description are required")
		return
	}

	analysis := h.ai.AnalyzeResume(ctx, req.ResumeText, req.JobDescription)

	if app != nil {
		keywords, err := json.Marshal(analysis.MissingKeywords)
		if err != nil {
			keywords = []byte("[]")
		}
		if err := h.db.WithContext(ctx).Model(app).Updates(map[string]any{
			"match_score":      analysis.MatchScore,
			"missing_keywords": datatypes.JSON(keywords),
		}).Error; err != nil {
			logger.Error("persist analysis failed",
				slog.Uint64("application_id", uint64(app.ID)),
				slog.Any("error", err),
			)
			Internal(c, "failed to store analysis")
			return
		}
	}

	c.JSON(http.StatusOK, analysis)
}

// ColdEmail 生成一封可直接发送的陌生开发信。
func (h *AIHandler) ColdEmail(c *gin.Context) {
	var req coldEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	body := h.ai.ColdEmail(c.Request.Context(), req.JobDescription, req.Role)
	c.JSON(http.StatusOK, gin.H{"email": body})
}

// Chat answers a career-coach message.
func (h *AIHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	reply := h.ai.Chat(c.Request.Context(), req.Message, req.Context)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
