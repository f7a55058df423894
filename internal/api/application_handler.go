package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smartintern/internal/api/middleware"
	"smartintern/internal/database"
)

// ApplicationHandler 负责处理求职申请的增删改查。
type ApplicationHandler struct {
	db *gorm.DB
}

// NewApplicationHandler 构造 ApplicationHandler。
func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{db: db}
}

var errInvalidApplicationID = errors.New("invalid application id")

type createApplicationRequest struct {
	Company        string     `json:"company" binding:"required"`
	Role           string     `json:"role" binding:"required"`
	Status         string     `json:"status"`
	AppliedDate    *time.Time `json:"applied_date"`
	JobDescription string     `json:"job_description"`
	ResumeText     string     `json:"resume_text"`
	NextActionDate *time.Time `json:"next_action_date"`
	ReminderNote   string     `json:"reminder_note"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type applicationResponse struct {
	ID              uint       `json:"id"`
	UserEmail       string     `json:"user_email"`
	Company         string     `json:"company"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	AppliedDate     time.Time  `json:"applied_date"`
	JobDescription  string     `json:"job_description,omitempty"`
	ResumeText      string     `json:"resume_text,omitempty"`
	MatchScore      int        `json:"match_score"`
	MissingKeywords []string   `json:"missing_keywords"`
	NextActionDate  *time.Time `json:"next_action_date,omitempty"`
	ReminderNote    string     `json:"reminder_note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// List 按插入顺序返回调用者的全部申请记录。
func (h *ApplicationHandler) List(c *gin.Context) {
	email, ok := middleware.UserEmailFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if h.db == nil {
		DatabaseUnavailable(c)
		return
	}

	ctx := c.Request.Context()
	var apps []database.Application
	if err := h.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at ASC, id ASC").
		Find(&apps).Error; err != nil {
		Internal(c, "failed to list applications")
		return
	}

	items := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		items = append(items, newApplicationResponse(app))
	}

	c.JSON(http.StatusOK, items)
}

// Create persists a new application. Any owner supplied in the draft is
// discarded: the record is always stamped with the authenticated caller.
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	email, ok := middleware.UserEmailFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if h.db == nil {
		DatabaseUnavailable(c)
		return
	}

	app := database.Application{
		UserEmail:       email,
		Company:         req.Company,
		Role:            req.Role,
		Status:          req.Status,
		JobDescription:  req.JobDescription,
		ResumeText:      req.ResumeText,
		MissingKeywords: datatypes.JSON([]byte("[]")),
		NextActionDate:  req.NextActionDate,
		ReminderNote:    req.ReminderNote,
	}
	if app.Status == "" {
		app.Status = "Applied"
	}
	if req.AppliedDate != nil {
		app.AppliedDate = *req.AppliedDate
	} else {
		app.AppliedDate = time.Now()
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Create(&app).Error; err != nil {
		Internal(c, "failed to create application")
		return
	}

	c.JSON(http.StatusCreated, newApplicationResponse(app))
}

// UpdateStatus mutates only the status field. Missing and unowned records
// answer with the same 404 so ownership is never leaked.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	email, ok := middleware.UserEmailFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if h.db == nil {
		DatabaseUnavailable(c)
		return
	}

	app, err := h.getApplicationForUser(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Model(app).Update("status", req.Status).Error; err != nil {
		Internal(c, "failed to update application")
		return
	}

	if err := h.db.WithContext(ctx).First(app, app.ID).Error; err != nil {
		Internal(c, "failed to reload application")
		return
	}

	c.JSON(http.StatusOK, newApplicationResponse(*app))
}

// Delete 删除指定申请记录，同样不泄露归属信息。
func (h *ApplicationHandler) Delete(c *gin.Context) {
	email, ok := middleware.UserEmailFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	if h.db == nil {
		DatabaseUnavailable(c)
		return
	}

	app, err := h.getApplicationForUser(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Unscoped().Delete(&database.Application{}, app.ID).Error; err != nil {
		Internal(c, "failed to delete application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "application deleted"})
}

func (h *ApplicationHandler) replyLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidApplicationID):
		BadRequest(c, "invalid application id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "application not found")
	default:
		Internal(c, "failed to query application")
	}
}

// getApplicationForUser resolves an id to a record only when the caller owns
// it; unowned records are indistinguishable from absent ones.
func (h *ApplicationHandler) getApplicationForUser(ctx context.Context, idParam, email string) (*database.Application, error) {
	appID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidApplicationID
	}

	var app database.Application
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_email = ?", uint(appID), email).
		First(&app).Error; err != nil {
		return nil, err
	}

	return &app, nil
}

func newApplicationResponse(app database.Application) applicationResponse {
	return applicationResponse{
		ID:              app.ID,
		UserEmail:       app.UserEmail,
		Company:         app.Company,
		Role:            app.Role,
		Status:          app.Status,
		AppliedDate:     app.AppliedDate,
		JobDescription:  app.JobDescription,
		ResumeText:      app.ResumeText,
		MatchScore:      app.MatchScore,
		MissingKeywords: decodeKeywords(app.MissingKeywords),
		NextActionDate:  app.NextActionDate,
		ReminderNote:    app.ReminderNote,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

func decodeKeywords(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var keywords []string
	if err := json.Unmarshal(raw, &keywords); err != nil || keywords == nil {
		return []string{}
	}
	return keywords
}
