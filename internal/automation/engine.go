package automation

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"smartintern/internal/database"
)

const (
	// KindAlert marks time-critical notifications (interview coming up).
	KindAlert = "alert"
	// KindInfo marks advisory notifications (stale application follow-up).
	KindInfo = "info"

	interviewWindow = 24 * time.Hour
	staleAfter      = 14 * 24 * time.Hour
)

// Notification is a derived reminder for one application. Nothing is
// persisted: every run recomputes the full set from the current store state,
// so repeated calls are idempotent.
type Notification struct {
	Kind          string `json:"kind"`
	ApplicationID uint   `json:"application_id"`
	Company       string `json:"company"`
	Message       string `json:"message"`
}

// Engine scans a user's applications and derives reminder notifications.
type Engine struct {
	db *gorm.DB
}

// NewEngine 构造自动化引擎。
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Run loads every application owned by ownerEmail and evaluates the reminder
// rules against now. Output order follows application load order (stable
// insertion order).
func (e *Engine) Run(ctx context.Context, ownerEmail string, now time.Time) ([]Notification, error) {
	var apps []database.Application
	if err := e.db.WithContext(ctx).
		Where("user_email = ?", ownerEmail).
		Order("created_at ASC, id ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}

	notifications := make([]Notification, 0, len(apps))
	for _, app := range apps {
		notifications = append(notifications, Evaluate(app, now)...)
	}
	return notifications, nil
}

// Evaluate applies both reminder rules to a single application. The rules
// are independent; both may fire for the same record.
func Evaluate(app database.Application, now time.Time) []Notification {
	var out []Notification

	// Rule 1: interview scheduled within the next 24 hours.
	if app.NextActionDate != nil {
		until := app.NextActionDate.Sub(now)
		if until > 0 && until < interviewWindow {
			out = append(out, Notification{
				Kind:          KindAlert,
				ApplicationID: app.ID,
				Company:       app.Company,
				Message:       fmt.Sprintf("Your interview with %s is tomorrow. Good luck!", app.Company),
			})
		}
	}

	// Rule 2: still in Applied with no movement for more than 14 days.
	if app.Status == "Applied" && now.Sub(app.AppliedDate) > staleAfter {
		out = append(out, Notification{
			Kind:          KindInfo,
			ApplicationID: app.ID,
			Company:       app.Company,
			Message:       fmt.Sprintf("It has been over two weeks since you applied to %s. Consider sending a follow-up.", app.Company),
		})
	}

	return out
}
