package audit

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/khanghh/kattend/internal/clientinfo"
	"github.com/khanghh/kattend/internal/metrics"
	"github.com/khanghh/kattend/model"
)

// LoginRecord describes one login attempt. Client must be computed from the
// original request.
type LoginRecord struct {
	UserID    *uint
	Email     string
	Client    clientinfo.ClientInfo
	Success   bool
	RequestID string
	Time      time.Time
}

// clip truncates s to at most n characters. Column sizes count characters on
// both mysql and postgres.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type Recorder struct {
	repo LoginHistoryRepository
	now  func() time.Time
}

// RecordLogin persists exactly one login history row. A write failure is
// logged and counted, and returned so the caller can decide, but it must not
// change the authentication outcome.
func (r *Recorder) RecordLogin(ctx context.Context, record LoginRecord) error {
	status := model.LoginStatusFailed
	if record.Success {
		status = model.LoginStatusSuccess
	}
	metrics.LoginAttemptsTotal.WithLabelValues(string(status)).Inc()

	loginTime := record.Time
	if loginTime.IsZero() {
		loginTime = r.now()
	}
	entry := &model.LoginHistory{
		UserID:    record.UserID,
		Email:     clip(record.Email, model.LoginHistoryEmailSize),
		IPAddress: clip(record.Client.IP, model.LoginHistoryIPSize),
		UserAgent: clip(record.Client.UserAgent, model.LoginHistoryUserAgentSize),
		Browser:   clip(record.Client.Browser, model.LoginHistoryLabelSize),
		Device:    clip(record.Client.Device, model.LoginHistoryLabelSize),
		Location:  clip(record.Client.Location, model.LoginHistoryLocationSize),
		Status:    status,
		RequestID: clip(record.RequestID, model.LoginHistoryRequestIDSize),
		LoginTime: loginTime.UTC(),
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		slog.Error("Failed to record login attempt",
			"email", record.Email,
			"status", status,
			"ip", record.Client.IP,
			"requestId", record.RequestID,
			"error", err,
		)
		return err
	}
	return nil
}

func NewRecorder(repo LoginHistoryRepository) *Recorder {
	return &Recorder{
		repo: repo,
		now:  time.Now,
	}
}
