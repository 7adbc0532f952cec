package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/khanghh/kattend/model"
	"github.com/khanghh/kattend/params"
)

var ErrInvalidStatus = errors.New("invalid login status")

// Filter narrows a login history query. Zero values mean no restriction.
type Filter struct {
	UserID *uint
	Status model.LoginStatus
	Limit  int
}

// UserLookup resolves the users referenced by history rows at read time.
type UserLookup interface {
	FindUsersByIDs(ctx context.Context, userIDs []uint) ([]*model.User, error)
}

type UserSummary struct {
	ID         uint
	Name       string
	Email      string
	EmployeeID string
	Department string
}

// Entry is a login history row with its user resolved, User is nil when the
// attempt matched no account or the account no longer exists.
type Entry struct {
	*model.LoginHistory
	User *UserSummary
}

type Stats struct {
	TotalLogins  int64
	FailedLogins int64
	TodayLogins  int64
}

type HistoryService struct {
	repo  LoginHistoryRepository
	users UserLookup
	loc   *time.Location
}

func clampLimit(limit int, def int, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// StartOfDay returns midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (s *HistoryService) resolveUsers(ctx context.Context, records []*model.LoginHistory) []Entry {
	entries := make([]Entry, len(records))
	seen := make(map[uint]struct{})
	var userIDs []uint
	for i, record := range records {
		entries[i] = Entry{LoginHistory: record}
		if record.UserID == nil {
			continue
		}
		if _, ok := seen[*record.UserID]; !ok {
			seen[*record.UserID] = struct{}{}
			userIDs = append(userIDs, *record.UserID)
		}
	}
	if len(userIDs) == 0 || s.users == nil {
		return entries
	}

	users, err := s.users.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		slog.Warn("Could not resolve login history users", "error", err)
		return entries
	}
	summaries := make(map[uint]*UserSummary, len(users))
	for _, user := range users {
		summaries[user.ID] = &UserSummary{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			EmployeeID: user.EmployeeID,
			Department: user.Department,
		}
	}
	for i := range entries {
		if uid := entries[i].UserID; uid != nil {
			entries[i].User = summaries[*uid]
		}
	}
	return entries
}

// List returns login history newest first with users resolved.
func (s *HistoryService) List(ctx context.Context, filter Filter) ([]Entry, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	filter.Limit = clampLimit(filter.Limit, params.LoginHistoryLimit, params.LoginHistoryMaxLimit)
	records, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.resolveUsers(ctx, records), nil
}

// ListForUser returns the newest login attempts attributed to userID.
func (s *HistoryService) ListForUser(ctx context.Context, userID uint) ([]*model.LoginHistory, error) {
	return s.repo.Find(ctx, Filter{
		UserID: &userID,
		Limit:  params.MyLoginHistoryLimit,
	})
}

// Stats aggregates over all records regardless of any list filter.
func (s *HistoryService) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	var (
		stats Stats
		err   error
	)
	if stats.TotalLogins, err = s.repo.Count(ctx, model.LoginStatusSuccess, time.Time{}); err != nil {
		return nil, err
	}
	if stats.FailedLogins, err = s.repo.Count(ctx, model.LoginStatusFailed, time.Time{}); err != nil {
		return nil, err
	}
	if stats.TodayLogins, err = s.repo.Count(ctx, model.LoginStatusSuccess, StartOfDay(now, s.loc)); err != nil {
		return nil, err
	}
	return &stats, nil
}

func NewHistoryService(repo LoginHistoryRepository, users UserLookup, loc *time.Location) *HistoryService {
	if loc == nil {
		loc = time.Local
	}
	return &HistoryService{
		repo:  repo,
		users: users,
		loc:   loc,
	}
}
