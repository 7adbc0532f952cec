package api

import (
	"context"
	"time"

	"github.com/khanghh/kattend/internal/attendance"
	"github.com/khanghh/kattend/internal/audit"
	"github.com/khanghh/kattend/internal/auth"
	"github.com/khanghh/kattend/internal/users"
	"github.com/khanghh/kattend/model"
)

type AuthService interface {
	Login(ctx context.Context, req auth.LoginRequest) (string, *model.User, error)
	Register(ctx context.Context, opts users.CreateUserOptions) (string, *model.User, error)
}

type UserService interface {
	UpdateProfile(ctx context.Context, userID uint, opts users.UpdateProfileOptions) (*model.User, error)
}

type HistoryService interface {
	List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error)
	ListForUser(ctx context.Context, userID uint) ([]*model.LoginHistory, error)
	Stats(ctx context.Context, now time.Time) (*audit.Stats, error)
}

type AttendanceService interface {
	CheckIn(ctx context.Context, userID uint) (*model.Attendance, error)
	CheckOut(ctx context.Context, userID uint) (*model.Attendance, error)
	Today(ctx context.Context, userID uint) (*attendance.Today, error)
	History(ctx context.Context, userID uint, limit int) ([]*model.Attendance, error)
	Summary(ctx context.Context, date string) (*attendance.Summary, error)
}
