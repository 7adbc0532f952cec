package api

import (
	"strconv"
	"time"

	"github.com/khanghh/kattend/internal/attendance"
	"github.com/khanghh/kattend/internal/audit"
	"github.com/khanghh/kattend/model"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Token   string   `json:"token,omitempty"`
	Count   *int     `json:"count,omitempty"`
	Stats   any      `json:"stats,omitempty"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func NewDataResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func NewListResponse[T any](items []T) Response {
	count := len(items)
	if items == nil {
		items = []T{}
	}
	return Response{Success: true, Count: &count, Data: items}
}

func NewErrorResponse(message string) Response {
	return Response{Success: false, Message: message}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Profile is the public view of a user, it never carries the password hash.
type Profile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       model.Role `json:"role"`
	EmployeeID string     `json:"employeeId"`
	Department string     `json:"department"`
	Phone      string     `json:"phone,omitempty"`
	Avatar     string     `json:"avatar,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func NewProfile(user *model.User) *Profile {
	return &Profile{
		ID:         formatID(user.ID),
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
		Department: user.Department,
		Phone:      user.Phone,
		Avatar:     user.Avatar,
		CreatedAt:  user.CreatedAt,
	}
}

type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department"`
}

type LoginHistoryItem struct {
	ID        string            `json:"id"`
	UserID    *string           `json:"userId"`
	User      *UserSummary      `json:"user"`
	Email     string            `json:"email"`
	IPAddress string            `json:"ipAddress"`
	UserAgent string            `json:"userAgent"`
	Browser   string            `json:"browser"`
	Device    string            `json:"device"`
	Location  string            `json:"location"`
	Status    model.LoginStatus `json:"status"`
	LoginTime time.Time         `json:"loginTime"`
}

func NewLoginHistoryItem(record *model.LoginHistory) LoginHistoryItem {
	item := LoginHistoryItem{
		ID:        record.ID,
		Email:     record.Email,
		IPAddress: record.IPAddress,
		UserAgent: record.UserAgent,
		Browser:   record.Browser,
		Device:    record.Device,
		Location:  record.Location,
		Status:    record.Status,
		LoginTime: record.LoginTime,
	}
	if record.UserID != nil {
		userID := formatID(*record.UserID)
		item.UserID = &userID
	}
	return item
}

func NewLoginHistoryEntry(entry audit.Entry) LoginHistoryItem {
	item := NewLoginHistoryItem(entry.LoginHistory)
	if entry.User != nil {
		item.User = &UserSummary{
			ID:         formatID(entry.User.ID),
			Name:       entry.User.Name,
			Email:      entry.User.Email,
			EmployeeID: entry.User.EmployeeID,
			Department: entry.User.Department,
		}
	}
	return item
}

type LoginStats struct {
	TotalLogins  int64 `json:"totalLogins"`
	FailedLogins int64 `json:"failedLogins"`
	TodayLogins  int64 `json:"todayLogins"`
}

type AttendanceItem struct {
	ID           string                 `json:"id"`
	Date         string                 `json:"date"`
	CheckInTime  *time.Time             `json:"checkInTime"`
	CheckOutTime *time.Time             `json:"checkOutTime"`
	Status       model.AttendanceStatus `json:"status"`
	WorkHours    float64                `json:"workHours"`
}

func NewAttendanceItem(record *model.Attendance) AttendanceItem {
	checkIn := record.CheckInTime
	return AttendanceItem{
		ID:           formatID(record.ID),
		Date:         record.Date,
		CheckInTime:  &checkIn,
		CheckOutTime: record.CheckOutTime,
		Status:       record.Status,
		WorkHours:    record.WorkHours,
	}
}

func NewTodayItem(today *attendance.Today) AttendanceItem {
	if today.Record != nil {
		return NewAttendanceItem(today.Record)
	}
	return AttendanceItem{
		Date:   today.Date,
		Status: today.Status,
	}
}

type AttendanceSummary struct {
	Date           string `json:"date"`
	TotalEmployees int64  `json:"totalEmployees"`
	PresentToday   int64  `json:"presentToday"`
	LateToday      int64  `json:"lateToday"`
	HalfDayToday   int64  `json:"halfDayToday"`
	AbsentToday    int64  `json:"absentToday"`
}
