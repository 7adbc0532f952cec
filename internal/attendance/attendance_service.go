package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/khanghh/kattend/internal/database"
	"github.com/khanghh/kattend/model"
	"github.com/khanghh/kattend/params"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type UserCounter interface {
	CountUsers(ctx context.Context, roles ...model.Role) (int64, error)
}

type Options struct {
	Location     *time.Location
	LateAfter    string // HH:MM local clock time
	HalfDayHours float64
}

// Today is a user's attendance for the current day, Record is nil before check-in.
type Today struct {
	Date   string
	Status model.AttendanceStatus
	Record *model.Attendance
}

type Summary struct {
	Date           string
	TotalEmployees int64
	Present        int64
	Late           int64
	HalfDay        int64
	Absent         int64
}

type AttendanceService struct {
	repo         AttendanceRepository
	users        UserCounter
	loc          *time.Location
	lateHour     int
	lateMinute   int
	halfDayHours float64
	now          func() time.Time
}

func (s *AttendanceService) today() (time.Time, string) {
	now := s.now().In(s.loc)
	return now, now.Format(DateLayout)
}

func (s *AttendanceService) isLate(checkIn time.Time) bool {
	cutoff := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), s.lateHour, s.lateMinute, 0, 0, s.loc)
	return checkIn.After(cutoff)
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}

func (s *AttendanceService) CheckIn(ctx context.Context, userID uint) (*model.Attendance, error) {
	now, date := s.today()
	status := model.AttendancePresent
	if s.isLate(now) {
		status = model.AttendanceLate
	}
	record := &model.Attendance{
		UserID:      userID,
		Date:        date,
		CheckInTime: now.UTC(),
		Status:      status,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return record, nil
}

func (s *AttendanceService) CheckOut(ctx context.Context, userID uint) (*model.Attendance, error) {
	now, date := s.today()
	record, err := s.repo.FindByUserDate(ctx, userID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotCheckedIn
	}
	if err != nil {
		return nil, err
	}
	if record.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}

	workHours := roundHours(now.Sub(record.CheckInTime))
	status := record.Status
	if workHours < s.halfDayHours {
		status = model.AttendanceHalfDay
	}
	checkOutTime := now.UTC()
	rows, err := s.repo.CheckOut(ctx, record.ID, checkOutTime, workHours, status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAlreadyCheckedOut
	}
	record.CheckOutTime = &checkOutTime
	record.WorkHours = workHours
	record.Status = status
	return record, nil
}

func (s *AttendanceService) Today(ctx context.Context, userID uint) (*Today, error) {
	_, date := s.today()
	record, err := s.repo.FindByUserDate(ctx, userID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Today{Date: date, Status: model.AttendanceNotCheckedIn}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Today{Date: date, Status: record.Status, Record: record}, nil
}

// History returns the user's most recent days, newest first.
func (s *AttendanceService) History(ctx context.Context, userID uint, limit int) ([]*model.Attendance, error) {
	if limit <= 0 {
		limit = params.AttendanceHistoryLimit
	}
	if limit > params.AttendanceHistoryMax {
		limit = params.AttendanceHistoryMax
	}
	return s.repo.FindByUser(ctx, userID, limit)
}

// Summary aggregates attendance of all users on date, today when date is empty.
func (s *AttendanceService) Summary(ctx context.Context, date string) (*Summary, error) {
	if date == "" {
		_, date = s.today()
	} else if _, err := time.ParseInLocation(DateLayout, date, s.loc); err != nil {
		return nil, ErrInvalidDate
	}

	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx, date)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		Date:           date,
		TotalEmployees: total,
		Late:           counts[model.AttendanceLate],
		HalfDay:        counts[model.AttendanceHalfDay],
	}
	for _, n := range counts {
		summary.Present += n
	}
	summary.Absent = max(total-summary.Present, 0)
	return summary, nil
}

func NewAttendanceService(repo AttendanceRepository, users UserCounter, opts Options) (*AttendanceService, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	lateAfter := opts.LateAfter
	if lateAfter == "" {
		lateAfter = params.AttendanceLateAfter
	}
	cutoff, err := time.Parse("15:04", lateAfter)
	if err != nil {
		return nil, fmt.Errorf("invalid late-after time %q: %w", lateAfter, err)
	}
	halfDayHours := opts.HalfDayHours
	if halfDayHours <= 0 {
		halfDayHours = params.AttendanceHalfDayHours
	}
	return &AttendanceService{
		repo:         repo,
		users:        users,
		loc:          loc,
		lateHour:     cutoff.Hour(),
		lateMinute:   cutoff.Minute(),
		halfDayHours: halfDayHours,
		now:          time.Now,
	}, nil
}
