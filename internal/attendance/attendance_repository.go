package attendance

import (
	"context"
	"time"

	"github.com/khanghh/kattend/model"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	FindByUserDate(ctx context.Context, userID uint, date string) (*model.Attendance, error)
	FindByUser(ctx context.Context, userID uint, limit int) ([]*model.Attendance, error)
	CountByStatus(ctx context.Context, date string) (map[model.AttendanceStatus]int64, error)
	Create(ctx context.Context, record *model.Attendance) error
	CheckOut(ctx context.Context, id uint, checkOutTime time.Time, workHours float64, status model.AttendanceStatus) (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func (r *attendanceRepository) FindByUserDate(ctx context.Context, userID uint, date string) (*model.Attendance, error) {
	var record model.Attendance
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) FindByUser(ctx context.Context, userID uint, limit int) ([]*model.Attendance, error) {
	var records []*model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *attendanceRepository) CountByStatus(ctx context.Context, date string) (map[model.AttendanceStatus]int64, error) {
	var rows []struct {
		Status model.AttendanceStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Select("status, COUNT(*) AS total").
		Where("date = ?", date).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.AttendanceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *attendanceRepository) Create(ctx context.Context, record *model.Attendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// CheckOut closes an open attendance record, it affects no rows when the
// record was already checked out.
func (r *attendanceRepository) CheckOut(ctx context.Context, id uint, checkOutTime time.Time, workHours float64, status model.AttendanceStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Attendance{}).
		Where("id = ? AND check_out_time IS NULL", id).
		Updates(map[string]interface{}{
			"check_out_time": checkOutTime,
			"work_hours":     workHours,
			"status":         status,
		})
	return result.RowsAffected, result.Error
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}
