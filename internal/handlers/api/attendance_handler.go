package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kattend/internal/attendance"
	"github.com/khanghh/kattend/internal/middlewares/authgate"
	"github.com/khanghh/kattend/model"
	"github.com/spf13/cast"
)

type AttendanceHandler struct {
	attendanceService AttendanceService
}

func attendanceError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgAlreadyCheckedIn))
	case errors.Is(err, attendance.ErrNotCheckedIn):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgNotCheckedIn))
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgAlreadyCheckedOut))
	case errors.Is(err, attendance.ErrInvalidDate):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidDate))
	}
	return err
}

func sendAttendance(ctx *fiber.Ctx, status int, message string, record *model.Attendance) error {
	return ctx.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    NewAttendanceItem(record),
	})
}

func (h *AttendanceHandler) PostCheckIn(ctx *fiber.Ctx) error {
	user := authgate.CurrentUser(ctx)
	record, err := h.attendanceService.CheckIn(ctx.Context(), user.ID)
	if err != nil {
		return attendanceError(ctx, err)
	}
	return sendAttendance(ctx, fiber.StatusCreated, MsgCheckedIn, record)
}

func (h *AttendanceHandler) PostCheckOut(ctx *fiber.Ctx) error {
	user := authgate.CurrentUser(ctx)
	record, err := h.attendanceService.CheckOut(ctx.Context(), user.ID)
	if err != nil {
		return attendanceError(ctx, err)
	}
	return sendAttendance(ctx, fiber.StatusOK, MsgCheckedOut, record)
}

func (h *AttendanceHandler) GetToday(ctx *fiber.Ctx) error {
	user := authgate.CurrentUser(ctx)
	today, err := h.attendanceService.Today(ctx.Context(), user.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(NewTodayItem(today)))
}

func (h *AttendanceHandler) GetMyHistory(ctx *fiber.Ctx) error {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		var err error
		if limit, err = cast.ToIntE(raw); err != nil || limit < 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidLimit))
		}
	}
	user := authgate.CurrentUser(ctx)
	records, err := h.attendanceService.History(ctx.Context(), user.ID, limit)
	if err != nil {
		return err
	}
	items := make([]AttendanceItem, 0, len(records))
	for _, record := range records {
		items = append(items, NewAttendanceItem(record))
	}
	return ctx.JSON(NewListResponse(items))
}

func (h *AttendanceHandler) GetSummary(ctx *fiber.Ctx) error {
	summary, err := h.attendanceService.Summary(ctx.Context(), ctx.Query("date"))
	if err != nil {
		return attendanceError(ctx, err)
	}
	return ctx.JSON(NewDataResponse(AttendanceSummary{
		Date:           summary.Date,
		TotalEmployees: summary.TotalEmployees,
		PresentToday:   summary.Present,
		LateToday:      summary.Late,
		HalfDayToday:   summary.HalfDay,
		AbsentToday:    summary.Absent,
	}))
}

func NewAttendanceHandler(attendanceService AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}
