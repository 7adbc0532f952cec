package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kattend/internal/audit"
	"github.com/khanghh/kattend/internal/middlewares/authgate"
	"github.com/khanghh/kattend/model"
	"github.com/spf13/cast"
)

type LoginHistoryHandler struct {
	historyService HistoryService
	now            func() time.Time
}

// GetLoginHistory lists login attempts of all users. Stats always cover the
// whole history regardless of the filters.
func (h *LoginHistoryHandler) GetLoginHistory(ctx *fiber.Ctx) error {
	var filter audit.Filter
	if raw := ctx.Query("userId"); raw != "" {
		userID, err := cast.ToUintE(raw)
		if err != nil || userID == 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidUserID))
		}
		filter.UserID = &userID
	}
	filter.Status = model.LoginStatus(ctx.Query("status"))
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := cast.ToIntE(raw)
		if err != nil || limit < 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidLimit))
		}
		filter.Limit = limit
	}

	entries, err := h.historyService.List(ctx.Context(), filter)
	if errors.Is(err, audit.ErrInvalidStatus) {
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidStatus))
	}
	if err != nil {
		return err
	}
	stats, err := h.historyService.Stats(ctx.Context(), h.now())
	if err != nil {
		return err
	}

	items := make([]LoginHistoryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, NewLoginHistoryEntry(entry))
	}
	resp := NewListResponse(items)
	resp.Stats = LoginStats{
		TotalLogins:  stats.TotalLogins,
		FailedLogins: stats.FailedLogins,
		TodayLogins:  stats.TodayLogins,
	}
	return ctx.JSON(resp)
}

func (h *LoginHistoryHandler) GetMyLoginHistory(ctx *fiber.Ctx) error {
	user := authgate.CurrentUser(ctx)
	records, err := h.historyService.ListForUser(ctx.Context(), user.ID)
	if err != nil {
		return err
	}
	items := make([]LoginHistoryItem, 0, len(records))
	for _, record := range records {
		items = append(items, NewLoginHistoryItem(record))
	}
	return ctx.JSON(NewListResponse(items))
}

func NewLoginHistoryHandler(historyService HistoryService) *LoginHistoryHandler {
	return &LoginHistoryHandler{
		historyService: historyService,
		now:            time.Now,
	}
}
