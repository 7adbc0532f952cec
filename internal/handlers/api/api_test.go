package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/khanghh/kattend/internal/attendance"
	"github.com/khanghh/kattend/internal/audit"
	"github.com/khanghh/kattend/internal/auth"
	"github.com/khanghh/kattend/internal/config"
	"github.com/khanghh/kattend/internal/database"
	"github.com/khanghh/kattend/internal/middlewares"
	"github.com/khanghh/kattend/internal/middlewares/authgate"
	"github.com/khanghh/kattend/internal/users"
	"github.com/khanghh/kattend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret    = "0123456789abcdef0123456789abcdef"
	chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

type testServer struct {
	app     *fiber.App
	history audit.LoginHistoryRepository
	users   *users.UserService
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Count   *int            `json:"count"`
	Stats   *LoginStats     `json:"stats"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Dsn: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	var (
		userService    = users.NewUserService(users.NewUserRepository(db), bcrypt.MinCost)
		historyRepo    = audit.NewLoginHistoryRepository(db)
		tokens         = auth.NewTokenIssuer(testSecret, time.Hour, "kattend")
		authService    = auth.NewAuthService(userService, audit.NewRecorder(historyRepo), tokens)
		historyService = audit.NewHistoryService(historyRepo, userService, time.UTC)
	)
	attendanceService, err := attendance.NewAttendanceService(attendance.NewAttendanceRepository(db), userService, attendance.Options{Location: time.UTC})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Use(requestid.New())
	Register(app.Group("/api"), Routes{
		Auth:         NewAuthHandler(authService, userService),
		LoginHistory: NewLoginHistoryHandler(historyService),
		Attendance:   NewAttendanceHandler(attendanceService),
		AccessGate:   authgate.New(authgate.Config{Tokens: tokens, Users: userService}),
	})
	return &testServer{app: app, history: historyRepo, users: userService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *testServer) records(t *testing.T) []*model.LoginHistory {
	t.Helper()
	records, err := s.history.Find(t.Context(), audit.Filter{})
	require.NoError(t, err)
	return records
}

func (s *testServer) register(t *testing.T, name, email string, role model.Role) (string, Profile) {
	t.Helper()
	status, env := s.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":       name,
		"email":      email,
		"password":   "secret123",
		"department": "Engineering",
		"role":       role,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var profile Profile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	return env.Token, profile
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	token, profile := srv.register(t, "Jane Doe", "Jane@Example.com", "")
	assert.NotEmpty(t, token)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, model.RoleEmployee, profile.Role)
	assert.Equal(t, "EMP0001", profile.EmployeeID)
	assert.NotEmpty(t, profile.ID)

	status, env := srv.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Other", "email": "jane@example.com", "password": "secret123",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, MsgEmailRegistered, env.Message)

	status, env = srv.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Bad", "email": "not-an-email", "password": "123", "role": "admin",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgValidationFailed, env.Message)
	assert.Contains(t, env.Errors, "email is email")
	assert.Contains(t, env.Errors, "password is min=6")
	assert.Contains(t, env.Errors, "role is oneof=employee manager")

	count, err := srv.users.CountUsers(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, srv.records(t), "registration writes no login history")
}

func TestRegister_MultibytePasswordTooLong(t *testing.T) {
	srv := newTestServer(t)

	status, env := srv.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Jane", "email": "jane@example.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgPasswordTooLong, env.Message)
	assert.Empty(t, env.Token)
}

func TestLogin_OversizedInputIsClipped(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.do(t, fiber.MethodPost, "/api/auth/login", "",
		fiber.Map{"email": strings.Repeat("x", 300) + "@example.com", "password": "secret123"},
		fiber.HeaderUserAgent, strings.Repeat("Mozilla ", 75),
	)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	records := srv.records(t)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Email, model.LoginHistoryEmailSize)
	assert.Len(t, records[0].UserAgent, model.LoginHistoryUserAgentSize)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	_, profile := srv.register(t, "Jane Doe", "jane@example.com", model.RoleEmployee)

	status, env := srv.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "jane@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgMissingCredentials, env.Message)
	assert.Empty(t, srv.records(t), "validation errors are not login attempts")

	status, env = srv.do(t, fiber.MethodPost, "/api/auth/login", "",
		fiber.Map{"email": "jane@example.com", "password": "wrong"},
		"X-Forwarded-For", "10.0.0.5, 203.0.113.7, 192.168.1.1",
		fiber.HeaderUserAgent, chromeWindows,
	)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, MsgInvalidCredentials, env.Message)
	assert.Empty(t, env.Token)

	status, unknown := srv.do(t, fiber.MethodPost, "/api/auth/login", "",
		fiber.Map{"email": "ghost@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, env.Message, unknown.Message, "unknown email and wrong password are indistinguishable")

	status, env = srv.do(t, fiber.MethodPost, "/api/auth/login", "",
		fiber.Map{"email": "JANE@example.com", "password": "secret123"},
		"CF-Connecting-IP", "198.51.100.20",
		"CF-IPCountry", "vn",
	)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Token)
	var loggedIn Profile
	require.NoError(t, json.Unmarshal(env.Data, &loggedIn))
	assert.Equal(t, profile.ID, loggedIn.ID)

	records := srv.records(t)
	require.Len(t, records, 3)
	byStatus := map[model.LoginStatus][]*model.LoginHistory{}
	for _, r := range records {
		byStatus[r.Status] = append(byStatus[r.Status], r)
		assert.NotEmpty(t, r.RequestID)
	}
	require.Len(t, byStatus[model.LoginStatusFailed], 2)
	require.Len(t, byStatus[model.LoginStatusSuccess], 1)

	success := byStatus[model.LoginStatusSuccess][0]
	assert.Equal(t, "198.51.100.20", success.IPAddress)
	assert.Equal(t, "VN", success.Location)
	assert.NotEmpty(t, success.UserAgent)

	for _, failed := range byStatus[model.LoginStatusFailed] {
		if failed.Email == "jane@example.com" {
			assert.Equal(t, "203.0.113.7", failed.IPAddress)
			assert.Equal(t, "Chrome", failed.Browser)
			assert.Equal(t, "Windows PC", failed.Device)
			require.NotNil(t, failed.UserID)
		} else {
			assert.Equal(t, "ghost@example.com", failed.Email)
			assert.Nil(t, failed.UserID)
		}
	}
}

func TestMeAndProfile(t *testing.T) {
	srv := newTestServer(t)
	token, _ := srv.register(t, "Jane Doe", "jane@example.com", "")

	status, env := srv.do(t, fiber.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, env = srv.do(t, fiber.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Jane Doe", me["name"])
	assert.NotContains(t, me, "password")

	status, env = srv.do(t, fiber.MethodPut, "/api/auth/profile", token, fiber.Map{"phone": "+84 123 456", "avatar": "https://example.com/a.png"})
	require.Equal(t, fiber.StatusOK, status)
	var updated Profile
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, "+84 123 456", updated.Phone)
	assert.Equal(t, "https://example.com/a.png", updated.Avatar)

	status, env = srv.do(t, fiber.MethodPut, "/api/auth/profile", token, fiber.Map{"name": "  "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgNameEmpty, env.Message)
}

func TestLoginHistory(t *testing.T) {
	srv := newTestServer(t)
	managerToken, _ := srv.register(t, "Boss", "boss@example.com", model.RoleManager)
	employeeToken, employee := srv.register(t, "Jane Doe", "jane@example.com", model.RoleEmployee)

	srv.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "jane@example.com", "password": "secret123"})
	srv.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "jane@example.com", "password": "nope"})
	srv.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "ghost@example.com", "password": "nope"})
	srv.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "boss@example.com", "password": "secret123"})

	status, env := srv.do(t, fiber.MethodGet, "/api/auth/login-history", employeeToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.False(t, env.Success)
	assert.Empty(t, env.Data)

	status, env = srv.do(t, fiber.MethodGet, "/api/auth/login-history", managerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, env.Count)
	assert.Equal(t, 4, *env.Count)
	require.NotNil(t, env.Stats)
	assert.Equal(t, LoginStats{TotalLogins: 2, FailedLogins: 2, TodayLogins: 2}, *env.Stats)

	var items []LoginHistoryItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 4)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].LoginTime.After(items[i-1].LoginTime))
	}

	status, env = srv.do(t, fiber.MethodGet, "/api/auth/login-history?status=failed&userId="+employee.ID+"&limit=10", managerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, model.LoginStatusFailed, items[0].Status)
	require.NotNil(t, items[0].User)
	assert.Equal(t, "Jane Doe", items[0].User.Name)
	assert.Equal(t, "EMP0002", items[0].User.EmployeeID)
	assert.Equal(t, LoginStats{TotalLogins: 2, FailedLogins: 2, TodayLogins: 2}, *env.Stats, "stats ignore filters")

	status, env = srv.do(t, fiber.MethodGet, "/api/auth/login-history?status=blocked", managerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgInvalidStatus, env.Message)

	status, env = srv.do(t, fiber.MethodGet, "/api/auth/login-history?limit=ten", managerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgInvalidLimit, env.Message)

	status, env = srv.do(t, fiber.MethodGet, "/api/auth/my-login-history", employeeToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotNil(t, item.UserID)
		assert.Equal(t, employee.ID, *item.UserID)
	}
}

func TestAttendance(t *testing.T) {
	srv := newTestServer(t)
	managerToken, _ := srv.register(t, "Boss", "boss@example.com", model.RoleManager)
	employeeToken, _ := srv.register(t, "Jane Doe", "jane@example.com", model.RoleEmployee)

	status, env := srv.do(t, fiber.MethodGet, "/api/attendance/today", employeeToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var today AttendanceItem
	require.NoError(t, json.Unmarshal(env.Data, &today))
	assert.Equal(t, model.AttendanceNotCheckedIn, today.Status)
	assert.Nil(t, today.CheckInTime)

	status, env = srv.do(t, fiber.MethodPost, "/api/attendance/check-out", employeeToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgNotCheckedIn, env.Message)

	status, env = srv.do(t, fiber.MethodPost, "/api/attendance/check-in", employeeToken, nil)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, MsgCheckedIn, env.Message)

	status, env = srv.do(t, fiber.MethodPost, "/api/attendance/check-in", employeeToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgAlreadyCheckedIn, env.Message)

	status, env = srv.do(t, fiber.MethodPost, "/api/attendance/check-out", employeeToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var record AttendanceItem
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.NotNil(t, record.CheckOutTime)
	assert.Equal(t, model.AttendanceHalfDay, record.Status)

	status, env = srv.do(t, fiber.MethodGet, "/api/attendance/my-history?limit=5", employeeToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	status, _ = srv.do(t, fiber.MethodGet, "/api/attendance/summary", employeeToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = srv.do(t, fiber.MethodGet, "/api/attendance/summary", managerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var summary AttendanceSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, int64(2), summary.TotalEmployees)
	assert.Equal(t, int64(1), summary.PresentToday)
	assert.Equal(t, int64(1), summary.AbsentToday)
	assert.Equal(t, int64(1), summary.HalfDayToday)

	status, env = srv.do(t, fiber.MethodGet, "/api/attendance/summary?date=yesterday", managerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, MsgInvalidDate, env.Message)
}
