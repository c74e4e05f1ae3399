package http

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/hris-payroll-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	recapService "github.com/cmlabs-hris/hris-payroll-go/internal/service/recap"
	sessionService "github.com/cmlabs-hris/hris-payroll-go/internal/service/session"
)

const handlerTestSecret = "test-secret-key-for-jwt"

var office = geo.Point{Latitude: -6.2000, Longitude: 106.8166}

type testServer struct {
	t       *testing.T
	handler http.Handler
	jwt     jwt.Service
	admin   string
	owner   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	attendances := memory.NewAttendanceRepository(store)
	leaves := memory.NewLeaveRequestRepository(store)
	workSessions := memory.NewWorkSessionRepository(store)
	realizations := memory.NewRealizationRepository(store)
	recaps := memory.NewRecapRepository(store)

	files, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	fileSvc := file.NewFileService(files)

	attendanceSvc := attendanceService.NewAttendanceService(store, attendances, employees, fileSvc, attendanceService.Geofence{
		Reference: office,
		Band:      geo.Band{Min: 0, Max: 100},
	})
	payrollSvc := payrollService.NewPayrollService(store, memory.NewPayrollRepository(store), recaps, employees,
		messaging.NewLogPublisher(nil), payroll.Policy{StandardWorkingDays: 22})

	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")
	router := NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, jwtSvc, Handlers{
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(employees)),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(store, leaves, employees, attendanceSvc)),
		Session:    NewSessionHandler(sessionService.NewSessionService(store, workSessions, realizations, employees)),
		Recap:      NewRecapHandler(recapService.NewRecapService(store, recaps, employees, attendances, leaves, realizations)),
		Payroll:    NewPayrollHandler(payrollSvc, fileSvc),
	})

	s := &testServer{t: t, handler: router, jwt: jwtSvc}
	s.admin = s.token("u-admin", "", user.RoleAdmin)
	s.owner = s.token("u-owner", "", user.RoleOwner)
	return s
}

func (s *testServer) token(userID, employeeID string, role user.Role) string {
	s.t.Helper()
	var empID *string
	if employeeID != "" {
		empID = &employeeID
	}
	token, _, err := s.jwt.GenerateAccessToken(userID, empID, role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func (s *testServer) createEmployee(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/employees", s.admin, map[string]interface{}{
		"name": "Rina", "email": email,
		"employment_type": "permanent", "pay_type": "monthly", "base_salary": "12000000",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(s.t, w).Data["id"].(string)
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/employees", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/employees", s.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	empID := s.createEmployee("rina@example.com")
	employeeToken := s.token("u-rina", empID, user.RoleEmployee)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
		code   string
	}{
		{
			name: "forbidden", method: http.MethodPost, path: "/api/v1/employees", token: employeeToken,
			body:   map[string]interface{}{"name": "X", "email": "x@example.com", "employment_type": "contract", "pay_type": "per_session"},
			status: http.StatusForbidden, code: "INSUFFICIENT_PERMISSIONS",
		},
		{
			name: "conflict", method: http.MethodPost, path: "/api/v1/employees", token: s.admin,
			body:   map[string]interface{}{"name": "R", "email": "RINA@example.com", "employment_type": "contract", "pay_type": "per_session"},
			status: http.StatusConflict, code: "EMPLOYEE_EMAIL_EXISTS",
		},
		{
			name: "validation", method: http.MethodPost, path: "/api/v1/employees", token: s.admin,
			body:   map[string]interface{}{"name": "", "email": "bad"},
			status: http.StatusUnprocessableEntity, code: "VALIDATION_ERROR",
		},
		{
			name: "event without coordinates", method: http.MethodPost, path: "/api/v1/attendance/events", token: employeeToken,
			body: map[string]interface{}{
				"employee_id": empID, "date": "2025-03-03", "kind": "check_in", "source": "mobile",
				"occurred_at": "2025-03-03T08:00:00Z",
			},
			status: http.StatusUnprocessableEntity, code: "VALIDATION_ERROR",
		},
		{
			name: "not found", method: http.MethodGet, path: "/api/v1/payrolls/missing", token: s.admin,
			status: http.StatusNotFound, code: "PAYROLL_NOT_FOUND",
		},
		{
			name: "bad body", method: http.MethodPost, path: "/api/v1/leave-requests", token: employeeToken,
			status: http.StatusBadRequest, code: "BAD_REQUEST",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestRouter_AttendanceEvents(t *testing.T) {
	s := newTestServer(t)
	empID := s.createEmployee("rina@example.com")
	employeeToken := s.token("u-rina", empID, user.RoleEmployee)

	event := map[string]interface{}{
		"employee_id": empID, "date": "2025-03-03", "kind": "check_in",
		"latitude": office.Latitude, "longitude": office.Longitude, "source": "mobile",
		"occurred_at": "2025-03-03T08:45:00Z",
	}
	w := s.do(http.MethodPost, "/api/v1/attendance/events", employeeToken, event)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Attendance event recorded", decode(t, w).Message)

	w = s.do(http.MethodPost, "/api/v1/attendance/events", employeeToken, event)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_EVENT", decode(t, w).Error.Code)

	// check-out with a selfie, far outside the band
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	data, err := json.Marshal(map[string]interface{}{
		"employee_id": empID, "date": "2025-03-03", "kind": "check_out",
		"latitude": -6.3, "longitude": 106.9, "source": "mobile",
		"occurred_at": "2025-03-03T17:10:00Z",
	})
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("data", string(data)))
	part, err := mw.CreateFormFile("selfie", "selfie.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/events", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+employeeToken)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decode(t, rec)
	assert.Equal(t, "Attendance event recorded outside the allowed area", env.Message)
	log := env.Data["log"].(map[string]interface{})
	assert.NotEmpty(t, log["selfie_ref"])
	att := env.Data["attendance"].(map[string]interface{})
	assert.EqualValues(t, 505, att["work_hours_in_minutes"])
}

func TestRouter_LeaveRecapPayrollFlow(t *testing.T) {
	s := newTestServer(t)
	empID := s.createEmployee("rina@example.com")
	employeeToken := s.token("u-rina", empID, user.RoleEmployee)

	w := s.do(http.MethodPost, "/api/v1/leave-requests", employeeToken, map[string]interface{}{
		"employee_id": empID, "date": "2025-03-04", "kind": "leave",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	leaveID := decode(t, w).Data["id"].(string)

	w = s.do(http.MethodPost, "/api/v1/leave-requests/"+leaveID+"/approve", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/leave-requests/"+leaveID+"/approve", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", decode(t, w).Data["status"])

	w = s.do(http.MethodPost, "/api/v1/recaps/aggregate", s.admin, map[string]interface{}{
		"employee_id": empID, "period": "2025-03",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rc := decode(t, w).Data
	assert.EqualValues(t, 1, rc["leave_days"])

	w = s.do(http.MethodGet, "/api/v1/recaps/export?period=2025-03", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = s.do(http.MethodPost, "/api/v1/payrolls/generate", s.admin, map[string]interface{}{"recap_id": rc["id"]})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode(t, w).Data
	assert.Equal(t, "11454545", p["total"])
	payrollID := p["id"].(string)

	w = s.do(http.MethodPost, "/api/v1/payrolls/"+payrollID+"/approve", s.admin, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/payrolls/"+payrollID+"/approve", s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/payrolls/"+payrollID+"/payments", s.admin, map[string]interface{}{
		"transfer_date": "2025-04-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	paymentID := decode(t, w).Data["id"].(string)

	w = s.do(http.MethodPut, "/api/v1/payrolls/payments/"+paymentID, s.admin, map[string]interface{}{"status": "success"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "success", decode(t, w).Data["status"])

	w = s.do(http.MethodGet, "/api/v1/payrolls/"+payrollID+"/payslip", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}
