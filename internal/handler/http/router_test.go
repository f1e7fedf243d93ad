package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/planilla-backend-go/internal/config"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/payslip"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite/sqlitetest"
	absenceService "github.com/cmlabs-hris/planilla-backend-go/internal/service/absence"
	authService "github.com/cmlabs-hris/planilla-backend-go/internal/service/auth"
	contractorService "github.com/cmlabs-hris/planilla-backend-go/internal/service/contractor"
	debtService "github.com/cmlabs-hris/planilla-backend-go/internal/service/debt"
	employeeService "github.com/cmlabs-hris/planilla-backend-go/internal/service/employee"
	employerService "github.com/cmlabs-hris/planilla-backend-go/internal/service/employer"
	payrollService "github.com/cmlabs-hris/planilla-backend-go/internal/service/payroll"
	rosterService "github.com/cmlabs-hris/planilla-backend-go/internal/service/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestUser     = "admin"
	handlerTestPassword = "password123"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		TotalItems int `json:"total_items"`
	} `json:"meta"`
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	set := sqlitetest.NewSet(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")
	employees := employeeService.NewEmployeeService(set.Employees, set.Employers)
	contractors := contractorService.NewContractorService(set.Contractors, set.Employers)
	payrollSvc := payrollService.NewPayrollService(set.Transactor, set.Roster(), set.Payroll, set.Settings, set.Employers, set.Advances)

	handlers := Handlers{
		Auth:       NewAuthHandler(authService.NewAuthService(handlerTestUser, string(hash), jwtSvc)),
		Employer:   NewEmployerHandler(employerService.NewEmployerService(set.Transactor, set.Employers), payrollSvc),
		Employee:   NewEmployeeHandler(employees),
		Contractor: NewContractorHandler(contractors),
		Absence:    NewAbsenceHandler(absenceService.NewAbsenceService(set.Transactor, set.Absences, set.Employees, set.Employers)),
		Debt:       NewDebtHandler(debtService.NewDebtService(set.Transactor, set.Loans, set.Advances, set.Employees, set.Employers)),
		Payroll:    NewPayrollHandler(payrollSvc),
		Roster:     NewRosterHandler(rosterService.NewRosterService(set.Employers, employees, contractors)),
	}

	app := config.AppConfig{Name: "planilla-test", Version: "test", Env: "test"}
	cors := config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	server := httptest.NewServer(NewRouter(app, cors, jwtSvc, handlers))
	t.Cleanup(server.Close)

	return &testServer{t: t, server: server}
}

func (s *testServer) do(method, path string, body interface{}) *http.Response {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func (s *testServer) login() {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": handlerTestUser,
		"password": handlerTestPassword,
	})
	require.Equal(s.t, http.StatusOK, resp.StatusCode)

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(decodeEnvelope(s.t, resp).Data, &token))
	require.NotEmpty(s.t, token.AccessToken)
	s.token = token.AccessToken
}

// create posts body and returns the id of the created resource.
func (s *testServer) create(path string, body interface{}) string {
	s.t.Helper()
	resp := s.do(http.MethodPost, path, body)
	env := decodeEnvelope(s.t, resp)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, "%+v", env.Error)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Auth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(http.MethodGet, "/api/v1/employers", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": handlerTestUser, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": handlerTestUser})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "password")

	s.login()
	resp = s.do(http.MethodGet, "/api/v1/employers", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The revoked token no longer works.
	resp = s.do(http.MethodGet, "/api/v1/employers", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_EmployerLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login()

	employerID := s.create("/api/v1/employers", map[string]string{
		"name":   "Textiles Andinos SAC",
		"ruc":    "20123456789",
		"regime": "general",
	})

	resp := s.do(http.MethodPost, "/api/v1/employers", map[string]string{
		"name":   "Otra SAC",
		"ruc":    "20123456789",
		"regime": "general",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/v1/employers", map[string]string{"name": "Sin RUC", "regime": "general"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/employers", nil)
	env := decodeEnvelope(t, resp)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalItems)

	resp = s.do(http.MethodGet, "/api/v1/employers/"+employerID+"/regime-summary", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodPut, "/api/v1/employers/"+employerID+"/settings", map[string]string{"contractor_rate": "0.10"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/employers/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = s.do(http.MethodGet, "/api/v1/employers/0190a1b2-3c4d-7e5f-8a6b-7c8d9e0f1a2b", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(http.MethodDelete, "/api/v1/employers/"+employerID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_PayrollFlow(t *testing.T) {
	s := newTestServer(t)
	s.login()

	employerID := s.create("/api/v1/employers", map[string]string{
		"name":   "Textiles Andinos SAC",
		"ruc":    "20123456789",
		"regime": "general",
	})
	base := "/api/v1/employers/" + employerID

	employeeID := s.create(base+"/employees", map[string]string{
		"first_name":   "Ana",
		"last_name":    "Quispe",
		"dni":          "41234567",
		"base_salary":  "3000",
		"hire_date":    "2022-03-01",
		"bank_name":    "BCP",
		"bank_account": "191-41234567",
	})
	s.create(base+"/contractors", map[string]string{
		"first_name":  "Luis",
		"last_name":   "Huamán",
		"dni":         "70000001",
		"monthly_fee": "2000",
		"start_date":  "2024-01-01",
	})

	// An employee is only reachable through its own employer.
	other := s.create("/api/v1/employers", map[string]string{"name": "Otra SAC", "ruc": "20999999991", "regime": "small-business"})
	resp := s.do(http.MethodGet, "/api/v1/employers/"+other+"/employees/"+employeeID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	s.create("/api/v1/employees/"+employeeID+"/advances", map[string]interface{}{
		"amount":       "200",
		"issued_on":    "2024-07-01",
		"target_month": 7,
		"target_year":  2024,
	})

	period := map[string]int{"period_month": 7, "period_year": 2024}
	resp = s.do(http.MethodPost, base+"/payroll/preview", period)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview struct {
		Totals struct {
			EmployeeCount   int    `json:"employee_count"`
			ContractorCount int    `json:"contractor_count"`
			Net             string `json:"net"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &preview))
	assert.Equal(t, 1, preview.Totals.EmployeeCount)
	assert.Equal(t, 1, preview.Totals.ContractorCount)
	assert.Equal(t, "10494.25", preview.Totals.Net)

	resp = s.do(http.MethodPost, base+"/payroll/preview", map[string]int{"period_month": 13, "period_year": 2024})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(http.MethodPost, base+"/payroll/runs", period)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var committed struct {
		Run struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"run"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &committed))
	runID := committed.Run.ID
	assert.Equal(t, "draft", committed.Run.Status)

	resp = s.do(http.MethodPost, base+"/payroll/runs", period)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(http.MethodGet, base+"/payroll/runs?year=2024", nil)
	env := decodeEnvelope(t, resp)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalItems)

	resp = s.do(http.MethodGet, "/api/v1/payroll/runs/"+runID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Records []struct {
			ID         string `json:"id"`
			PersonKind string `json:"person_kind"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &detail))
	require.Len(t, detail.Records, 2)

	resp = s.do(http.MethodGet, "/api/v1/payroll/runs/"+runID+"/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, spreadsheet.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "planilla_20123456789_2024-07.xlsx")

	for _, rec := range detail.Records {
		resp = s.do(http.MethodGet, "/api/v1/payroll/records/"+rec.ID+"/payslip", nil)
		if rec.PersonKind == "employee" {
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, payslip.ContentType, resp.Header.Get("Content-Type"))
		} else {
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		}
	}

	resp = s.do(http.MethodPost, "/api/v1/payroll/runs/"+runID+"/pay", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(http.MethodDelete, "/api/v1/payroll/runs/"+runID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/payroll/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_AbsencesAndDebts(t *testing.T) {
	s := newTestServer(t)
	s.login()

	employerID := s.create("/api/v1/employers", map[string]string{
		"name":   "Textiles Andinos SAC",
		"ruc":    "20123456789",
		"regime": "general",
	})
	employeeID := s.create("/api/v1/employers/"+employerID+"/employees", map[string]string{
		"first_name":  "Ana",
		"last_name":   "Quispe",
		"dni":         "41234567",
		"base_salary": "3000",
		"hire_date":   "2022-03-01",
	})
	emp := "/api/v1/employees/" + employeeID

	absenceID := s.create(emp+"/absences", map[string]string{"date": "2024-07-03", "kind": "unexcused-absence"})
	resp := s.do(http.MethodPost, emp+"/absences", map[string]string{"date": "2024-07-03", "kind": "unexcused-absence"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(http.MethodPut, "/api/v1/absences/"+absenceID+"/excuse", map[string]string{"reason": "cita médica"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodGet, emp+"/absences?month=7&year=2024", nil)
	env := decodeEnvelope(t, resp)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalItems)

	resp = s.do(http.MethodGet, emp+"/absences?month=july&year=2024", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/employers/"+employerID+"/absences/summary?month=7&year=2024", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(http.MethodGet, "/api/v1/employers/"+employerID+"/absences/stats?year=2024", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodDelete, "/api/v1/absences/"+absenceID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	loanID := s.create(emp+"/loans", map[string]interface{}{
		"principal":         "600",
		"installment_count": 6,
		"issued_on":         "2024-07-01",
	})

	// 3000 * 30% = 900 of capacity; 100 is already committed.
	resp = s.do(http.MethodGet, emp+"/payment-capacity?principal=12000&installment_count=12", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var capacity struct {
		CanBorrow bool `json:"can_borrow"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &capacity))
	assert.False(t, capacity.CanBorrow)

	resp = s.do(http.MethodPost, "/api/v1/loans/"+loanID+"/payments", map[string]string{"amount": "600", "paid_on": "2024-07-31"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(http.MethodPost, "/api/v1/loans/"+loanID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(http.MethodGet, emp+"/debts", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(http.MethodGet, "/api/v1/employers/"+employerID+"/debts", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Roster(t *testing.T) {
	s := newTestServer(t)
	s.login()

	employerID := s.create("/api/v1/employers", map[string]string{
		"name":   "Textiles Andinos SAC",
		"ruc":    "20123456789",
		"regime": "general",
	})
	base := "/api/v1/employers/" + employerID + "/roster"

	resp := s.do(http.MethodGet, base+"/template", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var template bytes.Buffer
	_, err := template.ReadFrom(resp.Body)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "plantilla.xlsx")
	require.NoError(t, err)
	_, err = part.Write(template.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.server.URL+base+"/import", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	resp, err = s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		EmployeesCreated   int `json:"employees_created"`
		ContractorsCreated int `json:"contractors_created"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &result))
	assert.Equal(t, 1, result.EmployeesCreated)
	assert.Equal(t, 1, result.ContractorsCreated)

	resp = s.do(http.MethodPost, base+"/import", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, fmt.Sprintf("/api/v2/%s", "nothing"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
