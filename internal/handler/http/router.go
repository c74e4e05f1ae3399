package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Logger receives ECS-formatted access logs.
	Logger   *slog.Logger
	LogLevel slog.Level
}

type Handlers struct {
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Session    SessionHandler
	Recap      RecapHandler
	Payroll    PayrollHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.Authenticate)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.Employee.ListEmployees)
			r.Get("/{id}", h.Employee.GetEmployee)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
				r.Post("/", h.Employee.CreateEmployee)
				r.Put("/{id}", h.Employee.UpdateEmployee)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/events", h.Attendance.RecordEvent)
			r.Get("/", h.Attendance.List)
			r.Get("/{id}", h.Attendance.Get)
			r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
				Put("/{id}/status", h.Attendance.SetStatus)
		})

		r.Route("/leave-requests", func(r chi.Router) {
			r.Post("/", h.Leave.SubmitRequest)
			r.Get("/", h.Leave.ListRequests)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Leave.GetRequest)
				r.Post("/cancel", h.Leave.CancelRequest)
				r.Post("/cancellation", h.Leave.RequestCancellation)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Post("/approve", h.Leave.ApproveRequest)
					r.Post("/reject", h.Leave.RejectRequest)
					r.Post("/cancellation/approve", h.Leave.ApproveCancellation)
					r.Post("/cancellation/reject", h.Leave.RejectCancellation)
				})
			})
		})

		r.Route("/work-sessions", func(r chi.Router) {
			r.Get("/", h.Session.ListWorkSessions)
			r.Get("/{id}", h.Session.GetWorkSession)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSessionManage))
				r.Post("/", h.Session.CreateWorkSession)
				r.Put("/{id}", h.Session.UpdateWorkSession)
			})
		})

		r.Route("/session-realizations", func(r chi.Router) {
			r.Post("/", h.Session.SubmitRealization)
			r.Get("/", h.Session.ListRealizations)
			r.Get("/{id}", h.Session.GetRealization)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSessionApprove))
				r.Post("/{id}/approve", h.Session.ApproveRealization)
				r.Post("/{id}/reject", h.Session.RejectRealization)
			})
		})

		r.Route("/recaps", func(r chi.Router) {
			r.Get("/", h.Recap.List)
			r.Get("/{id}", h.Recap.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionRecapGenerate))
				r.Post("/aggregate", h.Recap.Aggregate)
				r.Post("/aggregate-all", h.Recap.AggregateAll)
			})
			r.With(middleware.RequirePermission(user.PermissionRecapViewAll)).
				Get("/export", h.Recap.Export)
		})

		r.Route("/payrolls", func(r chi.Router) {
			r.Get("/", h.Payroll.ListPayrolls)
			r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).
				Post("/generate", h.Payroll.GeneratePayroll)
			r.With(middleware.RequirePermission(user.PermissionPayrollPay)).
				Put("/payments/{paymentID}", h.Payroll.UpdatePaymentStatus)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Payroll.GetPayroll)
				r.Get("/payslip", h.Payroll.DownloadPayslip)

				r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).
					Post("/approve", h.Payroll.ApprovePayroll)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollGenerate))
					r.Post("/components", h.Payroll.AddAdjustment)
					r.Delete("/components/{componentID}", h.Payroll.RemoveComponent)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollPay))
					r.Post("/pay", h.Payroll.MarkPaid)
					r.Post("/payments", h.Payroll.RecordPayment)
				})
			})
		})
	})
	return r
}
