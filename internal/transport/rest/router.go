package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/peopleops/hr-platform/internal/auth"
	"github.com/peopleops/hr-platform/internal/chat"
	"github.com/peopleops/hr-platform/internal/department"
	"github.com/peopleops/hr-platform/internal/document"
	"github.com/peopleops/hr-platform/internal/employee"
	"github.com/peopleops/hr-platform/internal/expense"
	"github.com/peopleops/hr-platform/internal/leave"
	"github.com/peopleops/hr-platform/internal/notification"
	"github.com/peopleops/hr-platform/internal/promotion"
	"github.com/peopleops/hr-platform/internal/transport/middleware"
	"github.com/peopleops/hr-platform/internal/transport/swagger"
	"github.com/peopleops/hr-platform/internal/user"
)

// Handlers collects every mounted handler. Nil entries are skipped so a
// deployment can run without optional surfaces (chat, documents).
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Employee     *employee.Handler
	Department   *department.Handler
	Leave        *leave.Handler
	Expense      *expense.Handler
	Promotion    *promotion.Handler
	Document     *document.Handler
	Notification *notification.Handler
	Chat         *chat.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, guard *middleware.Guard, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.Me)

				pr.Group(func(ar chi.Router) {
					ar.Use(guard.RequireCreateUsers())
					ar.Post("/users", h.User.CreateUser)
					ar.Get("/users", h.User.ListUsers)
					ar.Patch("/users/{id}/active", h.User.SetActive)
				})
				pr.Group(func(ar chi.Router) {
					ar.Use(guard.RequireManageRoles())
					ar.Patch("/users/{id}/role", h.User.SetRole)
				})
			}

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/", h.Employee.ListEmployees)
					er.Get("/{id}", h.Employee.GetEmployee)

					if h.Leave != nil {
						er.Get("/{id}/leave-balances", h.Leave.GetBalances)
					}
					if h.Document != nil {
						er.Get("/{id}/documents", h.Document.ListForEmployee)
					}
					if h.Promotion != nil {
						er.Get("/{id}/role-history", h.Promotion.GetRoleHistory)
					}

					er.Group(func(mr chi.Router) {
						mr.Use(guard.RequireManageEmployees())
						mr.Post("/", h.Employee.CreateEmployee)
						mr.Patch("/{id}", h.Employee.UpdateEmployee)
						mr.Patch("/{id}/status", h.Employee.SetStatus)
						mr.Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
					})
				})
			}

			if h.Department != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.Get("/", h.Department.ListDepartments)
					dr.Get("/{id}", h.Department.GetDepartment)

					dr.Group(func(mr chi.Router) {
						mr.Use(guard.RequireManageDepartments())
						mr.Post("/", h.Department.CreateDepartment)
						mr.Patch("/{id}", h.Department.UpdateDepartment)
						mr.Get("/{id}/succession/candidates", h.Department.GetSuccessionCandidates)
						mr.Post("/{id}/succession", h.Department.ResolveSuccession)
					})
				})
			}

			if h.Leave != nil {
				pr.Route("/leave-requests", func(lr chi.Router) {
					lr.Post("/", h.Leave.SubmitLeave)
					lr.Get("/", h.Leave.ListRequests)
					lr.Get("/{id}", h.Leave.GetRequest)

					lr.Group(func(mr chi.Router) {
						mr.Use(guard.RequireManagerStage())
						mr.Patch("/{id}/approve", h.Leave.ApproveLeave)
						mr.Patch("/{id}/reject", h.Leave.RejectLeave)
					})
				})
			}

			if h.Expense != nil {
				pr.Route("/expense-requests", func(er chi.Router) {
					er.Post("/", h.Expense.SubmitExpense)
					er.Get("/", h.Expense.ListRequests)
					er.Get("/{id}", h.Expense.GetRequest)

					er.Group(func(mr chi.Router) {
						mr.Use(guard.RequireManagerStage())
						mr.Patch("/{id}/manager-approve", h.Expense.ApproveManagerStage)
						mr.Patch("/{id}/manager-reject", h.Expense.RejectManagerStage)
					})
					er.Group(func(hr chi.Router) {
						hr.Use(guard.RequireHRStage())
						hr.Patch("/{id}/hr-approve", h.Expense.ApproveHRStage)
						hr.Patch("/{id}/hr-reject", h.Expense.RejectHRStage)
					})
				})
			}

			if h.Promotion != nil {
				pr.Route("/promotions", func(pmr chi.Router) {
					pmr.Get("/", h.Promotion.ListRequests)
					pmr.Get("/{id}", h.Promotion.GetRequest)

					pmr.Group(func(mr chi.Router) {
						mr.Use(guard.RequireManagerStage())
						mr.Post("/", h.Promotion.SubmitPromotion)
					})
					pmr.Group(func(ar chi.Router) {
						ar.Use(guard.RequireManageRoles())
						ar.Patch("/{id}/approve", h.Promotion.ApprovePromotion)
						ar.Patch("/{id}/reject", h.Promotion.RejectPromotion)
					})
				})
			}

			if h.Document != nil {
				pr.Route("/documents", func(dr chi.Router) {
					dr.Post("/receipts", h.Document.UploadReceipt)
					dr.Post("/medical-certificates", h.Document.UploadMedicalCertificate)
					dr.Get("/{id}/content", h.Document.Download)
				})
			}

			if h.Notification != nil {
				pr.Route("/notifications", func(nr chi.Router) {
					nr.Get("/", h.Notification.ListMine)
					nr.Patch("/{id}/read", h.Notification.MarkRead)
					nr.Post("/read-all", h.Notification.MarkAllRead)
				})
			}

			if h.Chat != nil {
				pr.Route("/chat", func(cr chi.Router) {
					cr.Post("/token", h.Chat.GetToken)
					cr.Post("/channels", h.Chat.OpenChannel)
				})
			}
		})
	})
}
