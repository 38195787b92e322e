package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/asset-tracking/api"
	"github.com/frahmantamala/asset-tracking/internal/analysis"
	"github.com/frahmantamala/asset-tracking/internal/auth"
	"github.com/frahmantamala/asset-tracking/internal/calibration"
	"github.com/frahmantamala/asset-tracking/internal/loan"
	"github.com/frahmantamala/asset-tracking/internal/stock"
	"github.com/frahmantamala/asset-tracking/internal/tool"
	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/frahmantamala/asset-tracking/internal/transport/middleware"
	"github.com/frahmantamala/asset-tracking/internal/transport/swagger"
	"github.com/frahmantamala/asset-tracking/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth        *auth.Handler
	User        *user.Handler
	Tool        *tool.Handler
	Loan        *loan.Handler
	Calibration *calibration.Handler
	Stock       *stock.Handler
	Analysis    *analysis.Handler
}

type Options struct {
	AllowedOrigins []string
	// Driver names the store in health reports, e.g. "postgres" or "sqlite".
	Driver string
	Logger *slog.Logger
}

// RegisterAllRoutes mounts the API under /api. Every route except login and
// the health probes needs a session, and the gate decides per operation
// whether a viewer may call it.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, gate *auth.Gate, h Handlers, opts Options) {
	healthHandler := NewHealthHandler(transport.NewBaseHandler(opts.Logger), db, opts.Driver)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.Logger))

	router.Get(swagger.SpecPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Document)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/me", gate.Guard(auth.OpCurrentUser, h.User.GetCurrentUser))

			pr.Route("/tools", func(tr chi.Router) {
				tr.Get("/", gate.Guard(auth.OpToolList, h.Tool.ListTools))
				tr.Post("/", gate.Guard(auth.OpToolCreate, h.Tool.CreateTool))
				tr.Get("/export/excel", gate.Guard(auth.OpToolExport, h.Tool.ExportExcel))
				tr.Put("/{id}", gate.Guard(auth.OpToolUpdate, h.Tool.UpdateTool))
				tr.Delete("/{id}", gate.Guard(auth.OpToolDelete, h.Tool.DeleteTool))
				tr.Post("/{id}/upload-certificate", gate.Guard(auth.OpToolUploadCertificate, h.Tool.UploadCertificate))
				tr.Post("/{id}/upload-manual", gate.Guard(auth.OpToolUploadManual, h.Tool.UploadManual))
				tr.Get("/{id}/download-certificate", gate.Guard(auth.OpToolDownloadCertificate, h.Tool.DownloadCertificate))
				tr.Get("/{id}/download-manual", gate.Guard(auth.OpToolDownloadManual, h.Tool.DownloadManual))
				tr.Get("/{id}/barcode", gate.Guard(auth.OpToolBarcode, h.Tool.Barcode))
			})

			pr.Route("/loans", func(lr chi.Router) {
				lr.Get("/", gate.Guard(auth.OpLoanList, h.Loan.ListLoans))
				lr.Post("/", gate.Guard(auth.OpLoanCreate, h.Loan.CreateLoan))
				lr.Get("/{id}/pdf", gate.Guard(auth.OpLoanPDF, h.Loan.LoanPDF))
			})

			pr.Route("/calibrations", func(cr chi.Router) {
				cr.Get("/", gate.Guard(auth.OpCalibrationList, h.Calibration.ListCalibrations))
				cr.Post("/", gate.Guard(auth.OpCalibrationCreate, h.Calibration.CreateCalibration))
			})

			pr.Route("/stock", func(sr chi.Router) {
				sr.Get("/", gate.Guard(auth.OpStockList, h.Stock.ListStock))
				sr.Post("/", gate.Guard(auth.OpStockCreate, h.Stock.CreateStock))
				sr.Post("/consume", gate.Guard(auth.OpStockConsume, h.Stock.ConsumeStock))
				sr.Put("/{id}", gate.Guard(auth.OpStockUpdate, h.Stock.UpdateStock))
				sr.Delete("/{id}", gate.Guard(auth.OpStockDelete, h.Stock.DeleteStock))
				sr.Post("/{id}/upload-receipt", gate.Guard(auth.OpStockUploadReceipt, h.Stock.UploadReceipt))
				sr.Get("/{id}/download-receipt", gate.Guard(auth.OpStockDownloadReceipt, h.Stock.DownloadReceipt))
			})

			pr.Route("/analysis", func(ar chi.Router) {
				ar.Get("/tools-usage", gate.Guard(auth.OpAnalysisRead, h.Analysis.ToolsUsage))
				ar.Get("/tools-damaged", gate.Guard(auth.OpAnalysisRead, h.Analysis.ToolsDamaged))
				ar.Get("/tools-lost", gate.Guard(auth.OpAnalysisRead, h.Analysis.ToolsLost))
				ar.Get("/stock-requested", gate.Guard(auth.OpAnalysisRead, h.Analysis.StockRequested))
				ar.Get("/stock-purchased", gate.Guard(auth.OpAnalysisRead, h.Analysis.StockPurchased))
				ar.Get("/summary", gate.Guard(auth.OpAnalysisRead, h.Analysis.Summary))
			})
		})
	})
}
