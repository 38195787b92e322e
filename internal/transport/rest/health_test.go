package rest_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/frahmantamala/asset-tracking/internal/transport/rest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Health", func() {
	var base *transport.BaseHandler

	BeforeEach(func() {
		base = transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	check := func(h *rest.HealthHandler) (*httptest.ResponseRecorder, rest.HealthResponse) {
		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		var resp rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return rec, resp
	}

	openDB := func() *gorm.DB {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		return db
	}

	It("reports the store under its driver name", func() {
		sqlDB, err := openDB().DB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlDB.Close)

		rec, resp := check(rest.NewHealthHandler(base, sqlDB, "sqlite"))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components).To(HaveKey("sqlite"))
		Expect(resp.Components["sqlite"].Driver).To(Equal("sqlite"))
		Expect(resp.Components["sqlite"].OpenConnections).To(BeNumerically(">=", 1))
	})

	It("answers 503 when the store is unreachable", func() {
		sqlDB, err := openDB().DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())

		rec, resp := check(rest.NewHealthHandler(base, sqlDB, ""))
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components["database"].Message).NotTo(BeEmpty())
	})
})
