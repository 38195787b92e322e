package tool_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel"
	"github.com/frahmantamala/asset-tracking/internal/core/events"
	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/frahmantamala/asset-tracking/internal/tool"
	toolPostgres "github.com/frahmantamala/asset-tracking/internal/tool/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	Expect(db.AutoMigrate(datamodel.Models()...)).To(Succeed())
	DeferCleanup(sqlDB.Close)
	return db
}

func validDTO(serial string) tool.ToolDTO {
	cal := "2024-01-15"
	return tool.ToolDTO{
		EquipmentName:     "Ultrasonic Thickness Gauge",
		BrandType:         "Olympus 38DL",
		SerialNo:          serial,
		InventoryCode:     "INV-" + serial,
		CalibrationDate:   &cal,
		Condition:         tool.ConditionGood,
		EquipmentLocation: "Jakarta",
	}
}

var _ = Describe("Tool Service", func() {
	var (
		root    string
		store   *attachment.LocalStore
		service *tool.Service
		ctx     context.Context
		slogger *slog.Logger
		now     time.Time
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		root = GinkgoT().TempDir()
		store, err = attachment.NewLocalStore(root, slogger)
		Expect(err).NotTo(HaveOccurred())

		now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		repo := toolPostgres.NewToolRepository(newTestDB())
		service = tool.NewService(repo, store, report.NewGenerator("PT Biro Klasifikasi Indonesia"), slogger).
			WithClock(func() time.Time { return now })
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("defaults validity to 12 months and derives status", func() {
			resp, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ID).NotTo(BeEmpty())
			Expect(resp.CalibrationValidityMonths).To(Equal(12))
			Expect(resp.Status).To(Equal(tool.StatusValid))
			Expect(*resp.CalibrationExpiryDate).To(Equal("2025-01-09"))
		})

		It("keeps an explicit zero validity", func() {
			dto := validDTO("SN-1")
			zero := 0
			dto.CalibrationValidityMonths = &zero

			resp, err := service.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.CalibrationValidityMonths).To(Equal(0))
			Expect(resp.Status).To(Equal(tool.StatusExpired))
		})

		It("reports Unknown status without a calibration date", func() {
			dto := validDTO("SN-1")
			dto.CalibrationDate = nil
			resp, err := service.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(tool.StatusUnknown))
			Expect(resp.CalibrationExpiryDate).To(BeNil())
		})

		It("rejects an unknown condition", func() {
			dto := validDTO("SN-1")
			dto.Condition = "Broken"
			_, err := service.Create(ctx, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.GetDetailedMessage()).To(ContainSubstring("condition must be one of"))
		})

		It("rejects missing required fields", func() {
			_, err := service.Create(ctx, tool.ToolDTO{Condition: tool.ConditionGood})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(ContainSubstring("equipment_name is required"))
		})
	})

	Describe("Update", func() {
		It("returns not found for an unknown id", func() {
			_, err := service.Update(ctx, "missing", validDTO("SN-1"))
			Expect(errors.Is(err, internal.ErrToolNotFound)).To(BeTrue())
		})

		It("replaces every mutable field and keeps attachments", func() {
			created, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.UploadCertificate(ctx, created.ID, "cert.pdf", strings.NewReader("pdf"))
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO("SN-2")
			dto.CalibrationDate = nil
			dto.Condition = tool.ConditionDamaged
			updated, err := service.Update(ctx, created.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.SerialNo).To(Equal("SN-2"))
			Expect(updated.CalibrationDate).To(BeNil())
			Expect(updated.Status).To(Equal(tool.StatusUnknown))
			Expect(updated.Condition).To(Equal(tool.ConditionDamaged))
			Expect(*updated.CalibrationCertificate).To(Equal("uploads/certificates/" + created.ID + "_certificate.pdf"))

			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].SerialNo).To(Equal("SN-2"))
		})
	})

	Describe("Delete", func() {
		It("returns not found for an unknown id", func() {
			Expect(errors.Is(service.Delete(ctx, "missing"), internal.ErrToolNotFound)).To(BeTrue())
		})

		It("removes the certificate file with the tool", func() {
			created, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())
			rel, err := service.UploadCertificate(ctx, created.ID, "cert.pdf", strings.NewReader("pdf"))
			Expect(err).NotTo(HaveOccurred())
			full := filepath.Join(root, filepath.FromSlash(rel))
			Expect(full).To(BeARegularFile())

			Expect(service.Delete(ctx, created.ID)).To(Succeed())
			Expect(full).NotTo(BeAnExistingFile())

			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("deletes a tool without attachments", func() {
			created, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(service.Delete(ctx, created.ID)).To(Succeed())
		})

		It("still deletes when the referenced file is already gone", func() {
			created, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())
			rel, err := service.UploadManual(ctx, created.ID, "manual.pdf", strings.NewReader("m"))
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Remove(filepath.Join(root, filepath.FromSlash(rel)))).To(Succeed())

			Expect(service.Delete(ctx, created.ID)).To(Succeed())
		})
	})

	Describe("attachments", func() {
		It("rejects uploads for unknown tools", func() {
			_, err := service.UploadManual(ctx, "missing", "m.pdf", strings.NewReader("m"))
			Expect(errors.Is(err, internal.ErrToolNotFound)).To(BeTrue())
		})

		It("serves the certificate under the equipment name", func() {
			created, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.UploadCertificate(ctx, created.ID, "scan.pdf", strings.NewReader("certificate body"))
			Expect(err).NotTo(HaveOccurred())

			dl, err := service.OpenCertificate(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			defer dl.Content.Close()
			Expect(dl.Filename).To(Equal("Ultrasonic Thickness Gauge_certificate.pdf"))
			data, err := io.ReadAll(dl.Content)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("certificate body"))
		})

		It("distinguishes a missing reference from a missing file", func() {
			created, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.OpenManual(ctx, created.ID)
			Expect(errors.Is(err, internal.ErrManualNotFound)).To(BeTrue())

			rel, err := service.UploadManual(ctx, created.ID, "manual.pdf", strings.NewReader("m"))
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Remove(filepath.Join(root, filepath.FromSlash(rel)))).To(Succeed())

			_, err = service.OpenManual(ctx, created.ID)
			Expect(errors.Is(err, internal.ErrFileNotFound)).To(BeTrue())
		})

		It("drops the previous file when the extension changes", func() {
			created, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())
			first, err := service.UploadManual(ctx, created.ID, "manual.doc", strings.NewReader("v1"))
			Expect(err).NotTo(HaveOccurred())
			second, err := service.UploadManual(ctx, created.ID, "manual.pdf", strings.NewReader("v2"))
			Expect(err).NotTo(HaveOccurred())

			Expect(filepath.Join(root, filepath.FromSlash(first))).NotTo(BeAnExistingFile())
			Expect(filepath.Join(root, filepath.FromSlash(second))).To(BeARegularFile())
		})
	})

	Describe("documents", func() {
		It("renders the QR label named after the serial", func() {
			created, err := service.Create(ctx, validDTO("SN-9"))
			Expect(err).NotTo(HaveOccurred())

			doc, err := service.Barcode(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Filename).To(Equal("qrcode_SN-9.png"))
			Expect(doc.ContentType).To(Equal("image/png"))
			Expect(bytes.HasPrefix(doc.Data, []byte("\x89PNG"))).To(BeTrue())
		})

		It("returns not found for the label of an unknown tool", func() {
			_, err := service.Barcode(ctx, "missing")
			Expect(errors.Is(err, internal.ErrToolNotFound)).To(BeTrue())
		})

		It("exports the tool status workbook", func() {
			_, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())

			doc, err := service.Export(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Filename).To(Equal("tool_status.xlsx"))
			Expect(bytes.HasPrefix(doc.Data, []byte("PK"))).To(BeTrue())
		})
	})

	Describe("calibration sync", func() {
		var bus *events.EventBus

		BeforeEach(func() {
			bus = events.NewEventBus(slogger)
			tool.NewEventHandler(service, slogger).RegisterEventHandlers(bus)
		})

		It("updates the tool whose serial matches", func() {
			dto := validDTO("SN-1")
			dto.CalibrationDate = nil
			created, err := service.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			err = bus.PublishSync(ctx, events.NewCalibrationRecordedEvent("cal-1", "SN-1", "2024-05-01", "admin"))
			Expect(err).NotTo(HaveOccurred())

			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(created.ID))
			Expect(*list[0].CalibrationDate).To(Equal("2024-05-01"))
			Expect(list[0].Status).To(Equal(tool.StatusValid))
		})

		It("leaves tools alone when nothing matches", func() {
			_, err := service.Create(ctx, validDTO("SN-1"))
			Expect(err).NotTo(HaveOccurred())

			n, err := service.SyncCalibration(ctx, "SN-OTHER", "2024-05-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())

			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(*list[0].CalibrationDate).To(Equal("2024-01-15"))
		})

		It("rejects events of the wrong type", func() {
			h := tool.NewEventHandler(service, slogger)
			err := h.HandleCalibrationRecorded(ctx, events.BaseEvent{Type: events.EventTypeCalibrationRecorded})
			Expect(err).To(HaveOccurred())
		})
	})
})
