package stock_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel"
	"github.com/frahmantamala/asset-tracking/internal/stock"
	stockPostgres "github.com/frahmantamala/asset-tracking/internal/stock/postgres"
	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStock(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Stock Suite")
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

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

func cableTies(qty int) stock.CreateDTO {
	return stock.CreateDTO{
		ItemName:            "Cable Tie",
		BrandSpecifications: "3M 200mm",
		AvailableQuantity:   qty,
		Unit:                "pcs",
	}
}

var _ = Describe("Stock Service", func() {
	var (
		root    string
		store   *attachment.LocalStore
		service *stock.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		root = GinkgoT().TempDir()
		store, err = attachment.NewLocalStore(root, slogger)
		Expect(err).NotTo(HaveOccurred())

		now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		service = stock.NewService(stockPostgres.NewStockRepository(newTestDB()), store, slogger).
			WithClock(func() time.Time { return now })
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("stores the item", func() {
			item, err := service.Create(ctx, cableTies(10))
			Expect(err).NotTo(HaveOccurred())
			Expect(item.ID).NotTo(BeEmpty())

			items, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].AvailableQuantity).To(Equal(10))
		})

		It("rejects a negative quantity", func() {
			_, err := service.Create(ctx, cableTies(-1))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("requires the unit", func() {
			dto := cableTies(1)
			dto.Unit = ""
			_, err := service.Create(ctx, dto)
			Expect(err).To(MatchError(ContainSubstring("unit is required")))
		})
	})

	Describe("Update", func() {
		It("adds available_quantity to the stored value and replaces other fields", func() {
			item, err := service.Create(ctx, cableTies(10))
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(ctx, item.ID, stock.UpdateDTO{
				AvailableQuantity: intPtr(5),
				Unit:              strPtr("pack"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AvailableQuantity).To(Equal(15))
			Expect(updated.Unit).To(Equal("pack"))
			Expect(updated.ItemName).To(Equal("Cable Tie"))
		})

		It("rejects a delta that would go negative and changes nothing", func() {
			item, err := service.Create(ctx, cableTies(3))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(ctx, item.ID, stock.UpdateDTO{
				AvailableQuantity: intPtr(-4),
				ItemName:          strPtr("Renamed"),
			})
			Expect(errors.Is(err, internal.ErrInsufficientStock)).To(BeTrue())

			after, err := service.Get(ctx, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.AvailableQuantity).To(Equal(3))
			Expect(after.ItemName).To(Equal("Cable Tie"))
		})

		It("edits without touching the quantity", func() {
			item, err := service.Create(ctx, cableTies(7))
			Expect(err).NotTo(HaveOccurred())

			edited, err := service.Edit(ctx, item.ID, stock.Patch{Description: strPtr("Black")})
			Expect(err).NotTo(HaveOccurred())
			Expect(edited.AvailableQuantity).To(Equal(7))
			Expect(edited.Description).To(HaveValue(Equal("Black")))
		})

		It("clears the description on request", func() {
			dto := cableTies(4)
			dto.Description = strPtr("Black")
			item, err := service.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			edited, err := service.Edit(ctx, item.ID, stock.Patch{ClearDescription: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(edited.Description).To(BeNil())
			Expect(edited.AvailableQuantity).To(Equal(4))
		})

		It("restocks", func() {
			item, err := service.Create(ctx, cableTies(0))
			Expect(err).NotTo(HaveOccurred())

			restocked, err := service.Restock(ctx, item.ID, 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(restocked.AvailableQuantity).To(Equal(60))
			Expect(restocked.IsLow()).To(BeFalse())
		})

		It("returns not found for an unknown id", func() {
			_, err := service.Restock(ctx, "missing", 1)
			Expect(errors.Is(err, internal.ErrStockNotFound)).To(BeTrue())
		})
	})

	Describe("Consume", func() {
		It("subtracts and reports the remainder", func() {
			item, err := service.Create(ctx, cableTies(10))
			Expect(err).NotTo(HaveOccurred())

			res, err := service.Consume(ctx, stock.ConsumeDTO{ItemID: item.ID, Quantity: 4, Reason: strPtr("Hull survey")})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Message).To(Equal("Stock consumed successfully"))
			Expect(res.ItemName).To(Equal("Cable Tie"))
			Expect(res.ConsumedQuantity).To(Equal(4))
			Expect(res.RemainingQuantity).To(Equal(6))
			Expect(res.Unit).To(Equal("pcs"))
		})

		It("consumes the whole quantity", func() {
			item, err := service.Create(ctx, cableTies(5))
			Expect(err).NotTo(HaveOccurred())

			res, err := service.Consume(ctx, stock.ConsumeDTO{ItemID: item.ID, Quantity: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RemainingQuantity).To(BeZero())
		})

		It("refuses more than available and leaves the quantity unchanged", func() {
			item, err := service.Create(ctx, cableTies(3))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Consume(ctx, stock.ConsumeDTO{ItemID: item.ID, Quantity: 4})
			Expect(errors.Is(err, internal.ErrInsufficientStock)).To(BeTrue())
			Expect(err.Error()).To(Equal("Insufficient stock. Available: 3 pcs"))

			after, err := service.Get(ctx, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.AvailableQuantity).To(Equal(3))
		})

		It("rejects a non-positive quantity", func() {
			item, err := service.Create(ctx, cableTies(3))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Consume(ctx, stock.ConsumeDTO{ItemID: item.ID, Quantity: 0})
			Expect(errors.Is(err, internal.ErrInvalidQuantity)).To(BeTrue())
		})

		It("returns not found for an unknown item", func() {
			_, err := service.Consume(ctx, stock.ConsumeDTO{ItemID: "missing", Quantity: 1})
			Expect(errors.Is(err, internal.ErrStockNotFound)).To(BeTrue())
		})

		It("never goes negative under concurrent consumers", func() {
			item, err := service.Create(ctx, cableTies(5))
			Expect(err).NotTo(HaveOccurred())

			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				consumed int
			)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					res, err := service.Consume(ctx, stock.ConsumeDTO{ItemID: item.ID, Quantity: 1})
					if err != nil {
						Expect(errors.Is(err, internal.ErrInsufficientStock) || errors.Is(err, internal.ErrStockConflict)).To(BeTrue())
						return
					}
					mu.Lock()
					consumed += res.ConsumedQuantity
					mu.Unlock()
				}()
			}
			wg.Wait()

			after, err := service.Get(ctx, item.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.AvailableQuantity).To(BeNumerically(">=", 0))
			Expect(after.AvailableQuantity + consumed).To(Equal(5))
		})
	})

	Describe("Receipts", func() {
		It("uploads, downloads and removes the receipt on delete", func() {
			item, err := service.Create(ctx, cableTies(1))
			Expect(err).NotTo(HaveOccurred())

			rel, err := service.UploadReceipt(ctx, item.ID, "invoice.pdf", bytes.NewBufferString("receipt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(rel).To(Equal("uploads/receipts/" + item.ID + "_receipt.pdf"))

			dl, err := service.OpenReceipt(ctx, item.ID)
			Expect(err).NotTo(HaveOccurred())
			data, err := io.ReadAll(dl.Content)
			Expect(err).NotTo(HaveOccurred())
			Expect(dl.Content.Close()).To(Succeed())
			Expect(string(data)).To(Equal("receipt"))
			Expect(dl.Filename).To(Equal("Cable Tie_receipt.pdf"))

			Expect(service.Delete(ctx, item.ID)).To(Succeed())
			Expect(filepath.Join(root, filepath.FromSlash(rel))).NotTo(BeAnExistingFile())
		})

		It("reports a missing receipt reference", func() {
			item, err := service.Create(ctx, cableTies(1))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.OpenReceipt(ctx, item.ID)
			Expect(errors.Is(err, internal.ErrReceiptNotFound)).To(BeTrue())
		})

		It("reports a receipt missing on disk", func() {
			item, err := service.Create(ctx, cableTies(1))
			Expect(err).NotTo(HaveOccurred())
			rel, err := service.UploadReceipt(ctx, item.ID, "invoice.pdf", bytes.NewBufferString("receipt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Remove(filepath.Join(root, filepath.FromSlash(rel)))).To(Succeed())

			_, err = service.OpenReceipt(ctx, item.ID)
			Expect(errors.Is(err, internal.ErrFileNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("returns not found for an unknown id", func() {
			Expect(errors.Is(service.Delete(ctx, "missing"), internal.ErrStockNotFound)).To(BeTrue())
		})
	})
})

var _ = Describe("Stock Handler", func() {
	var (
		router  *chi.Mux
		service *stock.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store, err := attachment.NewLocalStore(GinkgoT().TempDir(), slogger)
		Expect(err).NotTo(HaveOccurred())
		service = stock.NewService(stockPostgres.NewStockRepository(newTestDB()), store, slogger)
		handler := stock.NewHandler(transport.NewBaseHandler(slogger), service, 1<<20)
		ctx = context.Background()

		router = chi.NewRouter()
		router.Get("/stock", handler.ListStock)
		router.Post("/stock", handler.CreateStock)
		router.Put("/stock/{id}", handler.UpdateStock)
		router.Delete("/stock/{id}", handler.DeleteStock)
		router.Post("/stock/consume", handler.ConsumeStock)
		router.Post("/stock/{id}/upload-receipt", handler.UploadReceipt)
		router.Get("/stock/{id}/download-receipt", handler.DownloadReceipt)
	})

	do := func(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, body)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("creates and lists items", func() {
		rec := do(http.MethodPost, "/stock", bytes.NewBufferString(`{"item_name":"Gloves","brand_specifications":"Ansell","available_quantity":20,"unit":"pair"}`), "application/json")
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = do(http.MethodGet, "/stock", nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var items []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0]["available_quantity"]).To(BeEquivalentTo(20))
	})

	It("returns the availability in a failed consume", func() {
		item, err := service.Create(ctx, cableTies(2))
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodPost, "/stock/consume", bytes.NewBufferString(`{"item_id":"`+item.ID+`","quantity":3}`), "application/json")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["detail"]).To(Equal("Insufficient stock. Available: 2 pcs"))
	})

	It("consumes", func() {
		item, err := service.Create(ctx, cableTies(2))
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodPost, "/stock/consume", bytes.NewBufferString(`{"item_id":"`+item.ID+`","quantity":2}`), "application/json")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var res stock.ConsumeResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &res)).To(Succeed())
		Expect(res.RemainingQuantity).To(BeZero())
	})

	It("restocks through update", func() {
		item, err := service.Create(ctx, cableTies(2))
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodPut, "/stock/"+item.ID, bytes.NewBufferString(`{"available_quantity":8}`), "application/json")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var updated stock.StockItem
		Expect(json.Unmarshal(rec.Body.Bytes(), &updated)).To(Succeed())
		Expect(updated.AvailableQuantity).To(Equal(10))
	})

	It("clears the description when it is sent as null and keeps it when omitted", func() {
		dto := cableTies(2)
		dto.Description = strPtr("Black")
		item, err := service.Create(ctx, dto)
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodPut, "/stock/"+item.ID, bytes.NewBufferString(`{"unit":"pack"}`), "application/json")
		Expect(rec.Code).To(Equal(http.StatusOK))
		after, err := service.Get(ctx, item.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(after.Description).To(HaveValue(Equal("Black")))

		rec = do(http.MethodPut, "/stock/"+item.ID, bytes.NewBufferString(`{"description":null}`), "application/json")
		Expect(rec.Code).To(Equal(http.StatusOK))
		after, err = service.Get(ctx, item.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(after.Description).To(BeNil())
		Expect(after.Unit).To(Equal("pack"))
	})

	It("uploads and downloads a receipt", func() {
		item, err := service.Create(ctx, cableTies(2))
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "nota.jpg")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("jpeg"))
		Expect(err).NotTo(HaveOccurred())
		Expect(mw.Close()).To(Succeed())

		rec := do(http.MethodPost, "/stock/"+item.ID+"/upload-receipt", &buf, mw.FormDataContentType())
		Expect(rec.Code).To(Equal(http.StatusOK))
		var up stock.UploadResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &up)).To(Succeed())
		Expect(up.Message).To(Equal("Receipt uploaded successfully"))

		rec = do(http.MethodGet, "/stock/"+item.ID+"/download-receipt", nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("jpeg"))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("Cable Tie_receipt.jpg"))
	})

	It("deletes", func() {
		item, err := service.Create(ctx, cableTies(2))
		Expect(err).NotTo(HaveOccurred())

		rec := do(http.MethodDelete, "/stock/"+item.ID, nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Stock item deleted successfully"))

		rec = do(http.MethodDelete, "/stock/"+item.ID, nil, "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
