package tool_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/frahmantamala/asset-tracking/internal/tool"
	toolPostgres "github.com/frahmantamala/asset-tracking/internal/tool/postgres"
	"github.com/frahmantamala/asset-tracking/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tool Handler", func() {
	var router chi.Router

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store, err := attachment.NewLocalStore(GinkgoT().TempDir(), slogger)
		Expect(err).NotTo(HaveOccurred())

		service := tool.NewService(toolPostgres.NewToolRepository(newTestDB()), store, report.NewGenerator("PT Biro Klasifikasi Indonesia"), slogger)
		handler := tool.NewHandler(&transport.BaseHandler{Logger: slogger}, service, 1<<20)

		router = chi.NewRouter()
		router.Get("/tools", handler.ListTools)
		router.Post("/tools", handler.CreateTool)
		router.Get("/tools/export/excel", handler.ExportExcel)
		router.Put("/tools/{id}", handler.UpdateTool)
		router.Delete("/tools/{id}", handler.DeleteTool)
		router.Post("/tools/{id}/upload-certificate", handler.UploadCertificate)
		router.Get("/tools/{id}/download-certificate", handler.DownloadCertificate)
		router.Get("/tools/{id}/barcode", handler.Barcode)
	})

	do := func(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	create := func() tool.ToolResponse {
		body, err := json.Marshal(validDTO("SN-1"))
		Expect(err).NotTo(HaveOccurred())
		rec := do(http.MethodPost, "/tools", body, "application/json")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp tool.ToolResponse
		Expect(json.NewDecoder(rec.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	It("creates and lists tools with derived status", func() {
		created := create()
		Expect(created.Status).NotTo(BeEmpty())

		rec := do(http.MethodGet, "/tools", nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list []map[string]interface{}
		Expect(json.NewDecoder(rec.Body).Decode(&list)).To(Succeed())
		Expect(list).To(HaveLen(1))
		Expect(list[0]).To(HaveKey("calibration_expiry_date"))
		Expect(list[0]).To(HaveKey("status"))
	})

	It("returns an empty array when there are no tools", func() {
		rec := do(http.MethodGet, "/tools", nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON("[]"))
	})

	It("rejects malformed JSON with 400", func() {
		rec := do(http.MethodPost, "/tools", []byte("{"), "application/json")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 with a detail for unknown tools", func() {
		body, _ := json.Marshal(validDTO("SN-1"))
		rec := do(http.MethodPut, "/tools/missing", body, "application/json")
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		var resp map[string]interface{}
		Expect(json.NewDecoder(rec.Body).Decode(&resp)).To(Succeed())
		Expect(resp["detail"]).To(Equal("Tool not found"))
	})

	It("uploads and downloads a certificate", func() {
		created := create()

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "calibration.pdf")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("%PDF-1.4 test"))
		Expect(err).NotTo(HaveOccurred())
		Expect(mw.Close()).To(Succeed())

		rec := do(http.MethodPost, "/tools/"+created.ID+"/upload-certificate", buf.Bytes(), mw.FormDataContentType())
		Expect(rec.Code).To(Equal(http.StatusOK))
		var up tool.UploadResponse
		Expect(json.NewDecoder(rec.Body).Decode(&up)).To(Succeed())
		Expect(up.Message).To(Equal("Certificate uploaded successfully"))
		Expect(up.FilePath).To(Equal("uploads/certificates/" + created.ID + "_certificate.pdf"))

		rec = do(http.MethodGet, "/tools/"+created.ID+"/download-certificate", nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("Ultrasonic Thickness Gauge_certificate.pdf"))
		Expect(rec.Body.String()).To(Equal("%PDF-1.4 test"))
	})

	It("rejects an upload without a file part", func() {
		created := create()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		Expect(mw.WriteField("note", "x")).To(Succeed())
		Expect(mw.Close()).To(Succeed())

		rec := do(http.MethodPost, "/tools/"+created.ID+"/upload-certificate", buf.Bytes(), mw.FormDataContentType())
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("answers 404 Certificate not found when none was uploaded", func() {
		created := create()
		rec := do(http.MethodGet, "/tools/"+created.ID+"/download-certificate", nil, "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(ContainSubstring("Certificate not found"))
	})

	It("serves the barcode and the export as attachments", func() {
		created := create()

		rec := do(http.MethodGet, "/tools/"+created.ID+"/barcode", nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("image/png"))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("qrcode_SN-1.png"))

		rec = do(http.MethodGet, "/tools/export/excel", nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("tool_status.xlsx"))
	})

	It("deletes a tool", func() {
		created := create()
		rec := do(http.MethodDelete, "/tools/"+created.ID, nil, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"message":"Tool deleted successfully"}`))

		rec = do(http.MethodDelete, "/tools/"+created.ID, nil, "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
