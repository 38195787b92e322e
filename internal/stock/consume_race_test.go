package stock_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/stock"
	stockPostgres "github.com/frahmantamala/asset-tracking/internal/stock/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// racingRepository lets another writer take `taken` units just before each of
// the first `losses` compare-and-set calls, so those calls miss.
type racingRepository struct {
	*stockPostgres.StockRepository
	losses   int
	taken    int
	casCalls int
}

func (r *racingRepository) CompareAndSetQuantity(ctx context.Context, id string, expected, quantity int, updatedAt time.Time) (int64, error) {
	r.casCalls++
	if r.casCalls <= r.losses {
		if _, err := r.StockRepository.CompareAndSetQuantity(ctx, id, expected, expected-r.taken, updatedAt); err != nil {
			return 0, err
		}
	}
	return r.StockRepository.CompareAndSetQuantity(ctx, id, expected, quantity, updatedAt)
}

var _ = Describe("Consume after a concurrent change", func() {
	var (
		repo    *racingRepository
		service *stock.Service
		ctx     context.Context
		itemID  string
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		store, err := attachment.NewLocalStore(GinkgoT().TempDir(), slogger)
		Expect(err).NotTo(HaveOccurred())

		repo = &racingRepository{StockRepository: stockPostgres.NewStockRepository(newTestDB())}
		service = stock.NewService(repo, store, slogger)
		ctx = context.Background()

		item, err := service.Create(ctx, cableTies(10))
		Expect(err).NotTo(HaveOccurred())
		itemID = item.ID
	})

	quantity := func() int {
		item, err := service.Get(ctx, itemID)
		Expect(err).NotTo(HaveOccurred())
		return item.AvailableQuantity
	}

	It("retries once and reports the remainder of the re-read quantity", func() {
		repo.losses, repo.taken = 1, 2

		res, err := service.Consume(ctx, stock.ConsumeDTO{ItemID: itemID, Quantity: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.RemainingQuantity).To(Equal(5))
		Expect(repo.casCalls).To(Equal(2))
		Expect(quantity()).To(Equal(5))
	})

	It("gives up with a conflict after the second miss and writes nothing", func() {
		repo.losses, repo.taken = 2, 2

		_, err := service.Consume(ctx, stock.ConsumeDTO{ItemID: itemID, Quantity: 3})
		Expect(errors.Is(err, internal.ErrStockConflict)).To(BeTrue())
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
		Expect(repo.casCalls).To(Equal(2))
		Expect(quantity()).To(Equal(6))
	})

	It("rechecks availability after losing the race", func() {
		repo.losses, repo.taken = 1, 8

		_, err := service.Consume(ctx, stock.ConsumeDTO{ItemID: itemID, Quantity: 3})
		Expect(errors.Is(err, internal.ErrInsufficientStock)).To(BeTrue())
		Expect(err.Error()).To(Equal("Insufficient stock. Available: 2 pcs"))
		Expect(repo.casCalls).To(Equal(1))
		Expect(quantity()).To(Equal(2))
	})
})
