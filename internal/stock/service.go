package stock

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/core/common/validation"
	stockDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/stock"
	"github.com/google/uuid"
)

const ListLimit = 1000

// consumeAttempts bounds how often Consume re-reads after losing a race.
const consumeAttempts = 2

// Repository returns (nil, nil) from GetByID when no row matches.
type Repository interface {
	List(ctx context.Context, limit int) ([]*stockDatamodel.StockItem, error)
	GetByID(ctx context.Context, id string) (*stockDatamodel.StockItem, error)
	Create(ctx context.Context, s *stockDatamodel.StockItem) error
	Delete(ctx context.Context, id string) (int64, error)
	UpdateColumns(ctx context.Context, id string, values map[string]interface{}) error
	Adjust(ctx context.Context, id string, delta int, values map[string]interface{}, updatedAt time.Time) (int64, error)
	CompareAndSetQuantity(ctx context.Context, id string, expected, quantity int, updatedAt time.Time) (int64, error)
}

// Download is an opened receipt. The caller closes Content.
type Download struct {
	Filename string
	Content  io.ReadCloser
}

type Service struct {
	repo   Repository
	store  attachment.Storage
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, store attachment.Storage, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context) ([]*StockItem, error) {
	rows, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		s.logger.Error("failed to list stock items", "error", err)
		return nil, internal.NewInternalError("failed to list stock items", err)
	}

	items := make([]*StockItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*StockItem, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get stock item", "error", err, "item_id", id)
		return nil, internal.NewInternalError("failed to get stock item", err)
	}
	if row == nil {
		return nil, internal.ErrStockNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateDTO) (*StockItem, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	now := s.now()
	item := &StockItem{
		ID:                  uuid.NewString(),
		ItemName:            dto.ItemName,
		BrandSpecifications: dto.BrandSpecifications,
		AvailableQuantity:   dto.AvailableQuantity,
		Unit:                dto.Unit,
		Description:         dto.Description,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, ToDataModel(item)); err != nil {
		s.logger.Error("failed to create stock item", "error", err, "item_name", item.ItemName)
		return nil, internal.NewInternalError("failed to create stock item", err)
	}

	s.logger.Info("stock item created", "item_id", item.ID, "item_name", item.ItemName, "quantity", item.AvailableQuantity)
	return item, nil
}

// Update applies the provided fields. available_quantity is a delta added to
// the stored quantity, and the whole change is rejected if the result would be
// negative.
func (s *Service) Update(ctx context.Context, id string, dto UpdateDTO) (*StockItem, error) {
	delta := 0
	if dto.AvailableQuantity != nil {
		delta = *dto.AvailableQuantity
	}
	return s.adjust(ctx, id, delta, dto.Patch())
}

// Edit replaces the descriptive fields present in patch.
func (s *Service) Edit(ctx context.Context, id string, patch Patch) (*StockItem, error) {
	return s.adjust(ctx, id, 0, patch)
}

// Restock adds delta units. A negative delta withdraws stock but never past zero.
func (s *Service) Restock(ctx context.Context, id string, delta int) (*StockItem, error) {
	return s.adjust(ctx, id, delta, Patch{})
}

func (s *Service) adjust(ctx context.Context, id string, delta int, patch Patch) (*StockItem, error) {
	values := patch.columns()
	if delta == 0 && len(values) == 0 {
		return s.Get(ctx, id)
	}

	affected, err := s.repo.Adjust(ctx, id, delta, values, s.now())
	if err != nil {
		s.logger.Error("failed to update stock item", "error", err, "item_id", id)
		return nil, internal.NewInternalError("failed to update stock item", err)
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, insufficient(item)
	}

	s.logger.Info("stock item updated", "item_id", id, "delta", delta, "quantity", item.AvailableQuantity)
	return item, nil
}

// Delete removes the item and then its receipt. A receipt that cannot be
// removed is logged and does not fail the call.
func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete stock item", "error", err, "item_id", id)
		return internal.NewInternalError("failed to delete stock item", err)
	}
	if affected == 0 {
		return internal.ErrStockNotFound
	}

	s.removeFile(item.PurchaseReceipt, "item_id", id)
	s.logger.Info("stock item deleted", "item_id", id, "item_name", item.ItemName)
	return nil
}

// Consume withdraws quantity units. The write only lands while the stored
// quantity still matches the one that was checked; after a lost race the item
// is read and checked once more before giving up with ErrStockConflict.
func (s *Service) Consume(ctx context.Context, dto ConsumeDTO) (*ConsumeResult, error) {
	if dto.Quantity <= 0 {
		return nil, internal.ErrInvalidQuantity
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= consumeAttempts; attempt++ {
		item, err := s.Get(ctx, dto.ItemID)
		if err != nil {
			return nil, err
		}
		if dto.Quantity > item.AvailableQuantity {
			return nil, insufficient(item)
		}

		remaining := item.AvailableQuantity - dto.Quantity
		affected, err := s.repo.CompareAndSetQuantity(ctx, item.ID, item.AvailableQuantity, remaining, s.now())
		if err != nil {
			s.logger.Error("failed to consume stock", "error", err, "item_id", item.ID)
			return nil, internal.NewInternalError("failed to consume stock", err)
		}
		if affected == 1 {
			s.logger.Info("stock consumed",
				"item_id", item.ID,
				"item_name", item.ItemName,
				"quantity", dto.Quantity,
				"remaining", remaining,
				"reason", deref(dto.Reason),
			)
			return &ConsumeResult{
				Message:           "Stock consumed successfully",
				ItemName:          item.ItemName,
				ConsumedQuantity:  dto.Quantity,
				RemainingQuantity: remaining,
				Unit:              item.Unit,
			}, nil
		}

		s.logger.Warn("stock changed during consume", "item_id", item.ID, "attempt", attempt)
	}

	return nil, internal.ErrStockConflict
}

func (s *Service) UploadReceipt(ctx context.Context, id, filename string, content io.Reader) (string, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	rel, err := s.store.Save(attachment.KindReceipt, id, filename, content)
	if err != nil {
		s.logger.Error("failed to store receipt", "error", err, "item_id", id)
		return "", internal.NewInternalError("failed to store file", err)
	}

	if err := s.repo.UpdateColumns(ctx, id, map[string]interface{}{
		"purchase_receipt": rel,
		"updated_at":       s.now(),
	}); err != nil {
		s.logger.Error("failed to record receipt", "error", err, "item_id", id)
		return "", internal.NewInternalError("failed to record file", err)
	}

	if item.PurchaseReceipt != nil && *item.PurchaseReceipt != rel {
		s.removeFile(item.PurchaseReceipt, "item_id", id)
	}

	s.logger.Info("stock receipt uploaded", "item_id", id, "path", rel)
	return rel, nil
}

func (s *Service) OpenReceipt(ctx context.Context, id string) (*Download, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get stock item", err)
	}
	if row == nil || row.PurchaseReceipt == nil || *row.PurchaseReceipt == "" {
		return nil, internal.ErrReceiptNotFound
	}

	f, err := s.store.Open(*row.PurchaseReceipt)
	if err != nil {
		s.logger.Warn("receipt missing on disk", "path", *row.PurchaseReceipt, "error", err)
		return nil, err
	}
	return &Download{
		Filename: fmt.Sprintf("%s_%s%s", row.ItemName, attachment.KindReceipt, filepath.Ext(*row.PurchaseReceipt)),
		Content:  f,
	}, nil
}

func (s *Service) removeFile(p *string, attrs ...any) {
	if p == nil || *p == "" {
		return
	}
	if err := s.store.Delete(*p); err != nil {
		s.logger.Warn("failed to delete receipt", append(attrs, "path", *p, "error", err)...)
	}
}

func insufficient(item *StockItem) error {
	return internal.ErrInsufficientStock.WithMessage(
		fmt.Sprintf("Insufficient stock. Available: %d %s", item.AvailableQuantity, item.Unit))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
