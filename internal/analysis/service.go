package analysis

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/stock"
	"github.com/frahmantamala/asset-tracking/internal/tool"
	"github.com/shopspring/decimal"
)

// ScanLimit caps how many loans and tools a single view reads.
const ScanLimit = 1000

type Repository interface {
	LoanEquipmentNames(ctx context.Context, limit int) ([]string, error)
	DamagedByName(ctx context.Context, condition string) ([]LabelCount, error)
	DamagedByBrand(ctx context.Context, condition string) ([]LabelCount, error)
	StockByBrand(ctx context.Context, limit int) ([]LabelCount, error)
	StockByItem(ctx context.Context, limit int) ([]LabelCount, error)
	ToolCalibrations(ctx context.Context, limit int) ([]ToolCalibration, error)
	LowStock(ctx context.Context, threshold int) ([]LowStockItem, error)
	Totals(ctx context.Context, damaged, good string, lowStockThreshold int) (*Totals, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ToolsUsage ranks equipment names by how often they were lent out. Ties keep
// the order in which the names first appeared.
func (s *Service) ToolsUsage(ctx context.Context) ([]ToolUsage, error) {
	names, err := s.repo.LoanEquipmentNames(ctx, ScanLimit)
	if err != nil {
		return nil, s.fail("tools usage", err)
	}

	counts := map[string]int{}
	var order []string
	for _, name := range names {
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > TopN {
		order = order[:TopN]
	}

	usage := make([]ToolUsage, 0, len(order))
	for _, name := range order {
		usage = append(usage, ToolUsage{EquipmentName: name, UsageCount: counts[name]})
	}
	return usage, nil
}

func (s *Service) ToolsDamaged(ctx context.Context) (*DamagedTools, error) {
	byName, err := s.repo.DamagedByName(ctx, tool.ConditionDamaged)
	if err != nil {
		return nil, s.fail("damaged tools by name", err)
	}
	byBrand, err := s.repo.DamagedByBrand(ctx, tool.ConditionDamaged)
	if err != nil {
		return nil, s.fail("damaged tools by brand", err)
	}

	out := &DamagedTools{
		ByType:  make([]TypeCount, 0, len(byName)),
		ByBrand: make([]BrandCount, 0, len(byBrand)),
	}
	for _, c := range byName {
		out.ByType = append(out.ByType, TypeCount{Type: c.Label, Count: c.Count})
		out.TotalDamaged += c.Count
	}
	for _, c := range byBrand {
		out.ByBrand = append(out.ByBrand, BrandCount{Brand: c.Label, Count: c.Count})
	}
	return out, nil
}

// ToolsLost lists tools whose calibration status cannot be derived. It is a
// heuristic; loans are not tracked for returns.
func (s *Service) ToolsLost(ctx context.Context) (*LostTools, error) {
	rows, err := s.repo.ToolCalibrations(ctx, ScanLimit)
	if err != nil {
		return nil, s.fail("lost tools", err)
	}

	now := s.now()
	out := &LostTools{PotentialLost: []LostTool{}}
	for _, row := range rows {
		status, _ := tool.ComputeStatus(row.CalibrationDate, row.CalibrationValidityMonths, now)
		if status != tool.StatusUnknown {
			continue
		}
		out.PotentialLost = append(out.PotentialLost, LostTool{
			EquipmentName: row.EquipmentName,
			SerialNo:      row.SerialNo,
			BrandType:     row.BrandType,
			Location:      row.EquipmentLocation,
		})
	}
	out.Total = len(out.PotentialLost)
	return out, nil
}

// StockRequested treats low stock as a proxy for demand.
func (s *Service) StockRequested(ctx context.Context) (*StockRequested, error) {
	items, err := s.repo.LowStock(ctx, stock.LowStockThreshold)
	if err != nil {
		return nil, s.fail("low stock", err)
	}
	return &StockRequested{FrequentlyRequested: items, TotalLowStock: len(items)}, nil
}

func (s *Service) StockPurchased(ctx context.Context) (*StockPurchased, error) {
	byBrand, err := s.repo.StockByBrand(ctx, TopN)
	if err != nil {
		return nil, s.fail("stock by brand", err)
	}
	byItem, err := s.repo.StockByItem(ctx, TopN)
	if err != nil {
		return nil, s.fail("stock by item", err)
	}
	totals, err := s.repo.Totals(ctx, tool.ConditionDamaged, tool.ConditionGood, stock.LowStockThreshold)
	if err != nil {
		return nil, s.fail("stock totals", err)
	}

	out := &StockPurchased{
		ByBrand:    make([]BrandCount, 0, len(byBrand)),
		ByItem:     make([]ItemCount, 0, len(byItem)),
		TotalItems: totals.TotalStockItems,
	}
	for _, c := range byBrand {
		out.ByBrand = append(out.ByBrand, BrandCount{Brand: c.Label, Count: c.Count})
	}
	for _, c := range byItem {
		out.ByItem = append(out.ByItem, ItemCount{ItemName: c.Label, Count: c.Count})
	}
	return out, nil
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	t, err := s.repo.Totals(ctx, tool.ConditionDamaged, tool.ConditionGood, stock.LowStockThreshold)
	if err != nil {
		return nil, s.fail("summary", err)
	}
	return &Summary{
		TotalTools:      t.TotalTools,
		DamagedTools:    t.DamagedTools,
		GoodTools:       t.GoodTools,
		DamageRate:      Rate(t.DamagedTools, t.TotalTools),
		TotalLoans:      t.TotalLoans,
		TotalStockItems: t.TotalStockItems,
		LowStockItems:   t.LowStockItems,
		LowStockRate:    Rate(t.LowStockItems, t.TotalStockItems),
	}, nil
}

// Rate is part as a percentage of total rounded to one decimal, or 0 when
// total is 0.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1).
		InexactFloat64()
}

func (s *Service) fail(view string, err error) error {
	s.logger.Error("failed to compute analysis", "view", view, "error", err)
	return internal.NewInternalError("failed to compute "+view, err)
}
