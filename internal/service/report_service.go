package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"
	"amber-storefront/internal/order"
	"amber-storefront/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultRange is the report window used when none is given.
	DefaultRange = "7days"

	reportFetchLimit = 1000
	topProductsLimit = 5
	dailySalesLimit  = 7
)

var reportRanges = map[string]int{
	"1day":   1,
	"7days":  7,
	"30days": 30,
	"90days": 90,
}

// statuses that count as a sale
var soldStatuses = map[domain.OrderStatus]bool{
	domain.StatusConfirmed: true,
	domain.StatusPreparing: true,
	domain.StatusReady:     true,
	domain.StatusDelivered: true,
}

type ProductSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type DailySales struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

// SalesReport summarises sold orders inside a date window
type SalesReport struct {
	Range             string          `json:"range"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int             `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TopProducts       []ProductSales  `json:"topProducts"`
	DailySales        []DailySales    `json:"dailySales"`
}

// ReportService defines the interface for the admin sales report
type ReportService interface {
	Sales(ctx context.Context, rangeKey string) (SalesReport, error)
}

type reportService struct {
	api     backend.API
	session *session.Store
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportService creates a new instance of ReportService
func NewReportService(api backend.API, sess *session.Store, log *zap.Logger) ReportService {
	return &reportService{
		api:     api,
		session: sess,
		logger:  log.Named("reports"),
		now:     time.Now,
	}
}

func (s *reportService) Sales(ctx context.Context, rangeKey string) (SalesReport, error) {
	if rangeKey == "" {
		rangeKey = DefaultRange
	}
	if _, ok := reportRanges[rangeKey]; !ok {
		return SalesReport{}, fmt.Errorf("%w: %q", ErrUnknownRange, rangeKey)
	}

	token, err := requireAdmin(s.session)
	if err != nil {
		return SalesReport{}, err
	}

	page, err := s.api.ListOrders(ctx, token, backend.OrderQuery{Limit: reportFetchLimit})
	if err != nil {
		return SalesReport{}, fmt.Errorf("failed to load orders for report: %w", err)
	}

	report, err := BuildSalesReport(page.Orders, rangeKey, s.now())
	if err != nil {
		return SalesReport{}, err
	}

	s.logger.Debug("Sales report built",
		zap.String("range", rangeKey),
		zap.Int("fetched", len(page.Orders)),
		zap.Int("counted", report.TotalOrders),
	)
	return report, nil
}

// BuildSalesReport aggregates the sold orders placed within the range
// ending at now. Orders without a creation date are left out.
func BuildSalesReport(orders []domain.Order, rangeKey string, now time.Time) (SalesReport, error) {
	days, ok := reportRanges[rangeKey]
	if !ok {
		return SalesReport{}, fmt.Errorf("%w: %q", ErrUnknownRange, rangeKey)
	}
	start := now.Add(-time.Duration(days) * 24 * time.Hour)

	report := SalesReport{
		Range:             rangeKey,
		TotalSales:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TopProducts:       []ProductSales{},
		DailySales:        []DailySales{},
	}

	products := map[string]*ProductSales{}
	var productOrder []string
	daily := map[string]*DailySales{}

	for _, o := range orders {
		status, err := order.ParseStatus(string(o.Status))
		if err != nil || !soldStatuses[status] {
			continue
		}
		if o.CreatedAt.IsZero() || o.CreatedAt.Before(start) {
			continue
		}

		report.TotalSales = report.TotalSales.Add(o.Total)
		report.TotalOrders++

		for _, line := range o.Items {
			if line.ProductName == "" || line.ProductName == domain.UnnamedProduct {
				continue
			}
			p, seen := products[line.ProductName]
			if !seen {
				p = &ProductSales{Name: line.ProductName, Revenue: decimal.Zero}
				products[line.ProductName] = p
				productOrder = append(productOrder, line.ProductName)
			}
			p.Quantity += line.Quantity
			p.Revenue = p.Revenue.Add(line.Subtotal())
		}

		key := o.CreatedAt.UTC().Format("2006-01-02")
		d, seen := daily[key]
		if !seen {
			d = &DailySales{Date: key, Sales: decimal.Zero}
			daily[key] = d
		}
		d.Sales = d.Sales.Add(o.Total)
		d.Orders++
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalSales.DivRound(decimal.NewFromInt(int64(report.TotalOrders)), 2)
	}

	for _, name := range productOrder {
		report.TopProducts = append(report.TopProducts, *products[name])
	}
	sort.SliceStable(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue.GreaterThan(report.TopProducts[j].Revenue)
	})
	if len(report.TopProducts) > topProductsLimit {
		report.TopProducts = report.TopProducts[:topProductsLimit]
	}

	for _, d := range daily {
		report.DailySales = append(report.DailySales, *d)
	}
	sort.Slice(report.DailySales, func(i, j int) bool {
		return report.DailySales[i].Date > report.DailySales[j].Date
	})
	if len(report.DailySales) > dailySalesLimit {
		report.DailySales = report.DailySales[:dailySalesLimit]
	}

	return report, nil
}
