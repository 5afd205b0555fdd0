package service

import (
	"context"
	"testing"
	"time"

	"amber-storefront/internal/backend"
	"amber-storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var reportNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func sale(id string, status domain.OrderStatus, daysAgo int, lines ...domain.OrderLine) domain.Order {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return domain.Order{
		ID:        id,
		Status:    status,
		Total:     total,
		Items:     lines,
		CreatedAt: reportNow.Add(-time.Duration(daysAgo) * 24 * time.Hour).Add(-time.Hour),
	}
}

func line(name string, qty int, price int64) domain.OrderLine {
	return domain.OrderLine{ProductName: name, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func TestBuildSalesReport(t *testing.T) {
	orders := []domain.Order{
		sale("o1", domain.StatusDelivered, 0, line("Caturra", 2, 45)),
		sale("o2", "delivered", 1, line("Caturra", 1, 45), line("Geisha", 1, 120)),
		sale("o3", domain.StatusConfirmed, 2, line("Yungas", 3, 38)),
		sale("o4", domain.StatusPending, 1, line("Caturra", 10, 45)),
		sale("o5", domain.StatusCancelled, 1, line("Geisha", 10, 120)),
		sale("o6", domain.StatusDelivered, 20, line("Geisha", 5, 120)),
		{ID: "o7", Status: domain.StatusDelivered, Total: decimal.NewFromInt(99)},
	}

	report, err := BuildSalesReport(orders, "7days", reportNow)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalOrders)
	assert.Equal(t, "369", report.TotalSales.String())
	assert.Equal(t, "123", report.AverageOrderValue.String())

	require.Len(t, report.TopProducts, 3)
	assert.Equal(t, "Caturra", report.TopProducts[0].Name)
	assert.Equal(t, 3, report.TopProducts[0].Quantity)
	assert.Equal(t, "135", report.TopProducts[0].Revenue.String())
	assert.Equal(t, "Geisha", report.TopProducts[1].Name)
	assert.Equal(t, "Yungas", report.TopProducts[2].Name)

	require.Len(t, report.DailySales, 3)
	assert.Equal(t, "2025-06-15", report.DailySales[0].Date)
	assert.Equal(t, "2025-06-14", report.DailySales[1].Date)
	assert.Equal(t, "2025-06-13", report.DailySales[2].Date)
	assert.Equal(t, "165", report.DailySales[1].Sales.String())
	assert.Equal(t, 1, report.DailySales[0].Orders)

	wide, err := BuildSalesReport(orders, "30days", reportNow)
	require.NoError(t, err)
	assert.Equal(t, 4, wide.TotalOrders)
}

func TestBuildSalesReport_Empty(t *testing.T) {
	report, err := BuildSalesReport(nil, "1day", reportNow)
	require.NoError(t, err)
	assert.Zero(t, report.TotalOrders)
	assert.True(t, report.AverageOrderValue.IsZero())
	assert.NotNil(t, report.TopProducts)
	assert.NotNil(t, report.DailySales)

	_, err = BuildSalesReport(nil, "2weeks", reportNow)
	assert.ErrorIs(t, err, ErrUnknownRange)
}

func TestSalesReport_Service(t *testing.T) {
	api := newMockAPI(t)
	api.listOrders = func(_ string, q backend.OrderQuery) (domain.OrderPage, error) {
		assert.Equal(t, 1000, q.Limit)
		assert.Empty(t, q.Status)
		return domain.OrderPage{Orders: []domain.Order{
			sale("o1", domain.StatusDelivered, 0, line("Caturra", 1, 45)),
		}}, nil
	}
	sess := newTestSession()
	svc := NewReportService(api, sess, zap.NewNop()).(*reportService)
	svc.now = func() time.Time { return reportNow }

	_, err := svc.Sales(context.Background(), "")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	signIn(sess, domain.RoleUser)
	_, err = svc.Sales(context.Background(), "")
	require.ErrorIs(t, err, ErrNotAdmin)

	signIn(sess, domain.RoleAdmin)
	report, err := svc.Sales(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRange, report.Range)
	assert.Equal(t, 1, report.TotalOrders)
}

// Property: the report never lists more than 5 products or 7 days, both
// lists are sorted descending, and every in-window sale is counted
func TestProperty_SalesReportBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("report respects its limits", prop.ForAll(
		func(days []int, qty int) bool {
			names := []string{"A", "B", "C", "D", "E", "F", "G"}
			var orders []domain.Order
			for i, d := range days {
				orders = append(orders, sale("o", domain.StatusDelivered, d, line(names[i%len(names)], qty, int64(i+1))))
			}

			report, err := BuildSalesReport(orders, "90days", reportNow)
			if err != nil {
				return false
			}
			if len(report.TopProducts) > 5 || len(report.DailySales) > 7 {
				return false
			}
			for i := 1; i < len(report.TopProducts); i++ {
				if report.TopProducts[i].Revenue.GreaterThan(report.TopProducts[i-1].Revenue) {
					return false
				}
			}
			for i := 1; i < len(report.DailySales); i++ {
				if report.DailySales[i].Date >= report.DailySales[i-1].Date {
					return false
				}
			}
			return report.TotalOrders == len(orders)
		},
		gen.SliceOf(gen.IntRange(0, 80)),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
