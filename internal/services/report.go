package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warungpos/apiserver/internal/storage"
	"github.com/warungpos/apiserver/internal/store"
	"github.com/warungpos/apiserver/types"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrReportsDisabled is returned when no object storage is configured.
var ErrReportsDisabled = errors.New("report storage not configured")

// ReportService builds xlsx sales reports and uploads them to object
// storage.
type ReportService struct {
	orders  OrderRepository
	stock   StockRepository
	storage *storage.Storage
}

// NewReportService constructs a ReportService. storage may be nil,
// which disables report generation.
func NewReportService(orders OrderRepository, stock StockRepository, objects *storage.Storage) *ReportService {
	return &ReportService{
		orders:  orders,
		stock:   stock,
		storage: objects,
	}
}

// GenerateSales fetches orders and stock, renders a workbook with one
// sheet per dataset, and uploads it. It returns the object key.
func (s *ReportService) GenerateSales(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "", ErrReportsDisabled
	}

	var (
		lines []store.OrderLineRow
		stock []types.StockRecord
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		lines, err = s.orders.ListLines(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		stock, err = s.stock.List(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return "", err
	}

	buf, err := renderSalesWorkbook(lines, stock)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/sales-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	if err := s.storage.Put(ctx, key, buf, int64(buf.Len()), xlsxContentType); err != nil {
		return "", err
	}
	return key, nil
}

func renderSalesWorkbook(lines []store.OrderLineRow, stock []types.StockRecord) (*bytes.Buffer, error) {
	book := excelize.NewFile()
	defer book.Close()

	const ordersSheet = "Orders"
	book.SetSheetName("Sheet1", ordersSheet)
	if err := writeRow(book, ordersSheet, 1, []interface{}{
		"order_id", "created_at", "item_name", "quantity", "line_amount", "cashier_name",
	}); err != nil {
		return nil, err
	}
	for i, line := range lines {
		err := writeRow(book, ordersSheet, i+2, []interface{}{
			line.OrderID,
			line.CreatedAt.Format(time.RFC3339),
			line.ItemName,
			line.Quantity,
			line.LineAmount,
			line.CashierName,
		})
		if err != nil {
			return nil, err
		}
	}

	const stockSheet = "Stock"
	if _, err := book.NewSheet(stockSheet); err != nil {
		return nil, err
	}
	if err := writeRow(book, stockSheet, 1, []interface{}{
		"item_name", "quantity", "updated_at",
	}); err != nil {
		return nil, err
	}
	for i, record := range stock {
		err := writeRow(book, stockSheet, i+2, []interface{}{
			record.ItemName,
			record.Quantity,
			record.UpdatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return nil, err
		}
	}

	return book.WriteToBuffer()
}

func writeRow(book *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return book.SetSheetRow(sheet, cell, &values)
}
