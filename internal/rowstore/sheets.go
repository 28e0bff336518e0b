package rowstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/warungpos/apiserver/config"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const sheetsColumnSpan = "A:Z"

// SheetsStore persists rows in a Google Sheets spreadsheet. Each table
// is one sheet; the first row holds field names, and the row ID is the
// 1-based spreadsheet row index.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsStore constructs a Sheets-backed store from config.
func NewSheetsStore(ctx context.Context, cfg config.SheetsConfig) (*SheetsStore, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
	}, nil
}

// ListRows reads the whole sheet and maps each data row through the
// header row. Missing trailing cells map to empty strings.
func (s *SheetsStore) ListRows(ctx context.Context, table string) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, rangeRef(table, sheetsColumnSpan)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", ErrUpstream, table, err)
	}

	if len(resp.Values) < 2 {
		return nil, nil
	}

	headers := cellStrings(resp.Values[0])
	rows := make([]Row, 0, len(resp.Values)-1)
	for i, raw := range resp.Values[1:] {
		cells := cellStrings(raw)
		fields := make(map[string]string, len(headers))
		for j, header := range headers {
			if j < len(cells) {
				fields[header] = cells[j]
			} else {
				fields[header] = ""
			}
		}
		// Header occupies row 1, so data starts at row 2.
		rows = append(rows, Row{ID: strconv.Itoa(i + 2), Fields: fields})
	}
	return rows, nil
}

// AppendRow appends one row, ordering values by the sheet's header row.
func (s *SheetsStore) AppendRow(ctx context.Context, table string, fields map[string]string) error {
	values, err := s.orderedValues(ctx, table, fields)
	if err != nil {
		return err
	}

	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, rangeRef(table, sheetsColumnSpan), &sheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrUpstream, table, err)
	}
	return nil
}

// UpdateRow replaces the full row identified by its spreadsheet index.
func (s *SheetsStore) UpdateRow(ctx context.Context, table, rowID string, fields map[string]string) error {
	index, err := parseRowIndex(rowID)
	if err != nil {
		return err
	}

	values, err := s.orderedValues(ctx, table, fields)
	if err != nil {
		return err
	}

	rowRange := fmt.Sprintf("A%d:Z%d", index, index)
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeRef(table, rowRange), &sheets.ValueRange{
			Values: [][]interface{}{values},
		}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: update %s row %s: %v", ErrUpstream, table, rowID, err)
	}
	return nil
}

// DeleteRow clears the row's cells. Clearing keeps the indices of all
// other rows stable, which is what keeps row IDs opaque-but-valid.
func (s *SheetsStore) DeleteRow(ctx context.Context, table, rowID string) error {
	index, err := parseRowIndex(rowID)
	if err != nil {
		return err
	}

	rowRange := fmt.Sprintf("A%d:Z%d", index, index)
	_, err = s.svc.Spreadsheets.Values.
		Clear(s.spreadsheetID, rangeRef(table, rowRange), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: delete %s row %s: %v", ErrUpstream, table, rowID, err)
	}
	return nil
}

func (s *SheetsStore) orderedValues(ctx context.Context, table string, fields map[string]string) ([]interface{}, error) {
	headers, err := s.headerRow(ctx, table)
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(headers))
	for i, header := range headers {
		values[i] = fields[header]
	}
	return values, nil
}

func (s *SheetsStore) headerRow(ctx context.Context, table string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, rangeRef(table, "1:1")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: headers %s: %v", ErrUpstream, table, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return nil, fmt.Errorf("%w: table %s has no header row", ErrUpstream, table)
	}
	return cellStrings(resp.Values[0]), nil
}

func rangeRef(table, span string) string {
	if strings.Contains(table, " ") {
		return fmt.Sprintf("'%s'!%s", table, span)
	}
	return fmt.Sprintf("%s!%s", table, span)
}

func parseRowIndex(rowID string) (int, error) {
	index, err := strconv.Atoi(rowID)
	if err != nil || index < 2 {
		return 0, fmt.Errorf("%w: %q", ErrRowNotFound, rowID)
	}
	return index, nil
}

func cellStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = strings.TrimSpace(fmt.Sprint(cell))
	}
	return out
}
