// Package google is the Google Sheets ledger backend. The worker mirrors
// booking rows and the cash-flow report into the owner's bookkeeping
// spreadsheet through it.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"villabook/internal/core"
	ports "villabook/internal/ledger"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	bookingsSheet string
	cashflowSheet string
}

// Ensure interface conformance
var (
	_ ports.BookingWriter  = (*Client)(nil)
	_ ports.BookingDeleter = (*Client)(nil)
	_ ports.CashFlowWriter = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID, plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: LEDGER_BOOKINGS_SHEET (default "Bookings"),
// LEDGER_CASHFLOW_SHEET (default "CashFlow").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	bookingsSheet := strings.TrimSpace(os.Getenv("LEDGER_BOOKINGS_SHEET"))
	if bookingsSheet == "" {
		bookingsSheet = "Bookings"
	}
	cashflowSheet := strings.TrimSpace(os.Getenv("LEDGER_CASHFLOW_SHEET"))
	if cashflowSheet == "" {
		cashflowSheet = "CashFlow"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		bookingsSheet: bookingsSheet,
		cashflowSheet: cashflowSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendBooking writes the booking as one row keyed by its database ID in
// column A. An existing row with the same ID is overwritten so edits and
// re-syncs stay idempotent.
func (c *Client) AppendBooking(ctx context.Context, id int64, b core.Booking) (string, error) {
	if err := b.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rowNum, err := c.findBookingRow(ctx, id)
	if err != nil {
		return "", err
	}
	if rowNum == 0 {
		// no existing row: append after the last used one
		rng := fmt.Sprintf("%s!A:A", c.bookingsSheet)
		resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("get sheet dimensions for %s: %w", c.bookingsSheet, err)
		}
		rowNum = len(resp.Values) + 1
	}

	dataRange := fmt.Sprintf("%s!A%d:H%d", c.bookingsSheet, rowNum, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{{
		id,
		b.Range.Start.Format("2006-01-02"),
		b.Range.End.Format("2006-01-02"),
		b.GuestName,
		b.GuestPhone,
		b.Amount.Units(),
		b.Prepayment.Units(),
		b.Notes,
	}}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("write booking row in sheet %s: %w", c.bookingsSheet, err)
	}

	return dataRange, nil
}

// DeleteBooking blanks the row keyed by the booking's ID. A missing row is
// treated as already deleted.
func (c *Client) DeleteBooking(ctx context.Context, id int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rowNum, err := c.findBookingRow(ctx, id)
	if err != nil {
		return err
	}
	if rowNum == 0 {
		return nil
	}

	dataRange := fmt.Sprintf("%s!A%d:H%d", c.bookingsSheet, rowNum, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{{"", "", "", "", "", "", "", ""}}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear booking row in sheet %s: %w", c.bookingsSheet, err)
	}
	return nil
}

// findBookingRow returns the 1-based row whose column A holds the given ID,
// or 0 when absent.
func (c *Client) findBookingRow(ctx context.Context, id int64) (int, error) {
	rng := fmt.Sprintf("%s!A:A", c.bookingsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	want := strconv.FormatInt(id, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == want {
			return i + 1, nil
		}
	}
	return 0, nil
}

// WriteCashFlow replaces the cash-flow tab with a header plus one row per
// bucket, in the same column order as the CSV export.
func (c *Client) WriteCashFlow(ctx context.Context, buckets []core.MonthBucket) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(buckets)+1)
	values = append(values, []any{"Month", "Type", "Bookings", "Prepayment", "Total Amount", "Expenses"})
	for _, b := range buckets {
		kind := "Historical"
		if b.IsProjection {
			kind = "Projection"
		}
		values = append(values, []any{
			b.Month.String(),
			kind,
			b.BookingsCount,
			b.Prepaid.Units(),
			b.Revenue.Units(),
			b.Expenses.Units(),
		})
	}

	clearRng := fmt.Sprintf("%s!A:F", c.cashflowSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear cashflow sheet %s: %w", c.cashflowSheet, err)
	}

	dataRange := fmt.Sprintf("%s!A1", c.cashflowSheet)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write cashflow sheet %s: %w", c.cashflowSheet, err)
	}
	return nil
}
