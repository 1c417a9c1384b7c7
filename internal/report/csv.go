package report

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"

	"villabook/internal/core"
)

const csvBufferSize = 32 * 1024

// csvHeader is the export contract: consumers (spreadsheet imports, the
// owner's accountant) rely on this column order.
var csvHeader = []string{"Month", "Type", "Bookings", "Prepayment", "Total Amount", "Expenses"}

// WriteCSV writes the bucket series as CSV in the fixed export layout:
// month, type (Projection/Historical), bookings, prepayment, total amount,
// expenses.
func WriteCSV(w io.Writer, buckets []core.MonthBucket) error {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	cw := csv.NewWriter(buf)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range buckets {
		row := []string{
			b.Month.String(),
			bucketType(b),
			strconv.Itoa(b.BookingsCount),
			b.Prepaid.String(),
			b.Revenue.String(),
			b.Expenses.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

func bucketType(b core.MonthBucket) string {
	if b.IsProjection {
		return "Projection"
	}
	return "Historical"
}
