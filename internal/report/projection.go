package report

import (
	"context"
	"fmt"

	"villabook/internal/core"
)

// ForwardBucketSource produces the bucket for a single future month.
//
// The shipped implementations look up bookings and expenses already on
// record with future dates; they do not forecast. The interface exists so a
// statistical forecaster can be swapped in later without touching Extend or
// the aggregation contract.
type ForwardBucketSource interface {
	BucketFor(ctx context.Context, month core.MonthKey) (core.MonthBucket, error)
}

// Extend appends horizonMonths projection buckets after the last historical
// month, each produced by the source and flagged IsProjection. The
// historical slice is returned unchanged when the horizon is zero or
// negative or when there is no history to extend from.
func Extend(ctx context.Context, historical []core.MonthBucket, horizonMonths int, source ForwardBucketSource) ([]core.MonthBucket, error) {
	if horizonMonths <= 0 || len(historical) == 0 {
		return historical, nil
	}

	out := make([]core.MonthBucket, len(historical), len(historical)+horizonMonths)
	copy(out, historical)

	month := historical[len(historical)-1].Month
	for i := 0; i < horizonMonths; i++ {
		month = month.Next()
		bucket, err := source.BucketFor(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("project month %s: %w", month, err)
		}
		bucket.Month = month
		bucket.IsProjection = true
		out = append(out, bucket)
	}
	return out, nil
}

// SnapshotSource serves forward buckets from in-memory booking and expense
// snapshots, re-running Aggregate restricted to one month at a time.
type SnapshotSource struct {
	Bookings []core.Booking
	Expenses []core.Expense
}

func (s SnapshotSource) BucketFor(_ context.Context, month core.MonthKey) (core.MonthBucket, error) {
	buckets := Aggregate(s.Bookings, s.Expenses, MonthWindow(month))
	if len(buckets) == 0 {
		return core.MonthBucket{Month: month}, nil
	}
	return buckets[0], nil
}
