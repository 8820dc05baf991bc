package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// Quotes move constantly; keep them just long enough to absorb bursts of
	// requests from the dashboard and the advisor batch.
	TTLQuote = 15 * time.Minute

	// Daily candles only change after the market closes.
	TTLHistory = 4 * time.Hour

	// The news query window is "last day", so headlines churn slowly.
	TTLHeadlines = 30 * time.Minute

	// Expired entries are kept around this long as stale fallbacks before the
	// cleanup job removes them.
	CleanupGrace = 24 * time.Hour
)
