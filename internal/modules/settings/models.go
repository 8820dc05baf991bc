package settings

import "fmt"

// SettingDefaults holds all default values for configurable settings
var SettingDefaults = map[string]interface{}{
	// Watchlist shown on the dashboard and refreshed by the quote refresh job
	"watchlist": "AAPL,TSLA",

	// Default risk mode for the trade advisor ("Conservative" or "Aggressive")
	"default_risk_mode": "Conservative",

	// API credentials
	"gemini_api_key": "", // Gemini API key for the advice generator

	// Headline sentiment scoring service (optional; lexical fallback when empty)
	"sentiment_service_url": "",

	// Cloudflare R2 backup settings
	"r2_account_id":            "",
	"r2_access_key_id":         "",
	"r2_secret_access_key":     "",
	"r2_bucket_name":           "",
	"r2_backup_enabled":        0.0,  // 1.0 = enabled, 0.0 = disabled
	"r2_backup_retention_days": 90.0, // Days to keep backups (0 = keep forever)

	// Job scheduling intervals
	"job_quote_refresh_minutes": 15.0, // Watchlist quote refresh interval
	"job_maintenance_hour":      3.0,  // Daily maintenance hour (0-23)
}

// defaultString returns the default for key as a string, or "" when the key
// has no default or the default is not a string.
func defaultString(key string) string {
	if v, ok := SettingDefaults[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}
