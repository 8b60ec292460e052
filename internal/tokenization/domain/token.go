package domain

import (
	"time"
)

// VaultEntry is one token mapping held by a storage-backed vault provider.
// Value is the envelope exactly as the gateway handed it over; it is opaque to the vault.
type VaultEntry struct {
	AccountID string
	Token     string
	Value     string
	Scheme    SchemeCode
	CreatedAt time.Time
}

// UsageStats is the reporting payload of storage-backed vaults.
type UsageStats struct {
	AccountID  string
	TokenCount int64
	LastIssued *time.Time
}

// AsMap renders the stats in the same loose shape remote vaults report.
func (u UsageStats) AsMap() map[string]any {
	stats := map[string]any{
		"AccountID":  u.AccountID,
		"TokenCount": u.TokenCount,
	}
	if u.LastIssued != nil {
		stats["LastIssued"] = u.LastIssued.UTC().Format(time.RFC3339)
	}
	return stats
}
