// Package idhash computes deterministic record identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"dynamic-pricing/internal/domain"
)

// ComputeHistoryID computes a deterministic price history record ID.
// Formula: SHA256(product_id|timestamp_ms|strategy|original|dynamic)
// Returns hex-encoded hash (64 characters). Deriving the ID from the decision
// itself makes duplicate appends detectable across store backends.
func ComputeHistoryID(productID string, timestamp time.Time, strategy domain.Strategy, originalPrice, dynamicPrice float64) string {
	data := fmt.Sprintf("%s|%d|%s|%.2f|%.2f",
		productID,
		timestamp.UnixMilli(),
		string(strategy),
		originalPrice,
		dynamicPrice,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeCompetitorID computes a deterministic competitor price record ID.
// Formula: SHA256(product_id|competitor_name|timestamp_ms|price)
func ComputeCompetitorID(productID, competitorName string, timestamp time.Time, price float64) string {
	data := fmt.Sprintf("%s|%s|%d|%.2f",
		productID,
		competitorName,
		timestamp.UnixMilli(),
		price,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
