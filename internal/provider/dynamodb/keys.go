package dynamodb

import "time"

// Single-table layout. Entity snapshots live under their own PK with a META
// sort key; maintenance events sort chronologically under their asset's PK.
// GSI1 serves the type-wide listings and the per-assignee work-order index.
const (
	prefixAsset = "ASSET#"
	prefixTech  = "TECH#"
	prefixOrder = "ORDER#"
	prefixEvent = "EVENT#"
	prefixType  = "TYPE#"

	skMeta = "META"

	gsi1Name = "GSI1"
)

func assetPK(id string) string  { return prefixAsset + id }
func techPK(id string) string   { return prefixTech + id }
func orderPK(id string) string  { return prefixOrder + id }
func metaSK() string            { return skMeta }
func typePK(entity string) string { return prefixType + entity }

func eventSK(createdAt time.Time, eventID string) string {
	return prefixEvent + createdAt.UTC().Format(time.RFC3339Nano) + "#" + eventID
}
