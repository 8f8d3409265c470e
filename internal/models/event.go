package models

import "time"

// FireEvent is a single stored fire/smoke detection alert.
// id and received_at are assigned by the store on insert; everything else is
// normalized client input plus request-derived metadata.
type FireEvent struct {
	ID                 string         `json:"id"`
	ReceivedAt         time.Time      `json:"received_at"`
	Timestamp          string         `json:"timestamp"`
	Score              string         `json:"score"`
	Best               map[string]any `json:"best,omitempty"`
	SnapshotFilename   string         `json:"snapshot_filename"`
	ImageURL           string         `json:"image_url"`
	CloudinaryPublicID string         `json:"cloudinary_public_id"`
	IP                 string         `json:"ip"`
	UserAgent          string         `json:"user_agent"`
}

// NormalizeEvent maps an untyped request body into a FireEvent, applying
// the default-on-mismatch rule field by field. A field that is absent or has
// the wrong type takes its default; nothing is ever rejected. This is the
// only place dynamic input is tolerated.
func NormalizeEvent(body map[string]any, now time.Time) FireEvent {
	ev := FireEvent{
		Timestamp:          stringOr(body["timestamp"], now.UTC().Format(time.RFC3339)),
		Score:              stringOr(body["score"], ""),
		SnapshotFilename:   stringOr(body["snapshot_filename"], ""),
		ImageURL:           stringOr(body["image_url"], ""),
		CloudinaryPublicID: stringOr(body["cloudinary_public_id"], ""),
	}

	// best is kept only when it decodes as a non-nil JSON object.
	if m, ok := body["best"].(map[string]any); ok && m != nil {
		ev.Best = m
	}

	return ev
}

// stringOr returns v when it is a string, otherwise def.
func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
