package types

// AssetKind classifies a media asset
type AssetKind string

const (
	AssetAudio AssetKind = "audio"
	AssetVideo AssetKind = "video"
	AssetImage AssetKind = "image"
)

// MediaAsset is a file owned by a single pipeline run.
type MediaAsset struct {
	Path            string    `json:"path"`
	DurationSeconds float64   `json:"durationSeconds"`
	Kind            AssetKind `json:"kind"`
}

// SubtitleCue is one timed subtitle entry.
type SubtitleCue struct {
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
	Text         string  `json:"text"`
}
