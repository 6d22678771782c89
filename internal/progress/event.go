// Package progress defines the event stream through which pipeline internals
// become observable. The pipeline knows nothing about jobs; it only emits.
package progress

import "time"

// Type discriminates the three event shapes carried on one stream.
type Type string

// Event types.
const (
	TypeStage    Type = "stage"
	TypeLog      Type = "log"
	TypeDownload Type = "download"
)

// Stage names a pipeline milestone.
type Stage string

// Pipeline milestones, in execution order.
const (
	StageStart             Stage = "start"
	StageValidateURL       Stage = "validate_url"
	StageClearOutput       Stage = "clear_output"
	StageScanning          Stage = "scanning"
	StageScanned           Stage = "scanned"
	StageDownloading       Stage = "downloading"
	StageDownloaded        Stage = "downloaded"
	StageRemovingBadge     Stage = "removing_badge"
	StageBadgeRemoved      Stage = "badge_removed"
	StageGeneratingSitemap Stage = "generating_sitemap"
	StageSitemapGenerated  Stage = "sitemap_generated"
	StageZipping           Stage = "zipping"
	StageZipped            Stage = "zipped"
	StageComplete          Stage = "complete"
	StageError             Stage = "error"
)

// DownloadStatus marks the two ends of a single asset fetch.
type DownloadStatus string

// Download statuses.
const (
	DownloadStart    DownloadStatus = "start"
	DownloadComplete DownloadStatus = "complete"
)

// Event is one observable step of a pipeline run. Stage is set for stage
// events, Source/Target/Status for download events, Message for log events
// and as extra context on terminal stages.
type Event struct {
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Stage     Stage          `json:"stage,omitempty"`
	Message   string         `json:"message,omitempty"`
	Source    string         `json:"source,omitempty"`
	Target    string         `json:"target,omitempty"`
	Status    DownloadStatus `json:"status,omitempty"`
}

// StageEvent builds a stage milestone event.
func StageEvent(stage Stage, ts time.Time) Event {
	return Event{Type: TypeStage, Stage: stage, Timestamp: ts}
}

// StageMessageEvent builds a stage event carrying extra context, such as the
// failure text on the terminal error stage.
func StageMessageEvent(stage Stage, msg string, ts time.Time) Event {
	return Event{Type: TypeStage, Stage: stage, Message: msg, Timestamp: ts}
}

// LogEvent builds a free-text diagnostic event.
func LogEvent(msg string, ts time.Time) Event {
	return Event{Type: TypeLog, Message: msg, Timestamp: ts}
}

// DownloadEvent marks the start or completion of one asset fetch. Target may
// be empty on start events.
func DownloadEvent(source, target string, status DownloadStatus, ts time.Time) Event {
	return Event{Type: TypeDownload, Source: source, Target: target, Status: status, Timestamp: ts}
}
