package models

import (
	"encoding/json"
	"time"
)

// RecordStatus represents the outcome of a generation request
type RecordStatus string

const (
	RecordStatusGenerated RecordStatus = "generated"
	RecordStatusFlagged   RecordStatus = "flagged"
	RecordStatusFailed    RecordStatus = "failed"
)

// ContentRecord represents one generation request/response cycle.
// The core treats it as ephemeral; persistence happens only at the CLI and
// scheduler call sites for history and auditing.
type ContentRecord struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Description     string       `gorm:"type:text;not null" json:"description"`
	Platform        string       `gorm:"index;not null" json:"platform"`
	ContentType     string       `json:"content_type"`
	Prompt          string       `gorm:"type:text" json:"prompt"`
	Content         string       `gorm:"type:text" json:"content"`
	PrimaryKeywords StringSlice  `gorm:"type:json" json:"primary_keywords"`
	ReportJSON      JSON         `gorm:"type:json" json:"report"`
	Valid           bool         `json:"valid"`
	OverallScore    float64      `json:"overall_score"`
	Status          RecordStatus `gorm:"default:'generated'" json:"status"`
	ErrorMessage    string       `json:"error_message"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// SetReport stores the validation report on the record and mirrors its
// headline fields into the indexed columns.
func (r *ContentRecord) SetReport(report *ValidationReport) {
	r.Valid = report.Valid
	if report.Metrics.PlatformScores != nil {
		r.OverallScore = report.Metrics.PlatformScores.Overall.Score
	}
	if !report.Valid {
		r.Status = RecordStatusFlagged
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return
	}
	r.ReportJSON = m
}
