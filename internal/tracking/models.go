package tracking

import "time"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CoordinateState is the transient per-session aggregate: the first reported
// coordinates of the current pass and the most recent ones.
type CoordinateState struct {
	Initial *Coordinates `json:"initial,omitempty"`
	Final   *Coordinates `json:"final,omitempty"`
}

// Complete reports whether a pass has both endpoints recorded.
func (s CoordinateState) Complete() bool {
	return s.Initial != nil && s.Final != nil
}

// Sample is one durably logged coordinate report.
type Sample struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Lat        float64   `json:"latitude"`
	Lng        float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

type ReportRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// CountersRequest carries the client-reported boundary counters. The original
// client submits them as strings, so they are parsed and range-checked
// server-side rather than trusted.
type CountersRequest struct {
	EnterCount  string `json:"enterCount"`
	ExitCount   string `json:"exitCount"`
	ElapsedTime string `json:"elapsedTime"`
}

type Counters struct {
	Enter          int
	Exit           int
	ElapsedSeconds float64
}

// Result is the per-pass summary view. Never persisted.
type Result struct {
	InitialLat     float64 `json:"initialLat"`
	InitialLng     float64 `json:"initialLng"`
	FinalLat       float64 `json:"finalLat"`
	FinalLng       float64 `json:"finalLng"`
	EnterCount     int     `json:"enterCount"`
	ExitCount      int     `json:"exitCount"`
	ElapsedSeconds float64 `json:"elapsedTime"`
	DistanceM      float64 `json:"distanceM"`
}
