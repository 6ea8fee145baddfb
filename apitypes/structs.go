// Package apitypes holds the request and response bodies of the Micropad
// control API.
package apitypes

import (
	"fmt"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 502)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server    string `json:"server"`
	Version   string `json:"version"`
	Connected bool   `json:"connected"`
}

type Profile struct {
	ID       string     `json:"id"`
	Active   bool       `json:"active"`
	Assigned int        `json:"assigned"`
	Rows     [][]string `json:"rows"`
}

type ProfileListResponse struct {
	Active   string    `json:"active"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	Profiles []Profile `json:"profiles"`
}

type ProfileActivateRequest struct {
	ID string `json:"id"`
}

// AssignRequest sets one key. Position is "row,col" or a flat index.
type AssignRequest struct {
	Position string `json:"position"`
	Combo    string `json:"combo"`
}

type PositionRequest struct {
	Position string `json:"position"`
}

type SwapRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type PresetRequest struct {
	Name string `json:"name"`
}

type Selection struct {
	State     string `json:"state"`
	Profile   string `json:"profile"`
	Position  string `json:"position,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Candidate string `json:"candidate,omitempty"`
}

// KeyEvent is a raw key press as reported by a UI.
type KeyEvent struct {
	Key   string   `json:"key"`
	Ctrl  bool     `json:"ctrl,omitempty"`
	Alt   bool     `json:"alt,omitempty"`
	Shift bool     `json:"shift,omitempty"`
	Meta  bool     `json:"meta,omitempty"`
	Held  []string `json:"held,omitempty"`
}

type SubmitRequest struct {
	Value string `json:"value"`
}

type CommitResponse struct {
	Command   string    `json:"command"`
	Sent      bool      `json:"sent"`
	Selection Selection `json:"selection"`
}

type SaveResponse struct {
	Saved bool `json:"saved"`
}

type ReloadResponse struct {
	Found     bool   `json:"found"`
	Recovered bool   `json:"recovered"`
	Detail    string `json:"detail,omitempty"`
}

type PushRequest struct {
	Profile string `json:"profile,omitempty"`
	Bulk    bool   `json:"bulk,omitempty"`
	Save    bool   `json:"save,omitempty"`
}

type CommandsResponse struct {
	Commands []string `json:"commands"`
}

type QueryResponse struct {
	Rows [][]string `json:"rows"`
}

// DeviceEvent is one decoded device line on the events stream.
type DeviceEvent struct {
	Kind  string     `json:"kind"`
	Index int        `json:"index,omitempty"`
	Text  string     `json:"text,omitempty"`
	Grid  [][]string `json:"grid,omitempty"`
	Raw   string     `json:"raw"`
}
