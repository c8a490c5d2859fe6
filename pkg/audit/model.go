// Package audit implements the durable, asynchronous audit event
// ingestion engine: validation, a write-ahead log on local disk, an
// in-memory buffer, a scheduled flusher, and an age-based retention
// sweeper sitting in front of an external AuditStore.
package audit

import "time"

// Record is the canonical audit event carrying identity, timing, origin,
// actor, and module context. Field names match the wire/WAL JSON encoding
// exactly (lowerCamelCase) so the on-disk format and any future transport
// share one representation.
type Record struct {
	EventID         string    `json:"eventId"`
	EventName       string    `json:"eventName"`
	EventType       string    `json:"eventType"`
	ActionTimeStamp time.Time `json:"actionTimeStamp"`
	HostName        string    `json:"hostName"`
	HostIP          string    `json:"hostIp"`
	ApplicationID   string    `json:"applicationId"`
	ApplicationName string    `json:"applicationName"`
	SessionUserID   string    `json:"sessionUserId"`
	SessionUserName string    `json:"sessionUserName,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	ID              string    `json:"id,omitempty"`
	IDType          string    `json:"idType,omitempty"`
	ModuleName      string    `json:"moduleName,omitempty"`
	ModuleID        string    `json:"moduleId,omitempty"`
	Description     string    `json:"description,omitempty"`
	// CreatedAt is set by the store on insert; the engine never reads it,
	// and it is encoded in the WAL like any other field.
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
