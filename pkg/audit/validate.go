package audit

import (
	"fmt"
	"strings"
)

// field bounds from the AuditRecord contract. min == 0 means the field is
// optional.
type bound struct {
	name     string
	min, max int
	get      func(Record) string
}

var fieldBounds = []bound{
	{"eventId", 1, 64, func(r Record) string { return r.EventID }},
	{"eventName", 1, 128, func(r Record) string { return r.EventName }},
	{"eventType", 1, 64, func(r Record) string { return r.EventType }},
	{"hostName", 1, 128, func(r Record) string { return r.HostName }},
	{"hostIp", 1, 256, func(r Record) string { return r.HostIP }},
	{"applicationId", 1, 64, func(r Record) string { return r.ApplicationID }},
	{"applicationName", 1, 128, func(r Record) string { return r.ApplicationName }},
	{"sessionUserId", 1, 256, func(r Record) string { return r.SessionUserID }},
	{"createdBy", 1, 256, func(r Record) string { return r.CreatedBy }},
	{"sessionUserName", 0, 128, func(r Record) string { return r.SessionUserName }},
	{"id", 0, 64, func(r Record) string { return r.ID }},
	{"idType", 0, 64, func(r Record) string { return r.IDType }},
	{"moduleName", 0, 128, func(r Record) string { return r.ModuleName }},
	{"moduleId", 0, 64, func(r Record) string { return r.ModuleID }},
	{"description", 0, 2048, func(r Record) string { return r.Description }},
}

// ValidationError aggregates every violated rule for a single record so
// callers can report all of them at once instead of failing fast on the
// first one.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "audit record validation failed: " + strings.Join(e.Messages, "; ")
}

// Validate checks a record against the field-presence and length bounds
// from the data model. It never panics on well-formed input and has no
// side effects.
func Validate(r Record) error {
	var messages []string

	for _, b := range fieldBounds {
		value := b.get(r)
		length := len(value)

		if b.min > 0 && length < b.min {
			messages = append(messages, fmt.Sprintf("%s is required", b.name))
			continue
		}
		if length > b.max {
			messages = append(messages, fmt.Sprintf("%s must be at most %d characters, got %d", b.name, b.max, length))
		}
	}

	if r.ActionTimeStamp.IsZero() {
		messages = append(messages, "actionTimeStamp is required")
	}

	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}
