// Package domain holds typed identifiers shared across bounded contexts.
//
// Each aggregate gets its own UUID-backed type so that a slot ID can never be
// passed where a candidate ID is expected. Parsing happens once at the trust
// boundary (HTTP handlers, CLI, registry imports).
package domain

import (
	"github.com/google/uuid"

	dErrors "candilib/pkg/domain-errors"
)

type (
	CandidateID uuid.UUID
	SlotID      uuid.UUID
	CentreID    uuid.UUID
	InspectorID uuid.UUID
	ArchiveID   uuid.UUID
)

func NewCandidateID() CandidateID { return CandidateID(uuid.New()) }
func NewSlotID() SlotID           { return SlotID(uuid.New()) }
func NewCentreID() CentreID       { return CentreID(uuid.New()) }
func NewInspectorID() InspectorID { return InspectorID(uuid.New()) }
func NewArchiveID() ArchiveID     { return ArchiveID(uuid.New()) }

func (id CandidateID) String() string { return uuid.UUID(id).String() }
func (id SlotID) String() string      { return uuid.UUID(id).String() }
func (id CentreID) String() string    { return uuid.UUID(id).String() }
func (id InspectorID) String() string { return uuid.UUID(id).String() }
func (id ArchiveID) String() string   { return uuid.UUID(id).String() }

func (id CandidateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SlotID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id CentreID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id InspectorID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ArchiveID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

func ParseCandidateID(s string) (CandidateID, error) {
	u, err := parseUUID(s, "candidate id")
	return CandidateID(u), err
}

func ParseSlotID(s string) (SlotID, error) {
	u, err := parseUUID(s, "slot id")
	return SlotID(u), err
}

func ParseCentreID(s string) (CentreID, error) {
	u, err := parseUUID(s, "centre id")
	return CentreID(u), err
}

func ParseInspectorID(s string) (InspectorID, error) {
	u, err := parseUUID(s, "inspector id")
	return InspectorID(u), err
}

// parseUUID rejects empty, malformed and nil UUIDs with CodeInvalidInput.
func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}

// Text marshalling keeps identifiers as canonical UUID strings in JSON.

func (id CandidateID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id SlotID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id CentreID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id InspectorID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ArchiveID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func (id *CandidateID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SlotID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CentreID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *InspectorID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ArchiveID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
