// Package domain defines the typed identifiers shared across features.
//
// Every aggregate gets its own UUID-backed ID type so the compiler rejects
// cross-entity mixups (passing a CaseID where an InmateID is expected).
// Parse helpers enforce the trust-boundary invariant: IDs must be valid,
// non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "gavel/pkg/domain-errors"
)

type (
	// UserID identifies a system user (judge, clerk, or prison officer).
	UserID uuid.UUID
	// SessionID identifies a login session.
	SessionID uuid.UUID
	// CaseID identifies a court case.
	CaseID uuid.UUID
	// EvidenceID identifies an evidence item attached to a case.
	EvidenceID uuid.UUID
	// HearingID identifies a scheduled hearing.
	HearingID uuid.UUID
	// CaseReportID identifies a case report.
	CaseReportID uuid.UUID
	// InmateID identifies an inmate record.
	InmateID uuid.UUID
	// InmateReportID identifies an inmate report.
	InmateReportID uuid.UUID
	// VisitorLogID identifies a visitor log entry.
	VisitorLogID uuid.UUID
	// ProgramID identifies an inmate program enrollment.
	ProgramID uuid.UUID
	// NotificationID identifies a notification.
	NotificationID uuid.UUID
	// EventID identifies an audit event.
	EventID uuid.UUID
)

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be nil")
	}
	return u, nil
}

// ParseUserID validates and converts a string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseSessionID validates and converts a string into a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session id")
	return SessionID(u), err
}

// ParseCaseID validates and converts a string into a CaseID.
func ParseCaseID(s string) (CaseID, error) {
	u, err := parseUUID(s, "case id")
	return CaseID(u), err
}

// ParseEvidenceID validates and converts a string into an EvidenceID.
func ParseEvidenceID(s string) (EvidenceID, error) {
	u, err := parseUUID(s, "evidence id")
	return EvidenceID(u), err
}

// ParseHearingID validates and converts a string into a HearingID.
func ParseHearingID(s string) (HearingID, error) {
	u, err := parseUUID(s, "hearing id")
	return HearingID(u), err
}

// ParseCaseReportID validates and converts a string into a CaseReportID.
func ParseCaseReportID(s string) (CaseReportID, error) {
	u, err := parseUUID(s, "report id")
	return CaseReportID(u), err
}

// ParseInmateID validates and converts a string into an InmateID.
func ParseInmateID(s string) (InmateID, error) {
	u, err := parseUUID(s, "inmate id")
	return InmateID(u), err
}

// ParseInmateReportID validates and converts a string into an InmateReportID.
func ParseInmateReportID(s string) (InmateReportID, error) {
	u, err := parseUUID(s, "report id")
	return InmateReportID(u), err
}

// ParseVisitorLogID validates and converts a string into a VisitorLogID.
func ParseVisitorLogID(s string) (VisitorLogID, error) {
	u, err := parseUUID(s, "visitor log id")
	return VisitorLogID(u), err
}

// ParseProgramID validates and converts a string into a ProgramID.
func ParseProgramID(s string) (ProgramID, error) {
	u, err := parseUUID(s, "program id")
	return ProgramID(u), err
}

// ParseNotificationID validates and converts a string into a NotificationID.
func ParseNotificationID(s string) (NotificationID, error) {
	u, err := parseUUID(s, "notification id")
	return NotificationID(u), err
}

func (v UserID) String() string         { return uuid.UUID(v).String() }
func (v SessionID) String() string      { return uuid.UUID(v).String() }
func (v CaseID) String() string         { return uuid.UUID(v).String() }
func (v EvidenceID) String() string     { return uuid.UUID(v).String() }
func (v HearingID) String() string      { return uuid.UUID(v).String() }
func (v CaseReportID) String() string   { return uuid.UUID(v).String() }
func (v InmateID) String() string       { return uuid.UUID(v).String() }
func (v InmateReportID) String() string { return uuid.UUID(v).String() }
func (v VisitorLogID) String() string   { return uuid.UUID(v).String() }
func (v ProgramID) String() string      { return uuid.UUID(v).String() }
func (v NotificationID) String() string { return uuid.UUID(v).String() }
func (v EventID) String() string        { return uuid.UUID(v).String() }

func (v UserID) IsNil() bool         { return uuid.UUID(v) == uuid.Nil }
func (v SessionID) IsNil() bool      { return uuid.UUID(v) == uuid.Nil }
func (v CaseID) IsNil() bool         { return uuid.UUID(v) == uuid.Nil }
func (v EvidenceID) IsNil() bool     { return uuid.UUID(v) == uuid.Nil }
func (v HearingID) IsNil() bool      { return uuid.UUID(v) == uuid.Nil }
func (v CaseReportID) IsNil() bool   { return uuid.UUID(v) == uuid.Nil }
func (v InmateID) IsNil() bool       { return uuid.UUID(v) == uuid.Nil }
func (v InmateReportID) IsNil() bool { return uuid.UUID(v) == uuid.Nil }
func (v VisitorLogID) IsNil() bool   { return uuid.UUID(v) == uuid.Nil }
func (v ProgramID) IsNil() bool      { return uuid.UUID(v) == uuid.Nil }
func (v NotificationID) IsNil() bool { return uuid.UUID(v) == uuid.Nil }
func (v EventID) IsNil() bool        { return uuid.UUID(v) == uuid.Nil }

func (v UserID) MarshalText() ([]byte, error)         { return uuid.UUID(v).MarshalText() }
func (v SessionID) MarshalText() ([]byte, error)      { return uuid.UUID(v).MarshalText() }
func (v CaseID) MarshalText() ([]byte, error)         { return uuid.UUID(v).MarshalText() }
func (v EvidenceID) MarshalText() ([]byte, error)     { return uuid.UUID(v).MarshalText() }
func (v HearingID) MarshalText() ([]byte, error)      { return uuid.UUID(v).MarshalText() }
func (v CaseReportID) MarshalText() ([]byte, error)   { return uuid.UUID(v).MarshalText() }
func (v InmateID) MarshalText() ([]byte, error)       { return uuid.UUID(v).MarshalText() }
func (v InmateReportID) MarshalText() ([]byte, error) { return uuid.UUID(v).MarshalText() }
func (v VisitorLogID) MarshalText() ([]byte, error)   { return uuid.UUID(v).MarshalText() }
func (v ProgramID) MarshalText() ([]byte, error)      { return uuid.UUID(v).MarshalText() }
func (v NotificationID) MarshalText() ([]byte, error) { return uuid.UUID(v).MarshalText() }
func (v EventID) MarshalText() ([]byte, error)        { return uuid.UUID(v).MarshalText() }

func (v *UserID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *SessionID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *CaseID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *EvidenceID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *HearingID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *CaseReportID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *InmateID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *InmateReportID) UnmarshalText(b []byte) error { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *VisitorLogID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *ProgramID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *NotificationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(v).UnmarshalText(b) }
func (v *EventID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(v).UnmarshalText(b) }

// NewUserID returns a freshly generated UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSessionID returns a freshly generated SessionID.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// NewCaseID returns a freshly generated CaseID.
func NewCaseID() CaseID { return CaseID(uuid.New()) }

// NewEvidenceID returns a freshly generated EvidenceID.
func NewEvidenceID() EvidenceID { return EvidenceID(uuid.New()) }

// NewHearingID returns a freshly generated HearingID.
func NewHearingID() HearingID { return HearingID(uuid.New()) }

// NewCaseReportID returns a freshly generated CaseReportID.
func NewCaseReportID() CaseReportID { return CaseReportID(uuid.New()) }

// NewInmateID returns a freshly generated InmateID.
func NewInmateID() InmateID { return InmateID(uuid.New()) }

// NewInmateReportID returns a freshly generated InmateReportID.
func NewInmateReportID() InmateReportID { return InmateReportID(uuid.New()) }

// NewVisitorLogID returns a freshly generated VisitorLogID.
func NewVisitorLogID() VisitorLogID { return VisitorLogID(uuid.New()) }

// NewProgramID returns a freshly generated ProgramID.
func NewProgramID() ProgramID { return ProgramID(uuid.New()) }

// NewNotificationID returns a freshly generated NotificationID.
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

// NewEventID returns a freshly generated EventID.
func NewEventID() EventID { return EventID(uuid.New()) }
