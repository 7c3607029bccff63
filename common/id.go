package common

import (
	"database/sql/driver"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// EntryId identifies one rendered query stored in the catalog.
type EntryId xid.ID

// RunId identifies one catalog export.
type RunId uuid.UUID

// Scan implements sql.Scanner
func (id *EntryId) Scan(value interface{}) error {
	return (*xid.ID)(id).Scan(value)
}

// Value implements driver.Valuer
func (id EntryId) Value() (driver.Value, error) {
	return xid.ID(id).Value()
}

func (id EntryId) String() string {
	return xid.ID(id).String()
}

func NewEntryId() (EntryId, error) {
	guid := xid.New()
	return EntryId(guid), nil
}

// Scan implements sql.Scanner
func (id *RunId) Scan(value interface{}) error {
	return (*uuid.UUID)(id).Scan(value)
}

// Value implements driver.Valuer
func (id RunId) Value() (driver.Value, error) {
	return uuid.UUID(id).Value()
}

func (id RunId) String() string {
	return uuid.UUID(id).String()
}

func NewRunId() (RunId, error) {
	guid, err := uuid.NewRandom()
	if err != nil {
		return RunId{}, err
	}
	return RunId(guid), nil
}

func ParseRunId(s string) (RunId, error) {
	guid, err := uuid.Parse(s)
	if err != nil {
		return RunId{}, err
	}
	return RunId(guid), nil
}
