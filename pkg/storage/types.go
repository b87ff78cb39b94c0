package storage

import (
	"errors"
	"time"

	"github.com/gcpath/gcpath/pkg/bulletin"
	"github.com/gcpath/gcpath/pkg/snapshot"
)

// ErrNoSnapshot is returned when the database holds no snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Record is a stored snapshot together with its bookkeeping.
type Record struct {
	ID        string
	FetchedAt time.Time
	AsOf      bulletin.MonthYear
	Snapshot  *snapshot.Snapshot
}

// ChartDOL is the pseudo chart name used for DOL queue movements in the
// change log. Category then holds the queue name.
const ChartDOL = "dol"

// Change captures a single cutoff movement between two stored snapshots.
type Change struct {
	OccurredAt time.Time `json:"occurred_at"`

	Chart         string `json:"chart"`
	Category      string `json:"category"`
	Chargeability string `json:"chargeability,omitempty"`

	Old string `json:"old,omitempty"`
	New string `json:"new"`
}

// Stats summarizes the database.
type Stats struct {
	Snapshots   int
	Changes     int
	LatestID    string
	LatestAsOf  string
	LatestFetch time.Time
	OldestFetch time.Time
}
