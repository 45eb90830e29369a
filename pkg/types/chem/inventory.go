package chem

import (
	"time"

	"github.com/turtacn/ChemReg-Ledger/pkg/types/common"
)

// Tier identifies the emission-estimation methodology, in descending order of
// measurement directness.
type Tier string

const (
	TierContinuous     Tier = "TIER1_CONTINUOUS"
	TierPeriodic       Tier = "TIER2_PERIODIC"
	TierMassBalance    Tier = "TIER3_MASS_BALANCE"
	TierEmissionFactor Tier = "TIER4_EMISSION_FACTOR"
)

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierContinuous, TierPeriodic, TierMassBalance, TierEmissionFactor:
		return true
	}
	return false
}

// EmissionEstimate is the result of one emission calculation for one row.
// Overwritten on recomputation.
type EmissionEstimate struct {
	AmountKg     float64   `json:"amount_kg"`
	Method       Tier      `json:"method"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// InventoryRow is one row of the company ledger. Uniqueness is keyed by CAS
// number within one inventory.
type InventoryRow struct {
	ID             common.ID         `json:"id"`
	ProcessName    string            `json:"process_name"`
	Workplace      string            `json:"workplace,omitempty"`
	ProductName    string            `json:"product_name"`
	Alias          string            `json:"alias,omitempty"`
	Identity       Identity          `json:"identity"`
	ContentPercent string            `json:"content_percent"`
	Compliance     ComplianceRecord  `json:"compliance"`
	Emission       *EmissionEstimate `json:"emission,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// InventorySummary aggregates counts over one inventory.
type InventorySummary struct {
	Total          int `json:"total"`
	Hazardous      int `json:"hazardous"`
	PRTRApplicable int `json:"prtr_applicable"`
	WithEmission   int `json:"with_emission"`
}

// BatchItem is one row of a batch upload: a CAS number plus optional context.
type BatchItem struct {
	CAS            CASNumber `json:"cas"`
	ProcessName    string    `json:"process_name,omitempty"`
	Workplace      string    `json:"workplace,omitempty"`
	ProductName    string    `json:"product_name,omitempty"`
	Alias          string    `json:"alias,omitempty"`
	ContentPercent string    `json:"content_percent,omitempty"`
}

// BatchSummary is the per-row outcome tally reported after a batch run.
// Failures never abort the batch; they are counted here instead.
type BatchSummary struct {
	Total      int `json:"total"`
	Succeeded  int `json:"succeeded"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
	Hazardous  int `json:"hazardous"`
}

// JobStatus tracks the lifecycle of an asynchronous batch job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// BatchJob is an asynchronous batch lookup request flowing through the queue.
type BatchJob struct {
	ID          common.ID    `json:"id"`
	Items       []BatchItem  `json:"items"`
	Status      JobStatus    `json:"status"`
	Summary     BatchSummary `json:"summary"`
	SubmittedAt time.Time    `json:"submitted_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
