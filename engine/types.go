/*
Package engine provides the income aggregation and quota validation core.

PURPOSE:
  This package contains the pure computation shared by every screen that
  assigns field partners (mitra) to survey tasks: summing a partner's
  projected honorarium income across assignments, comparing it against a
  configured yearly ceiling, and tracking allocated work volume per
  position against a target quota.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A rupiah amount backed by decimal.Decimal
  - Partner: A field worker (read-only input)
  - RateCard: Tariff + target volume for a (sub-activity, position) pair
  - LimitRule: Yearly income ceiling
  - AssignmentTask / AssignmentMembership: A task and its member records

DESIGN PRINCIPLES:
  1. Purity: Every computation reads a Snapshot and returns a value.
     The engine never mutates stored data and holds no cache.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
     in honorarium arithmetic.
  3. Type Safety: Strong typing for IDs prevents mixing partner,
     task, and sub-activity identifiers.
  4. Full Context: Validation results carry every intermediate figure,
     never a bare pass/fail.

USAGE:
  snap := engine.NewSnapshot(engine.SnapshotInput{...})
  v := engine.NewValidator(snap)
  result, err := v.Validate(engine.Candidate{...})

SEE ALSO:
  - snapshot.go: The read-only reference data bundle
  - validator.go: Candidate evaluation
  - income.go: Honorarium aggregation
  - quota.go: Volume-vs-target tracking
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Rupiah amount with decimal precision
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

func NewMoneyFromFloat(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(other Money) Money      { return Money{Value: m.Value.Add(other.Value)} }
func (m Money) Sub(other Money) Money      { return Money{Value: m.Value.Sub(other.Value)} }
func (m Money) MulInt(n int) Money         { return Money{Value: m.Value.Mul(decimal.NewFromInt(int64(n)))} }
func (m Money) IsZero() bool               { return m.Value.IsZero() }
func (m Money) IsNegative() bool           { return m.Value.IsNegative() }
func (m Money) IsPositive() bool           { return m.Value.IsPositive() }
func (m Money) Equal(other Money) bool     { return m.Value.Equal(other.Value) }
func (m Money) GreaterThan(o Money) bool   { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool      { return m.Value.LessThan(o.Value) }
func (m Money) Float64() float64           { f, _ := m.Value.Float64(); return f }
func (m Money) String() string             { return m.Value.StringFixed(0) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PartnerID string
type SubActivityID int64
type TaskID string
type PositionCode string

// =============================================================================
// REFERENCE DATA - Read-only inputs to the engine
// =============================================================================

// Partner is a field worker. Immutable for the engine's purposes.
type Partner struct {
	ID         PartnerID
	Name       string
	NationalID string
}

// SubActivity is a schedulable unit of survey work. Its start date
// determines the effective year and month of tasks created under it.
type SubActivity struct {
	ID       SubActivityID
	Name     string
	Activity string // parent activity name, used by free-text import matching
	Start    time.Time
}

// RateCard defines the tariff and quota for one position within one
// sub-activity. Created by planners; read-only here.
type RateCard struct {
	SubActivityID SubActivityID
	Position      PositionCode
	Tariff        Money
	Unit          string // e.g. "dokumen", "responden", "desa"
	TargetVolume  int
}

// LimitRule caps a partner's cumulative honorarium for one year.
// A year with no rule is unbounded, not zero.
type LimitRule struct {
	Year    int
	Ceiling Money
}

// =============================================================================
// ASSIGNMENT RECORDS - The mutable units the engine reasons about
// =============================================================================

// AssignmentTask is a task header. Its start date determines which
// window its memberships fall in.
type AssignmentTask struct {
	ID            TaskID
	SubActivityID SubActivityID
	Name          string
	Start         time.Time
}

// AssignmentMembership assigns a partner to a task with a position and
// a work volume. Volume should be a positive integer; the engine
// tolerates zero or negative volume as a zero contribution.
type AssignmentMembership struct {
	PartnerID PartnerID
	TaskID    TaskID
	Position  PositionCode
	Volume    int
}

// Honorarium returns tariff x volume for this membership under the
// given rate card. Non-positive volume contributes zero.
func (m AssignmentMembership) Honorarium(rc RateCard) Money {
	if m.Volume <= 0 {
		return ZeroMoney()
	}
	return rc.Tariff.MulInt(m.Volume)
}
