/*
snapshot.go - Read-only reference data bundle

PURPOSE:
  A Snapshot is the complete set of reference data one validation or
  preview call computes over: partners, sub-activities, rate cards,
  limit rules, tasks, and existing memberships. The caller fetches it
  (store layer, one query batch) and hands it to the engine.

KEY INVARIANT:
  The engine holds NO internal mutable state and performs NO I/O.
  Everything is recomputed fresh from the snapshot on every call, so
  computing twice over the same snapshot yields identical results and
  there is no cache whose staleness can leak into a number.

WHY NOT A LIVE STORE HANDLE?
  Validation is a read-then-decide step. Giving the engine a frozen
  snapshot makes the speculative "preview" path and the post-commit
  path provably identical: both are the same function over data.
  The commit step is responsible for re-validating against a freshly
  fetched snapshot inside a transaction (see importer.Committer).

SEE ALSO:
  - validator.go: The main consumer
  - store/sqlite: Assembles snapshots from the database
*/
package engine

// rateKey identifies a rate card within a snapshot.
type rateKey struct {
	SubActivityID SubActivityID
	Position      PositionCode
}

// SnapshotInput carries the raw reference data slices.
type SnapshotInput struct {
	Partners      []Partner
	SubActivities []SubActivity
	RateCards     []RateCard
	LimitRules    []LimitRule
	Tasks         []AssignmentTask
	Memberships   []AssignmentMembership
}

// Snapshot indexes reference data for the resolvers, the aggregator,
// and the quota tracker. Build once per call, treat as immutable.
type Snapshot struct {
	partners      map[PartnerID]Partner
	subActivities map[SubActivityID]SubActivity
	rateCards     map[rateKey]RateCard
	limitRules    map[int]LimitRule
	tasks         map[TaskID]AssignmentTask

	memberships          []AssignmentMembership
	membershipsByPartner map[PartnerID][]int
	membershipsByTask    map[TaskID][]int
	tasksBySubActivity   map[SubActivityID][]TaskID
}

// NewSnapshot builds the indexes. Later duplicates win for keyed
// reference data, matching how planners overwrite rows upstream.
func NewSnapshot(in SnapshotInput) *Snapshot {
	s := &Snapshot{
		partners:             make(map[PartnerID]Partner, len(in.Partners)),
		subActivities:        make(map[SubActivityID]SubActivity, len(in.SubActivities)),
		rateCards:            make(map[rateKey]RateCard, len(in.RateCards)),
		limitRules:           make(map[int]LimitRule, len(in.LimitRules)),
		tasks:                make(map[TaskID]AssignmentTask, len(in.Tasks)),
		memberships:          make([]AssignmentMembership, len(in.Memberships)),
		membershipsByPartner: make(map[PartnerID][]int),
		membershipsByTask:    make(map[TaskID][]int),
		tasksBySubActivity:   make(map[SubActivityID][]TaskID),
	}

	for _, p := range in.Partners {
		s.partners[p.ID] = p
	}
	for _, sa := range in.SubActivities {
		s.subActivities[sa.ID] = sa
	}
	for _, rc := range in.RateCards {
		s.rateCards[rateKey{rc.SubActivityID, rc.Position}] = rc
	}
	for _, lr := range in.LimitRules {
		s.limitRules[lr.Year] = lr
	}
	for _, t := range in.Tasks {
		if _, dup := s.tasks[t.ID]; !dup {
			s.tasksBySubActivity[t.SubActivityID] = append(s.tasksBySubActivity[t.SubActivityID], t.ID)
		}
		s.tasks[t.ID] = t
	}

	copy(s.memberships, in.Memberships)
	for i, m := range s.memberships {
		s.membershipsByPartner[m.PartnerID] = append(s.membershipsByPartner[m.PartnerID], i)
		s.membershipsByTask[m.TaskID] = append(s.membershipsByTask[m.TaskID], i)
	}

	return s
}

// =============================================================================
// ACCESSORS
// =============================================================================

func (s *Snapshot) Partner(id PartnerID) (Partner, bool) {
	p, ok := s.partners[id]
	return p, ok
}

func (s *Snapshot) SubActivity(id SubActivityID) (SubActivity, bool) {
	sa, ok := s.subActivities[id]
	return sa, ok
}

func (s *Snapshot) Task(id TaskID) (AssignmentTask, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// TaskForSubActivity returns the earliest-starting task under a
// sub-activity. Imports append members to this task.
func (s *Snapshot) TaskForSubActivity(id SubActivityID) (AssignmentTask, bool) {
	ids := s.tasksBySubActivity[id]
	if len(ids) == 0 {
		return AssignmentTask{}, false
	}
	best := s.tasks[ids[0]]
	for _, tid := range ids[1:] {
		if t := s.tasks[tid]; t.Start.Before(best.Start) {
			best = t
		}
	}
	return best, true
}

// Partners returns all partners, for free-text resolution.
func (s *Snapshot) Partners() []Partner {
	out := make([]Partner, 0, len(s.partners))
	for _, p := range s.partners {
		out = append(out, p)
	}
	return out
}

// SubActivities returns all sub-activities, for free-text resolution.
func (s *Snapshot) SubActivities() []SubActivity {
	out := make([]SubActivity, 0, len(s.subActivities))
	for _, sa := range s.subActivities {
		out = append(out, sa)
	}
	return out
}

// LimitRules returns all limit rules.
func (s *Snapshot) LimitRules() []LimitRule {
	out := make([]LimitRule, 0, len(s.limitRules))
	for _, lr := range s.limitRules {
		out = append(out, lr)
	}
	return out
}

// Tasks returns all tasks.
func (s *Snapshot) Tasks() []AssignmentTask {
	out := make([]AssignmentTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// Memberships returns a copy of all membership rows.
func (s *Snapshot) Memberships() []AssignmentMembership {
	out := make([]AssignmentMembership, len(s.memberships))
	copy(out, s.memberships)
	return out
}

// RateCards returns all rate cards, for position-name resolution.
func (s *Snapshot) RateCards() []RateCard {
	out := make([]RateCard, 0, len(s.rateCards))
	for _, rc := range s.rateCards {
		out = append(out, rc)
	}
	return out
}

func (s *Snapshot) membershipsOfPartner(id PartnerID) []int { return s.membershipsByPartner[id] }
func (s *Snapshot) membershipsOfTask(id TaskID) []int       { return s.membershipsByTask[id] }
func (s *Snapshot) taskIDsOfSubActivity(id SubActivityID) []TaskID {
	return s.tasksBySubActivity[id]
}
func (s *Snapshot) membership(i int) AssignmentMembership { return s.memberships[i] }
