package service

import (
	"sync"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
)

// Store owns every table of the decision workflow: projects,
// evaluations, decisions, investor authorizations and the pending
// disclosure requests. It is created once in main and injected into
// the services; there is no package-level instance.
//
// Each exported method is one serialized mutation or read; compound
// transitions (state change plus pending-table change) happen under a
// single lock so a call either fully commits or leaves no trace.
type Store struct {
	mu             sync.RWMutex
	nextProjectID  uint64
	projects       map[uint64]*model.Project
	evaluations    map[uint64]map[string]*model.Evaluation
	decisions      map[uint64]*model.Decision
	authorizations map[string]*model.Authorization
	pending        map[string]*model.PendingDisclosure
}

// NewStore creates an empty store. Project ids start at 1; id 0 is
// reserved and never assigned.
func NewStore() *Store {
	return &Store{
		nextProjectID:  1,
		projects:       make(map[uint64]*model.Project),
		evaluations:    make(map[uint64]map[string]*model.Evaluation),
		decisions:      make(map[uint64]*model.Decision),
		authorizations: make(map[string]*model.Authorization),
		pending:        make(map[string]*model.PendingDisclosure),
	}
}

// CreateProject assigns the next sequential id to p, marks it open
// and stores it. Returns the assigned id.
func (s *Store) CreateProject(p *model.Project) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextProjectID
	s.nextProjectID++
	p.State = model.StateOpen
	s.projects[p.ID] = p
	return p.ID
}

// GetProject returns the project with the given id, or nil
func (s *Store) GetProject(id uint64) *model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects[id]
}

// NextProjectID returns the id the next submission will receive
func (s *Store) NextProjectID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextProjectID
}

// ProjectCount returns the number of stored projects
func (s *Store) ProjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// OpenProjectCount returns how many projects are still accepting
// evaluations at the given instant. Linear scan over all projects.
func (s *Store) OpenProjectCount(now time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.projects {
		if p.State == model.StateOpen && !now.After(p.DecisionDeadline) {
			count++
		}
	}
	return count
}

// SaveAuthorization creates or overwrites the authorization entry for
// an account. Entries are never deleted.
func (s *Store) SaveAuthorization(a *model.Authorization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorizations[a.Account] = a
}

// GetAuthorization returns the authorization entry for account, or nil
func (s *Store) GetAuthorization(account string) *model.Authorization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authorizations[account]
}

// IsAuthorized reports whether account is an authorized investor
func (s *Store) IsAuthorized(account string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a := s.authorizations[account]
	return a != nil && a.Authorized
}

// AppendEvaluation stores e and appends the evaluator to the
// project's evaluator sequence in one step. The duplicate check is
// repeated under the write lock so the once-per-key invariant holds
// even if two calls for the same key pass the collector's read-side
// checks back to back.
func (s *Store) AppendEvaluation(e *model.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projects[e.ProjectID]
	if p == nil || p.State != model.StateOpen {
		return model.ErrProjectNotActive
	}

	byAccount := s.evaluations[e.ProjectID]
	if byAccount == nil {
		byAccount = make(map[string]*model.Evaluation)
		s.evaluations[e.ProjectID] = byAccount
	}
	if _, ok := byAccount[e.Evaluator]; ok {
		return model.ErrDuplicateEvaluation
	}

	byAccount[e.Evaluator] = e
	p.Evaluators = append(p.Evaluators, e.Evaluator)
	return nil
}

// GetEvaluation returns the evaluation for (projectID, account), or nil
func (s *Store) GetEvaluation(projectID uint64, account string) *model.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluations[projectID][account]
}

// HasEvaluated reports whether account has evaluated the project
func (s *Store) HasEvaluated(projectID uint64, account string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.evaluations[projectID][account]
	return ok
}

// Evaluators returns a copy of the project's evaluator sequence in
// evaluation order
func (s *Store) Evaluators(projectID uint64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.projects[projectID]
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Evaluators))
	copy(out, p.Evaluators)
	return out
}

// MarkAwaitingDisclosure is the sole open -> awaiting_disclosure
// transition. It re-validates the state and records the pending
// disclosure entry under one lock, so a project can never carry two
// outstanding requests.
func (s *Store) MarkAwaitingDisclosure(projectID uint64, requestID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.projects[projectID]
	if p == nil {
		return model.ErrProjectNotActive
	}
	switch p.State {
	case model.StateDecided:
		return model.ErrAlreadyDecided
	case model.StateAwaitingDisclosure:
		return model.ErrProjectNotActive
	}

	p.State = model.StateAwaitingDisclosure
	s.pending[requestID] = &model.PendingDisclosure{
		RequestID:   requestID,
		ProjectID:   projectID,
		RequestedAt: now,
	}
	return nil
}

// GetPendingDisclosure returns the pending entry for requestID, or nil
func (s *Store) GetPendingDisclosure(requestID string) *model.PendingDisclosure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[requestID]
}

// PendingDisclosureCount returns the number of outstanding requests
func (s *Store) PendingDisclosureCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// CommitDecision is the sole awaiting_disclosure -> decided
// transition. It writes the terminal decision record, flips the
// project state and consumes the pending entry atomically. A second
// commit for the same request fails with ErrUnknownRequest because
// the entry is already gone.
func (s *Store) CommitDecision(requestID string, d *model.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pd := s.pending[requestID]
	if pd == nil {
		return model.ErrUnknownRequest
	}

	p := s.projects[pd.ProjectID]
	if p == nil {
		return model.ErrProjectNotActive
	}

	d.ProjectID = pd.ProjectID
	p.State = model.StateDecided
	s.decisions[pd.ProjectID] = d
	delete(s.pending, requestID)
	return nil
}

// GetDecision returns the terminal decision for a project, or nil
func (s *Store) GetDecision(projectID uint64) *model.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decisions[projectID]
}
