package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sortdhq/sortd/internal/types"
)

// NewProposalID mints a queue-unique proposal id: prp_<unix-ms>_<random>.
func NewProposalID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("prp_%d_%s", time.Now().UnixMilli(), suffix)
}

// LoadProposals returns the persisted queue, newest first. A missing or
// corrupt file means an empty queue.
func (s *Store) LoadProposals() []types.ProposalState {
	var proposals []types.ProposalState
	if !s.readJSON(s.proposalsPath(), &proposals) {
		return nil
	}
	return proposals
}

// SaveProposals atomically persists the full queue.
func (s *Store) SaveProposals(proposals []types.ProposalState) error {
	if proposals == nil {
		proposals = []types.ProposalState{}
	}
	return s.writeJSON(s.proposalsPath(), proposals)
}

// AddProposal mints a pending proposal, prepends it to the queue,
// persists, and returns it. Newest-first ordering is a presentation
// convenience, not a correctness requirement.
func (s *Store) AddProposal(op types.Operation, payload map[string]interface{}) (*types.ProposalState, error) {
	proposal := types.ProposalState{
		ID:        NewProposalID(),
		Operation: op,
		Status:    types.ProposalPending,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}

	err := s.withQueueLock(func() error {
		proposals := append([]types.ProposalState{proposal}, s.LoadProposals()...)
		return s.SaveProposals(proposals)
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// UpdateProposal replaces the queue entry with a matching id, or
// prepends the proposal if it is absent. The tolerant upsert guards
// against an entry removed externally between load and save.
func (s *Store) UpdateProposal(p *types.ProposalState) error {
	return s.withQueueLock(func() error {
		proposals := s.LoadProposals()
		replaced := false
		for i := range proposals {
			if proposals[i].ID == p.ID {
				proposals[i] = *p
				replaced = true
				break
			}
		}
		if !replaced {
			proposals = append([]types.ProposalState{*p}, proposals...)
		}
		return s.SaveProposals(proposals)
	})
}

// GetProposal scans the queue for id.
func (s *Store) GetProposal(id string) (*types.ProposalState, bool) {
	for _, p := range s.LoadProposals() {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

// RemoveProposal deletes the entry with id from the queue. Used only by
// the explicit archive command; proposals are never removed
// automatically.
func (s *Store) RemoveProposal(id string) (bool, error) {
	found := false
	err := s.withQueueLock(func() error {
		proposals := s.LoadProposals()
		kept := proposals[:0]
		for _, p := range proposals {
			if p.ID == id {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return nil
		}
		return s.SaveProposals(kept)
	})
	return found, err
}
