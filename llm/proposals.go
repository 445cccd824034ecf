package llm

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Proposal is an AI-suggested edit to a knowledge item, held in memory
// until a human applies or rejects it. Unclaimed proposals live for the
// process lifetime; volumes are bounded by interactive usage.
type Proposal struct {
	ID              string    `json:"id"`
	KnowledgeItemID uint      `json:"knowledgeItemId"`
	ProposedTitle   string    `json:"proposedTitle"`
	ProposedContent string    `json:"proposedContent"`
	Summary         string    `json:"summary"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProposalCache is a concurrency-safe in-memory proposal store.
type ProposalCache struct {
	mu        sync.RWMutex
	proposals map[string]*Proposal
}

func NewProposalCache() *ProposalCache {
	return &ProposalCache{proposals: make(map[string]*Proposal)}
}

// Store assigns the proposal a fresh id, inserts it and returns the id.
func (c *ProposalCache) Store(p *Proposal) string {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	c.mu.Lock()
	c.proposals[p.ID] = p
	c.mu.Unlock()
	return p.ID
}

// Get returns the proposal for id, if it is still pending.
func (c *ProposalCache) Get(id string) (*Proposal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.proposals[id]
	return p, ok
}

// Remove drops one proposal.
func (c *ProposalCache) Remove(id string) {
	c.mu.Lock()
	delete(c.proposals, id)
	c.mu.Unlock()
}

// ClearAllFor drops every pending proposal targeting one knowledge item.
func (c *ProposalCache) ClearAllFor(knowledgeItemID uint) {
	c.mu.Lock()
	for id, p := range c.proposals {
		if p.KnowledgeItemID == knowledgeItemID {
			delete(c.proposals, id)
		}
	}
	c.mu.Unlock()
}
