// Package types defines the core data model shared by the sortd CLI:
// items as the remote API returns them, the locally persisted session,
// and the proposal queue entries.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemType categorizes what kind of thing an item is.
type ItemType string

const (
	TypeAction  ItemType = "Action"
	TypeProject ItemType = "Project"
	TypeNote    ItemType = "Note"
)

// IsValid checks if the item type value is valid.
func (t ItemType) IsValid() bool {
	switch t {
	case TypeAction, TypeProject, TypeNote:
		return true
	}
	return false
}

// Bucket is the workflow classification assigned to an item.
type Bucket string

const (
	BucketInbox     Bucket = "inbox"
	BucketNext      Bucket = "next"
	BucketWaiting   Bucket = "waiting"
	BucketScheduled Bucket = "scheduled"
	BucketSomeday   Bucket = "someday"
	BucketDone      Bucket = "done"
)

// IsValid checks if the bucket value is valid.
func (b Bucket) IsValid() bool {
	switch b {
	case BucketInbox, BucketNext, BucketWaiting, BucketScheduled, BucketSomeday, BucketDone:
		return true
	}
	return false
}

// Operation names the mutation a proposal will perform when applied.
// The value is the discriminator for the payload shape.
type Operation string

const (
	OpItemsCreate Operation = "items.create"
	OpItemsTriage Operation = "items.triage"
)

// IsValid checks if the operation value is one the executor knows how to
// dispatch. Proposals are deserialized from disk, so this must be checked
// at runtime rather than assumed from the type.
func (op Operation) IsValid() bool {
	switch op {
	case OpItemsCreate, OpItemsTriage:
		return true
	}
	return false
}

// ProposalStatus is the lifecycle state of a queued proposal.
type ProposalStatus string

const (
	ProposalPending ProposalStatus = "pending"
	ProposalApplied ProposalStatus = "applied"
)

// ProposalState is one entry in the local proposal queue. A proposal is
// created pending, transitions to applied exactly once, and is never
// removed automatically.
type ProposalState struct {
	ID        string                 `json:"id"`
	Operation Operation              `json:"operation"`
	Status    ProposalStatus         `json:"status"`
	CreatedAt time.Time              `json:"createdAt"`
	AppliedAt *time.Time             `json:"appliedAt,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
}

// StoredUser is a read-only snapshot of the authenticated user, cached
// from the last successful me() call.
type StoredUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	DefaultOrgID string    `json:"default_org_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionState holds everything needed to make authenticated requests
// against one backend host. Persisted across invocations; a different
// host means a fresh session.
type SessionState struct {
	Host      string            `json:"host"`
	Cookies   map[string]string `json:"cookies"`
	CSRFToken string            `json:"csrfToken"`
	User      *StoredUser       `json:"user"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Organization is a remote org the user belongs to.
type Organization struct {
	OrgID string `json:"org_id"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

// ItemDoc is the item document embedded in an ItemRecord. The id field,
// when present, is the document's own identifier (a canonical URI),
// distinct from the record's item_id.
type ItemDoc struct {
	ID     string     `json:"id,omitempty"`
	Name   string     `json:"name"`
	Type   ItemType   `json:"type"`
	Bucket Bucket     `json:"bucket"`
	Notes  string     `json:"notes,omitempty"`
	DueAt  *time.Time `json:"due_at,omitempty"`
	Tags   []string   `json:"tags,omitempty"`
}

// ItemRecord is the remote-owned wrapper around an item document. The
// client never assigns item_id or canonical_id; it only reads them.
type ItemRecord struct {
	ItemID      string    `json:"item_id"`
	CanonicalID string    `json:"canonical_id"`
	Source      string    `json:"source,omitempty"`
	Item        ItemDoc   `json:"item"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePayload is the payload shape for items.create proposals.
type CreatePayload struct {
	OrgID  string     `json:"org_id,omitempty"`
	Name   string     `json:"name"`
	Type   ItemType   `json:"type"`
	Bucket Bucket     `json:"bucket"`
	Notes  string     `json:"notes,omitempty"`
	DueAt  *time.Time `json:"due_at,omitempty"`
	Tags   []string   `json:"tags,omitempty"`
}

// Doc converts the payload into the item document sent to the remote
// create endpoint.
func (p *CreatePayload) Doc() ItemDoc {
	return ItemDoc{
		Name:   p.Name,
		Type:   p.Type,
		Bucket: p.Bucket,
		Notes:  p.Notes,
		DueAt:  p.DueAt,
		Tags:   p.Tags,
	}
}

// TriagePayload is the payload shape for items.triage proposals.
// Item is the user-supplied identifier, resolved at execute time.
type TriagePayload struct {
	Item   string `json:"item"`
	Bucket Bucket `json:"bucket"`
	OrgID  string `json:"org_id,omitempty"`
}

// DecodeCreatePayload rebuilds a CreatePayload from a proposal's generic
// payload map. The map came from disk, so shape errors are reported, not
// panicked on.
func DecodeCreatePayload(m map[string]interface{}) (*CreatePayload, error) {
	var p CreatePayload
	if err := decodePayload(m, &p); err != nil {
		return nil, fmt.Errorf("items.create payload: %w", err)
	}
	return &p, nil
}

// DecodeTriagePayload rebuilds a TriagePayload from a proposal's generic
// payload map.
func DecodeTriagePayload(m map[string]interface{}) (*TriagePayload, error) {
	var p TriagePayload
	if err := decodePayload(m, &p); err != nil {
		return nil, fmt.Errorf("items.triage payload: %w", err)
	}
	return &p, nil
}

// PayloadMap converts a typed payload into the generic map stored in the
// proposal queue file.
func PayloadMap(payload interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("remap payload: %w", err)
	}
	return m, nil
}

func decodePayload(m map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
