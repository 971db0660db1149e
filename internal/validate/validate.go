// Package validate checks candidate mutation payloads against the
// domain rules before they are queued and again before they are
// executed. A proposal loaded from disk may be stale relative to the
// current rules, so the gate runs in both places.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sortdhq/sortd/internal/types"
)

// Stable machine-readable issue codes.
const (
	CodeNameRequired            = "NAME_REQUIRED"
	CodeNameTooLong             = "NAME_TOO_LONG"
	CodeTypeInvalid             = "TYPE_INVALID"
	CodeBucketInvalid           = "BUCKET_INVALID"
	CodeBucketNotAllowedForType = "BUCKET_NOT_ALLOWED_FOR_TYPE"
	CodeTransitionInvalid       = "TRANSITION_INVALID"
	CodeTransitionNoop          = "TRANSITION_NOOP"
	CodeItemRefRequired         = "ITEM_REF_REQUIRED"
	CodeOrgIDInvalid            = "ORG_ID_INVALID"
	CodeDueInvalid              = "DUE_INVALID"
	CodePayloadInvalid          = "PAYLOAD_INVALID"
)

// orgIDRe is the client-side sanity shape for org identifiers; the
// server remains the authority on existence.
var orgIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// MaxNameLength caps item names. The web client enforces the same limit.
const MaxNameLength = 500

// Issue is a single validation finding with a stable code for scripted
// consumers and a human message.
type Issue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error carries every issue found in a payload, verbatim. Exit code 4.
type Error struct {
	Context string
	Issues  []Issue
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return fmt.Sprintf("%s: %s", e.Context, strings.Join(msgs, "; "))
}

// ErrIfInvalid returns a validation Error carrying issues when the list
// is non-empty, nil otherwise.
func ErrIfInvalid(issues []Issue, context string) error {
	if len(issues) == 0 {
		return nil
	}
	return &Error{Context: context, Issues: issues}
}

// Create checks an items.create payload.
func Create(p *types.CreatePayload) []Issue {
	var issues []Issue

	name := strings.TrimSpace(p.Name)
	if name == "" {
		issues = append(issues, Issue{
			Code:    CodeNameRequired,
			Field:   "name",
			Message: "item name is required",
		})
	} else if len(name) > MaxNameLength {
		issues = append(issues, Issue{
			Code:    CodeNameTooLong,
			Field:   "name",
			Message: fmt.Sprintf("item name exceeds %d characters", MaxNameLength),
		})
	}

	typeOK := p.Type.IsValid()
	if !typeOK {
		issues = append(issues, Issue{
			Code:    CodeTypeInvalid,
			Field:   "type",
			Message: fmt.Sprintf("invalid item type %q (expected Action, Project, or Note)", p.Type),
		})
	}

	if !p.Bucket.IsValid() {
		issues = append(issues, Issue{
			Code:    CodeBucketInvalid,
			Field:   "bucket",
			Message: fmt.Sprintf("invalid bucket %q", p.Bucket),
		})
	} else if typeOK && !BucketAllowed(p.Type, p.Bucket) {
		issues = append(issues, Issue{
			Code:    CodeBucketNotAllowedForType,
			Field:   "bucket",
			Message: fmt.Sprintf("bucket %q is not allowed for type %q", p.Bucket, p.Type),
		})
	}

	if issue := orgIDIssue(p.OrgID); issue != nil {
		issues = append(issues, *issue)
	}

	return issues
}

// orgIDIssue checks an optional org id. Empty is fine; the executor
// infers one later.
func orgIDIssue(orgID string) *Issue {
	if orgID == "" || orgIDRe.MatchString(orgID) {
		return nil
	}
	return &Issue{
		Code:    CodeOrgIDInvalid,
		Field:   "org_id",
		Message: fmt.Sprintf("malformed organization id %q", orgID),
	}
}

// Triage checks an items.triage payload. The source-bucket transition is
// checked separately at execute time, against the item's current remote
// bucket.
func Triage(p *types.TriagePayload) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Item) == "" {
		issues = append(issues, Issue{
			Code:    CodeItemRefRequired,
			Field:   "item",
			Message: "item identifier is required",
		})
	}

	if !p.Bucket.IsValid() {
		issues = append(issues, Issue{
			Code:    CodeBucketInvalid,
			Field:   "bucket",
			Message: fmt.Sprintf("invalid bucket %q", p.Bucket),
		})
	}

	if issue := orgIDIssue(p.OrgID); issue != nil {
		issues = append(issues, *issue)
	}

	return issues
}

// Transition checks a source -> target bucket move for an item of the
// given type.
func Transition(t types.ItemType, from, to types.Bucket) []Issue {
	var issues []Issue

	if from == to {
		return append(issues, Issue{
			Code:    CodeTransitionNoop,
			Field:   "bucket",
			Message: fmt.Sprintf("item is already in bucket %q", to),
		})
	}
	if t.IsValid() && !BucketAllowed(t, to) {
		return append(issues, Issue{
			Code:    CodeBucketNotAllowedForType,
			Field:   "bucket",
			Message: fmt.Sprintf("bucket %q is not allowed for type %q", to, t),
		})
	}
	if !TransitionAllowed(from, to) {
		issues = append(issues, Issue{
			Code:    CodeTransitionInvalid,
			Field:   "bucket",
			Message: fmt.Sprintf("cannot move item from %q to %q", from, to),
		})
	}

	return issues
}

// PayloadIssue wraps a payload decode failure as a validation issue so
// stale or foreign on-disk payloads surface through the normal gate.
func PayloadIssue(err error) []Issue {
	return []Issue{{
		Code:    CodePayloadInvalid,
		Message: err.Error(),
	}}
}
