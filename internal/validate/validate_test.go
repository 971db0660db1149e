package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortdhq/sortd/internal/types"
)

func codes(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func TestCreateValid(t *testing.T) {
	p := &types.CreatePayload{Name: "X", Type: types.TypeAction, Bucket: types.BucketNext}
	assert.Empty(t, Create(p))
}

func TestCreateIssues(t *testing.T) {
	tests := []struct {
		name    string
		payload types.CreatePayload
		want    []string
	}{
		{
			name:    "missing name",
			payload: types.CreatePayload{Type: types.TypeAction, Bucket: types.BucketInbox},
			want:    []string{CodeNameRequired},
		},
		{
			name:    "name too long",
			payload: types.CreatePayload{Name: strings.Repeat("x", MaxNameLength+1), Type: types.TypeAction, Bucket: types.BucketInbox},
			want:    []string{CodeNameTooLong},
		},
		{
			name:    "bad type",
			payload: types.CreatePayload{Name: "X", Type: "Task", Bucket: types.BucketInbox},
			want:    []string{CodeTypeInvalid},
		},
		{
			name:    "garbage bucket",
			payload: types.CreatePayload{Name: "X", Type: types.TypeAction, Bucket: "GARBAGE"},
			want:    []string{CodeBucketInvalid},
		},
		{
			name:    "bucket not allowed for type",
			payload: types.CreatePayload{Name: "X", Type: types.TypeNote, Bucket: types.BucketNext},
			want:    []string{CodeBucketNotAllowedForType},
		},
		{
			name:    "multiple issues reported together",
			payload: types.CreatePayload{Type: "Task", Bucket: "GARBAGE"},
			want:    []string{CodeNameRequired, CodeTypeInvalid, CodeBucketInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(Create(&tt.payload)))
		})
	}
}

func TestTriageIssues(t *testing.T) {
	ok := &types.TriagePayload{Item: "itm_1", Bucket: types.BucketWaiting}
	assert.Empty(t, Triage(ok))

	missing := &types.TriagePayload{Bucket: "GARBAGE"}
	assert.Equal(t, []string{CodeItemRefRequired, CodeBucketInvalid}, codes(Triage(missing)))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		itemType types.ItemType
		from, to types.Bucket
		want     []string
	}{
		{"inbox to next", types.TypeAction, types.BucketInbox, types.BucketNext, nil},
		{"next to waiting", types.TypeAction, types.BucketNext, types.BucketWaiting, nil},
		{"done reopens to inbox", types.TypeAction, types.BucketDone, types.BucketInbox, nil},
		{"done cannot jump to next", types.TypeAction, types.BucketDone, types.BucketNext, []string{CodeTransitionInvalid}},
		{"noop", types.TypeAction, types.BucketNext, types.BucketNext, []string{CodeTransitionNoop}},
		{"note cannot enter waiting", types.TypeNote, types.BucketInbox, types.BucketWaiting, []string{CodeBucketNotAllowedForType}},
		{"project cannot enter scheduled", types.TypeProject, types.BucketNext, types.BucketScheduled, []string{CodeBucketNotAllowedForType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(tt.itemType, tt.from, tt.to)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, codes(got))
			}
		})
	}
}

func TestErrIfInvalid(t *testing.T) {
	assert.NoError(t, ErrIfInvalid(nil, "items.create"))

	issues := []Issue{{Code: CodeBucketInvalid, Field: "bucket", Message: `invalid bucket "GARBAGE"`}}
	err := ErrIfInvalid(issues, "items.triage")
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	// Issues are carried verbatim.
	assert.Equal(t, issues, verr.Issues)
	assert.Contains(t, verr.Error(), "items.triage")
	assert.Contains(t, verr.Error(), "GARBAGE")
}

func TestOrgIDShape(t *testing.T) {
	ok := &types.CreatePayload{Name: "X", Type: types.TypeAction, Bucket: types.BucketNext, OrgID: "org_1"}
	assert.Empty(t, Create(ok))

	bad := &types.CreatePayload{Name: "X", Type: types.TypeAction, Bucket: types.BucketNext, OrgID: "org 1!"}
	assert.Equal(t, []string{CodeOrgIDInvalid}, codes(Create(bad)))

	badTriage := &types.TriagePayload{Item: "itm_1", Bucket: types.BucketNext, OrgID: "-leading-dash"}
	assert.Equal(t, []string{CodeOrgIDInvalid}, codes(Triage(badTriage)))
}
