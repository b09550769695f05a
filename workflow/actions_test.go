package workflow

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func details(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestParseDetailsUnknownAction(t *testing.T) {
	_, err := ParseDetails("promote", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestRejectRequiresComments(t *testing.T) {
	p := Payload{SubmissionID: 1, ActionName: ActionReject, Details: details(t, RejectDetails{})}
	_, err := ParseAndValidate(p, now)
	assert.Error(t, err)

	p.Details = details(t, RejectDetails{Comments: "needs more citations"})
	parsed, err := ParseAndValidate(p, now)
	require.NoError(t, err)
	assert.Equal(t, "needs more citations", parsed.(*RejectDetails).Comments)
}

func TestRevertAcceptsEmptyChecklist(t *testing.T) {
	for _, name := range []string{ActionFirstRevert, ActionSecondRevert, ActionThirdRevert, ActionFourthRevert} {
		p := Payload{ActionName: name, Details: details(t, RevertDetails{Comments: "missing abstract"})}
		_, err := ParseAndValidate(p, now)
		assert.NoError(t, err, name)
	}

	p := Payload{ActionName: ActionFirstRevert, Details: details(t, RevertDetails{Comments: "x", Checklist: []int{1, 0}})}
	_, err := ParseAndValidate(p, now)
	assert.Error(t, err)
}

func TestAssignReviewerCount(t *testing.T) {
	deadline := now.Add(7 * 24 * time.Hour).Unix()

	cases := []struct {
		name      string
		reviewers []int
		ok        bool
	}{
		{"none", nil, false},
		{"one", []int{3}, false},
		{"two", []int{3, 7}, true},
		{"three", []int{3, 7, 9}, false},
		{"duplicate", []int{3, 3}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deadlines := make(map[int]int64)
			for _, id := range tc.reviewers {
				deadlines[id] = deadline
			}
			d := AssignReviewerDetails{Reviewers: tc.reviewers, ReviewerDeadline: deadlines}
			err := d.Validate(now)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestAssignReviewerDeadlineNotInPast(t *testing.T) {
	d := AssignReviewerDetails{
		Reviewers: []int{3, 7},
		ReviewerDeadline: map[int]int64{
			3: now.Add(24 * time.Hour).Unix(),
			7: now.Add(-time.Hour).Unix(),
		},
	}
	assert.Error(t, d.Validate(now))

	d.ReviewerDeadline[7] = now.Add(24 * time.Hour).Unix()
	assert.NoError(t, d.Validate(now))

	// Every selected reviewer needs a deadline entry.
	delete(d.ReviewerDeadline, 3)
	assert.Error(t, d.Validate(now))
}

func TestReassignReviewerRequiresDeleteTarget(t *testing.T) {
	deadline := now.Add(48 * time.Hour).Unix()
	d := ReassignReviewerDetails{
		Reviewers:        []int{4, 5},
		ReviewerDeadline: map[int]int64{4: deadline, 5: deadline},
	}
	assert.Error(t, d.Validate(now))

	d.ReviewerIDToDelete = 3
	assert.NoError(t, d.Validate(now))
}

func TestAssignEditorExactlyOne(t *testing.T) {
	assert.Error(t, AssignEditorDetails{}.Validate(now))
	assert.Error(t, AssignEditorDetails{Editors: []int{1, 2}}.Validate(now))
	assert.NoError(t, AssignEditorDetails{Editors: []int{9}}.Validate(now))
}

func TestPaymentDetails(t *testing.T) {
	d := PaymentDetails{Amount: 1500, Currency: CurrencyINR, Comments: "publication fee"}
	assert.NoError(t, d.Validate(now))

	assert.Error(t, PaymentDetails{Amount: 0, Currency: CurrencyINR, Comments: "x"}.Validate(now))
	assert.Error(t, PaymentDetails{Amount: 100, Currency: "USD", Comments: "x"}.Validate(now))
	assert.Error(t, PaymentDetails{Amount: 100, Currency: CurrencyINR}.Validate(now))
}

func TestPublishDetails(t *testing.T) {
	assert.Error(t, PublishDetails{IssueID: 2}.Validate(now))
	assert.Error(t, PublishDetails{VolumeID: 1}.Validate(now))
	assert.NoError(t, PublishDetails{VolumeID: 1, IssueID: 2}.Validate(now))
}

func TestFileDetails(t *testing.T) {
	assert.Error(t, FileDetails{}.Validate(now))
	assert.NoError(t, FileDetails{File: FileRef{URL: "https://cdn.example.org/a.pdf", Name: "a.pdf"}}.Validate(now))
}

func TestFinalReadyToPublishNeedsNoDetails(t *testing.T) {
	p := Payload{SubmissionID: 4, ActionName: ActionFinalReadyToPublish}
	parsed, err := ParseAndValidate(p, now)
	require.NoError(t, err)
	assert.Equal(t, NoDetails{}, parsed)
}

func TestMeanScoreExact(t *testing.T) {
	score, err := MeanScore([5]int{8, 7, 9, 6, 10})
	require.NoError(t, err)
	assert.Equal(t, 8.0, score)

	// No rounding: the mean is carried as-is.
	score, err = MeanScore([5]int{1, 2, 2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 1.8, score)

	_, err = MeanScore([5]int{0, 5, 5, 5, 5})
	assert.Error(t, err)
	_, err = MeanScore([5]int{11, 5, 5, 5, 5})
	assert.Error(t, err)
}

func TestScoreThresholdIsInformationalOnly(t *testing.T) {
	// Average below the acceptable threshold of 6 still validates; the
	// server decides acceptance, not the payload.
	assert.NoError(t, ScoreDetails{Score: 4.2}.Validate(now))
}

func TestAssignReviewerWireShape(t *testing.T) {
	deadline := now.Add(7 * 24 * time.Hour).Unix()
	p := Payload{
		SubmissionID: 12,
		ActionName:   ActionAssignReviewer,
		Details: details(t, AssignReviewerDetails{
			Reviewers:        []int{3, 7},
			ReviewerDeadline: map[int]int64{3: deadline, 7: deadline},
		}),
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "assign_reviewer", decoded["action_name"])

	det := decoded["details"].(map[string]interface{})
	assert.Equal(t, []interface{}{float64(3), float64(7)}, det["reviewers"])
	deadlines := det["reviewer_deadline"].(map[string]interface{})
	assert.Equal(t, float64(deadline), deadlines["3"])
	assert.Equal(t, float64(deadline), deadlines["7"])
}
