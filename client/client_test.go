package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publication-management-api/workflow"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := New(server.URL)
	c.SetToken("test-token")
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c, server
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"message": message, "data": data})
}

func TestActionCatalogFailsClosed(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, "Failed to fetch actions", nil)
	}))

	actions, message := c.ActionCatalog(context.Background(), 7)
	assert.Empty(t, actions)
	assert.Empty(t, message)
}

func TestActionCatalogUnreachableServerFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	c := New(server.URL)
	actions, message := c.ActionCatalog(context.Background(), 7)
	assert.Empty(t, actions)
	assert.Empty(t, message)
}

func TestActionCatalogPassesThroughServerMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "Actions fetched", map[string]any{
			"actions": []workflow.Descriptor{{Name: workflow.ActionReject, Label: "Reject Manuscript"}},
		})
	}))

	actions, message := c.ActionCatalog(context.Background(), 7)
	require.Len(t, actions, 1)
	assert.Equal(t, workflow.ActionReject, actions[0].Name)
	assert.Equal(t, "Actions fetched", message)
}

func TestActionCatalogCachedUntilMutation(t *testing.T) {
	var catalogHits, actionPosts int

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/submission-status/get":
			catalogHits++
			writeEnvelope(w, http.StatusOK, "Actions fetched", map[string]any{
				"actions": []workflow.Descriptor{{Name: workflow.ActionReject, Label: "Reject"}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/submission-status/create/":
			actionPosts++
			writeEnvelope(w, http.StatusOK, "Action applied", map[string]any{"action_name": "reject"})
		default:
			writeEnvelope(w, http.StatusNotFound, "not found", nil)
		}
	}))

	ctx := context.Background()

	// Repeated reads hit the server once.
	c.ActionCatalog(ctx, 7)
	c.ActionCatalog(ctx, 7)
	c.ActionCatalog(ctx, 7)
	assert.Equal(t, 1, catalogHits)

	details, err := json.Marshal(workflow.RejectDetails{Comments: "needs more citations"})
	require.NoError(t, err)
	err = c.InvokeAction(ctx, workflow.Payload{
		SubmissionID: 7,
		ActionName:   workflow.ActionReject,
		Details:      details,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, actionPosts)

	// The mutation invalidated the catalog entry, so one refetch.
	c.ActionCatalog(ctx, 7)
	c.ActionCatalog(ctx, 7)
	assert.Equal(t, 2, catalogHits)
}

func TestInvokeActionInvalidPayloadNeverReachesNetwork(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Unix()

	cases := []struct {
		name    string
		action  string
		details any
	}{
		{
			name:   "one reviewer instead of two",
			action: workflow.ActionAssignReviewer,
			details: workflow.AssignReviewerDetails{
				Reviewers:        []int{3},
				ReviewerDeadline: map[int]int64{3: deadline},
			},
		},
		{
			name:    "two editors instead of one",
			action:  workflow.ActionAssignEditor,
			details: workflow.AssignEditorDetails{Editors: []int{4, 5}},
		},
		{
			name:    "reject without comments",
			action:  workflow.ActionReject,
			details: workflow.RejectDetails{},
		},
		{
			name:    "payment in wrong currency",
			action:  workflow.ActionPaymentPending,
			details: workflow.PaymentDetails{Amount: 1500, Currency: "USD", Comments: "fee"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			details, err := json.Marshal(tc.details)
			require.NoError(t, err)

			err = c.InvokeAction(context.Background(), workflow.Payload{
				SubmissionID: 7,
				ActionName:   tc.action,
				Details:      details,
			})
			assert.Error(t, err)
		})
	}
}

func TestInvokeActionUnknownActionRejectedLocally(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	err := c.InvokeAction(context.Background(), workflow.Payload{
		SubmissionID: 7,
		ActionName:   "escalate",
		Details:      json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, workflow.ErrUnknownAction)
}

func TestInvokeActionSendsDiscriminatedPayload(t *testing.T) {
	var received workflow.Payload
	var auth string

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/submission-status/create/", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeEnvelope(w, http.StatusOK, "Action applied", map[string]any{"action_name": received.ActionName})
	}))

	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Unix()
	details, err := json.Marshal(workflow.AssignReviewerDetails{
		Reviewers:        []int{3, 7},
		ReviewerDeadline: map[int]int64{3: deadline, 7: deadline},
	})
	require.NoError(t, err)

	err = c.InvokeAction(context.Background(), workflow.Payload{
		SubmissionID: 12,
		ActionName:   workflow.ActionAssignReviewer,
		Details:      details,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", auth)
	assert.Equal(t, 12, received.SubmissionID)
	assert.Equal(t, workflow.ActionAssignReviewer, received.ActionName)

	var got workflow.AssignReviewerDetails
	require.NoError(t, json.Unmarshal(received.Details, &got))
	assert.Equal(t, []int{3, 7}, got.Reviewers)
	assert.Equal(t, deadline, got.ReviewerDeadline[3])
	assert.Equal(t, deadline, got.ReviewerDeadline[7])
}

func TestInvokeActionServerConflictSurfacesAndKeepsCache(t *testing.T) {
	var catalogHits int

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			catalogHits++
			writeEnvelope(w, http.StatusOK, "Actions fetched", map[string]any{
				"actions": []workflow.Descriptor{},
			})
		default:
			writeEnvelope(w, http.StatusConflict, "Action is no longer available for this submission", nil)
		}
	}))

	ctx := context.Background()
	c.ActionCatalog(ctx, 7)

	details, _ := json.Marshal(workflow.RejectDetails{Comments: "out of scope"})
	err := c.InvokeAction(ctx, workflow.Payload{
		SubmissionID: 7,
		ActionName:   workflow.ActionReject,
		Details:      details,
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	// Failed mutations do not invalidate.
	c.ActionCatalog(ctx, 7)
	assert.Equal(t, 1, catalogHits)
}

func TestSubmissionDetailCachedAndInvalidatedPerSubmission(t *testing.T) {
	var detailHits int

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/submission/get/":
			detailHits++
			writeEnvelope(w, http.StatusOK, "Submission fetched", map[string]any{
				"submission": map[string]any{"submission_id": 7, "title": "Graph sparsifiers"},
			})
		case r.Method == http.MethodPost:
			writeEnvelope(w, http.StatusOK, "Action applied", nil)
		default:
			writeEnvelope(w, http.StatusNotFound, "not found", nil)
		}
	}))

	ctx := context.Background()

	detail, err := c.Submission(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Graph sparsifiers", detail.Submission.Title)

	c.Submission(ctx, 7)
	assert.Equal(t, 1, detailHits)

	// A mutation on a different submission leaves this entry alone.
	details, _ := json.Marshal(workflow.RejectDetails{Comments: "duplicate submission"})
	require.NoError(t, c.InvokeAction(ctx, workflow.Payload{
		SubmissionID: 8,
		ActionName:   workflow.ActionReject,
		Details:      details,
	}))
	c.Submission(ctx, 7)
	assert.Equal(t, 1, detailHits)

	// A mutation on this submission forces a refetch.
	require.NoError(t, c.InvokeAction(ctx, workflow.Payload{
		SubmissionID: 7,
		ActionName:   workflow.ActionReject,
		Details:      details,
	}))
	c.Submission(ctx, 7)
	assert.Equal(t, 2, detailHits)
}

func TestConcurrentCatalogReadsCoalesce(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	release := make(chan struct{})

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		<-release
		writeEnvelope(w, http.StatusOK, "Actions fetched", map[string]any{
			"actions": []workflow.Descriptor{{Name: workflow.ActionPublish, Label: "Publish"}},
		})
	}))

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actions, _ := c.ActionCatalog(ctx, 7)
			assert.Len(t, actions, 1)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
}

func TestUploadFileRejectsOversizeBeforeRequest(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	oversize := bytes.NewReader(make([]byte, MaxUploadSize+1))
	_, err := c.UploadFile(context.Background(), "manuscript.pdf", oversize)
	assert.ErrorIs(t, err, ErrFileTooBig)
}

func TestUploadFileReturnsStoredReference(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/core/upload-file/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(MaxUploadSize))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "manuscript.pdf", header.Filename)

		writeEnvelope(w, http.StatusOK, "File uploaded", map[string]any{
			"file": map[string]string{
				"url":  "/uploads/ab12-manuscript.pdf",
				"name": "manuscript.pdf",
			},
		})
	}))

	ref, err := c.UploadFile(context.Background(), "manuscript.pdf", strings.NewReader("%PDF-1.7 ..."))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ab12-manuscript.pdf", ref.URL)
	assert.Equal(t, "manuscript.pdf", ref.Name)
}

func TestVerifyOTPInstallsToken(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/verify-otp/", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+919876543210", req["mobile"])
		assert.Equal(t, "204917", req["otp"])

		writeEnvelope(w, http.StatusOK, "Login successful", map[string]string{"token": "fresh-token"})
	}))

	require.NoError(t, c.VerifyOTP(context.Background(), "+919876543210", "204917"))
	assert.Equal(t, "fresh-token", c.token)
}

func TestAuthorLoginBadCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, "Invalid reference number or password", nil)
	}))

	err := c.AuthorLogin(context.Background(), "PUB-2026-0042", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "test-token", c.token)
}
