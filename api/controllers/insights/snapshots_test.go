package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adscope/adscope-backend/internal/insights/types"
)

type stubSnapshotHandler struct {
	last types.SnapshotEnvelope
	err  error
}

func (s *stubSnapshotHandler) Handle(ctx context.Context, envelope types.SnapshotEnvelope) error {
	s.last = envelope
	return s.err
}

const snapshotBody = `{
	"event_id": "7b4443a7-6014-4a8f-8d15-4ef9ba00dc74",
	"account_id": "act-1",
	"occurred_at": "2024-01-19T10:00:00Z",
	"rows": [
		{"ad_id": "ad-1", "ad_name": "Hook A", "date": "2024-01-19", "impressions": 1000, "spend": 25.5, "conversions": {"lead": 3}}
	]
}`

func TestIngestSnapshotPersists(t *testing.T) {
	stub := &stubSnapshotHandler{}
	handler := IngestSnapshot(stub, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/snapshots", strings.NewReader(snapshotBody))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if stub.last.AccountID != "act-1" || len(stub.last.Rows) != 1 {
		t.Fatalf("unexpected envelope: %+v", stub.last)
	}
	if stub.last.Rows[0].Spend != 25.5 {
		t.Fatalf("unexpected row: %+v", stub.last.Rows[0])
	}
}

func TestIngestSnapshotRejectsBadEventID(t *testing.T) {
	stub := &stubSnapshotHandler{}
	handler := IngestSnapshot(stub, testLogger())

	body := strings.Replace(snapshotBody, "7b4443a7-6014-4a8f-8d15-4ef9ba00dc74", "not-a-uuid", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/snapshots", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid event id, got %d", resp.Code)
	}
	if stub.last.AccountID != "" {
		t.Fatal("handler should not run on invalid envelope")
	}
}

func TestIngestSnapshotRejectsEmptyRows(t *testing.T) {
	stub := &stubSnapshotHandler{}
	handler := IngestSnapshot(stub, testLogger())

	body := `{
		"event_id": "7b4443a7-6014-4a8f-8d15-4ef9ba00dc74",
		"account_id": "act-1",
		"occurred_at": "2024-01-19T10:00:00Z",
		"rows": []
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/snapshots", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty rows, got %d", resp.Code)
	}
}

func TestIngestSnapshotRejectsUnknownFields(t *testing.T) {
	stub := &stubSnapshotHandler{}
	handler := IngestSnapshot(stub, testLogger())

	body := strings.Replace(snapshotBody, `"account_id"`, `"acount_id"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/snapshots", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", resp.Code)
	}
}
