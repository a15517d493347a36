package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/domain"
)

// jobsAPIStub serves the jobs API surface the board talks to and counts every
// request it sees.
type jobsAPIStub struct {
	mu       sync.Mutex
	jobs     map[uint]*domain.Job
	nextID   uint
	requests []string
	failNext bool
}

func newJobsAPIStub() *jobsAPIStub {
	return &jobsAPIStub{jobs: map[uint]*domain.Job{}, nextID: 1}
}

func (s *jobsAPIStub) add(job domain.Job) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.ID = s.nextID
	s.nextID++
	s.jobs[job.ID] = &job
	return job.ID
}

func (s *jobsAPIStub) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *jobsAPIStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if s.takeFailure(w) {
			return
		}
		switch r.Method {
		case http.MethodGet:
			s.mu.Lock()
			list := make([]domain.Job, 0, len(s.jobs))
			for id := s.nextID; id > 0; id-- {
				if job, ok := s.jobs[id]; ok {
					list = append(list, *job)
				}
			}
			s.mu.Unlock()
			writeEnvelope(w, http.StatusOK, map[string]any{"jobs": list})
		case http.MethodPost:
			var body struct {
				CompanyName string `json:"company_name"`
				Role        string `json:"role"`
				Priority    string `json:"priority"`
				Status      string `json:"status"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			id := s.add(domain.Job{
				UserID:      1,
				CompanyName: body.CompanyName,
				Role:        body.Role,
				Priority:    domain.JobPriority(body.Priority),
				Status:      domain.JobStatus(body.Status),
				DateApplied: time.Now(),
			})
			s.mu.Lock()
			job := *s.jobs[id]
			s.mu.Unlock()
			writeEnvelope(w, http.StatusOK, map[string]any{"job": job})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if s.takeFailure(w) {
			return
		}
		id, err := parseTrailingID(r.URL.Path)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		job, ok := s.jobs[id]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "job not found")
			return
		}
		switch r.Method {
		case http.MethodPatch:
			var fields map[string]any
			_ = json.NewDecoder(r.Body).Decode(&fields)
			s.mu.Lock()
			if v, ok := fields["status"].(string); ok {
				job.Status = domain.JobStatus(v)
			}
			if v, ok := fields["company_name"].(string); ok {
				job.CompanyName = v
			}
			updated := *job
			s.mu.Unlock()
			writeEnvelope(w, http.StatusOK, map[string]any{"job": updated})
		case http.MethodDelete:
			s.mu.Lock()
			delete(s.jobs, id)
			s.mu.Unlock()
			writeEnvelope(w, http.StatusOK, map[string]any{"message": "Job deleted successfully"})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func (s *jobsAPIStub) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
}

func (s *jobsAPIStub) takeFailure(w http.ResponseWriter) bool {
	s.mu.Lock()
	fail := s.failNext
	s.failNext = false
	s.mu.Unlock()
	if fail {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "boom")
	}
	return fail
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]any{"code": code, "message": message},
	})
}

func parseTrailingID(path string) (uint, error) {
	id64, err := strconv.ParseUint(path[strings.LastIndex(path, "/")+1:], 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id64), nil
}

func newBoardForTest(t *testing.T) (*Client, *jobsAPIStub) {
	t.Helper()
	stub := newJobsAPIStub()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithHTTPClient(srv.Client())), stub
}

func TestBoardLoadAndLanes(t *testing.T) {
	client, stub := newBoardForTest(t)
	stub.add(domain.Job{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied})
	stub.add(domain.Job{CompanyName: "Globex", Role: "Engineer", Priority: domain.PriorityLow, Status: domain.StatusOffer})
	stub.add(domain.Job{CompanyName: "Hooli", Role: "Engineer", Priority: domain.PriorityLow, Status: domain.StatusApplied})

	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	lanes := client.Lanes()
	if len(lanes) != len(domain.BoardLanes) {
		t.Fatalf("expected %d lanes, got %d", len(domain.BoardLanes), len(lanes))
	}
	if len(lanes[domain.StatusApplied]) != 2 || len(lanes[domain.StatusOffer]) != 1 {
		t.Fatalf("unexpected lane partition: %+v", lanes)
	}
	if len(lanes[domain.StatusHired]) != 0 {
		t.Fatal("empty lanes must still be present")
	}
	// Server order (newest first) is preserved inside a lane.
	if lanes[domain.StatusApplied][0].CompanyName != "Hooli" {
		t.Fatalf("unexpected in-lane order: %+v", lanes[domain.StatusApplied])
	}
}

func TestBoardMoveCardSameLaneIsZeroRequests(t *testing.T) {
	client, stub := newBoardForTest(t)
	id := stub.add(domain.Job{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied})

	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := stub.requestCount()

	if err := client.MoveCard(context.Background(), id, domain.StatusApplied); err != nil {
		t.Fatalf("same-lane move: %v", err)
	}
	if got := stub.requestCount(); got != before {
		t.Fatalf("same-lane drop must not hit the server, got %d extra requests", got-before)
	}
}

func TestBoardMoveCardPatchesAndRefetches(t *testing.T) {
	client, stub := newBoardForTest(t)
	id := stub.add(domain.Job{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied})

	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := stub.requestCount()

	if err := client.MoveCard(context.Background(), id, domain.StatusInterview); err != nil {
		t.Fatalf("move: %v", err)
	}
	// One PATCH plus one reconciling refetch.
	if got := stub.requestCount() - before; got != 2 {
		t.Fatalf("expected 2 requests (patch + refetch), got %d", got)
	}
	lanes := client.Lanes()
	if len(lanes[domain.StatusInterview]) != 1 || len(lanes[domain.StatusApplied]) != 0 {
		t.Fatalf("lanes not reconciled: %+v", lanes)
	}
}

func TestBoardMoveCardFailureLeavesStateUntouched(t *testing.T) {
	client, stub := newBoardForTest(t)
	id := stub.add(domain.Job{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied})

	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	stub.failNext = true

	err := client.MoveCard(context.Background(), id, domain.StatusInterview)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "INTERNAL" {
		t.Fatalf("expected APIError INTERNAL, got %v", err)
	}
	lanes := client.Lanes()
	if len(lanes[domain.StatusApplied]) != 1 || len(lanes[domain.StatusInterview]) != 0 {
		t.Fatalf("failed move must not change lanes: %+v", lanes)
	}
}

func TestBoardMoveCardUnknownTargets(t *testing.T) {
	client, stub := newBoardForTest(t)
	id := stub.add(domain.Job{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied})
	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := stub.requestCount()

	if err := client.MoveCard(context.Background(), 999, domain.StatusOffer); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
	var verr *ValidationError
	if err := client.MoveCard(context.Background(), id, "Ghosted"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown lane, got %v", err)
	}
	if got := stub.requestCount(); got != before {
		t.Fatalf("invalid moves must not hit the server, got %d extra", got-before)
	}
}

func TestBoardAddCardValidatesBeforeRequesting(t *testing.T) {
	client, stub := newBoardForTest(t)
	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := stub.requestCount()

	cases := []struct {
		name string
		form CardForm
	}{
		{"missing company", CardForm{Role: "Engineer", Priority: domain.PriorityHigh}},
		{"missing role", CardForm{CompanyName: "Acme", Priority: domain.PriorityHigh}},
		{"missing priority", CardForm{CompanyName: "Acme", Role: "Engineer"}},
		{"future date", CardForm{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, DateApplied: time.Now().Add(48 * time.Hour)}},
		{"relative link", CardForm{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, Link: "/jobs/1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := client.AddCard(context.Background(), tc.form, domain.StatusApplied)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if got := stub.requestCount(); got != before {
		t.Fatalf("invalid forms must not hit the server, got %d extra", got-before)
	}
}

func TestBoardAddCardPostsIntoLaneAndRefetches(t *testing.T) {
	client, _ := newBoardForTest(t)
	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	form := CardForm{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh}
	if err := client.AddCard(context.Background(), form, domain.StatusInterview); err != nil {
		t.Fatalf("add card: %v", err)
	}
	lanes := client.Lanes()
	if len(lanes[domain.StatusInterview]) != 1 {
		t.Fatalf("card must land in the drop lane: %+v", lanes)
	}
}

func TestBoardEditAndDeleteCard(t *testing.T) {
	client, stub := newBoardForTest(t)
	id := stub.add(domain.Job{CompanyName: "Acme", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied})
	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	form := CardForm{CompanyName: "Acme Corp", Role: "Engineer", Priority: domain.PriorityHigh, Status: domain.StatusApplied}
	if err := client.EditCard(context.Background(), id, form); err != nil {
		t.Fatalf("edit card: %v", err)
	}
	card, err := client.Card(id)
	if err != nil {
		t.Fatalf("card after edit: %v", err)
	}
	if card.CompanyName != "Acme Corp" {
		t.Fatalf("edit not reconciled: %+v", card)
	}

	if err := client.DeleteCard(context.Background(), id); err != nil {
		t.Fatalf("delete card: %v", err)
	}
	if _, err := client.Card(id); !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected card gone after delete, got %v", err)
	}
}

func TestBoardCardDetailsOmitEmptyFields(t *testing.T) {
	client, stub := newBoardForTest(t)
	id := stub.add(domain.Job{
		CompanyName: "Acme",
		Role:        "Engineer",
		Priority:    domain.PriorityHigh,
		Status:      domain.StatusOffer,
		DateApplied: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Location:    "Berlin",
	})
	if err := client.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	details, err := client.CardDetails(id)
	if err != nil {
		t.Fatalf("card details: %v", err)
	}
	labels := map[string]string{}
	for _, pair := range details {
		labels[pair[0]] = pair[1]
	}
	if labels["Company"] != "Acme" || labels["Location"] != "Berlin" || labels["Applied"] != "2026-03-01" {
		t.Fatalf("unexpected details: %+v", details)
	}
	for _, omitted := range []string{"Salary", "Notes", "Link"} {
		if _, ok := labels[omitted]; ok {
			t.Fatalf("empty field %q must be omitted, got %+v", omitted, details)
		}
	}
}
