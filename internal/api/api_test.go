package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lanchinho/scheduler/internal/api"
	"github.com/lanchinho/scheduler/internal/domain"
	"github.com/lanchinho/scheduler/internal/service"
	"github.com/lanchinho/scheduler/internal/storage/memory"
)

func newTestServer(t *testing.T, roster ...string) *httptest.Server {
	t.Helper()
	svc := service.NewScheduleServiceWithRand(memory.New(), rand.New(rand.NewSource(1)))
	srv := httptest.NewServer(api.NewRouter(svc))
	t.Cleanup(srv.Close)

	for _, name := range roster {
		resp := doRequest(t, srv, http.MethodPost, "/api/v1/participants",
			map[string]string{"name": name})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seeding %s: status %d", name, resp.StatusCode)
		}
	}
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestParticipantLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/participants", nil)
	var names []string
	decodeBody(t, resp, &names)
	if len(names) != 0 {
		t.Fatalf("expected empty roster, got %v", names)
	}

	resp = doRequest(t, srv, http.MethodPost, "/api/v1/participants", map[string]string{"name": "Alice"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	decodeBody(t, resp, &names)
	if !reflect.DeepEqual(names, []string{"Alice"}) {
		t.Errorf("roster after create = %v", names)
	}

	resp = doRequest(t, srv, http.MethodPost, "/api/v1/participants", map[string]string{"name": "Alice"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodPost, "/api/v1/participants", map[string]string{"name": "   "})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodDelete, "/api/v1/participants/Alice", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodDelete, "/api/v1/participants/Alice", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", resp.StatusCode)
	}
}

func TestResolveSchedule(t *testing.T) {
	srv := newTestServer(t, "A", "B", "C", "D", "E", "F")

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/schedule?month=2024-05&formation=multiple&groupSize=2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var schedule domain.MonthSchedule
	decodeBody(t, resp, &schedule)

	if schedule.Month != "2024-05" || schedule.Formation != domain.FormationMultiple {
		t.Errorf("schedule header = %s/%s", schedule.Month, schedule.Formation)
	}
	if len(schedule.Weeks) != 5 {
		t.Fatalf("May 2024 has 5 Fridays, got %d weeks", len(schedule.Weeks))
	}

	week1 := schedule.Weeks[0]
	if week1.Date != "2024-05-03" {
		t.Errorf("week 1 date = %s", week1.Date)
	}
	seen := make(map[string]int)
	for _, group := range week1.Groups {
		if len(group) != 2 {
			t.Errorf("group size = %d, want 2", len(group))
		}
		for _, name := range group {
			seen[name]++
		}
	}
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		if seen[name] != 1 {
			t.Errorf("%s appears %d times in week 1", name, seen[name])
		}
	}
}

func TestResolveScheduleDefaultsToCurrentMonth(t *testing.T) {
	srv := newTestServer(t, "A", "B", "C", "D")
	current := time.Now().Format("2006-01")

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/schedule", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var schedule domain.MonthSchedule
	decodeBody(t, resp, &schedule)
	if schedule.Month != current {
		t.Errorf("month = %s, want current month %s", schedule.Month, current)
	}

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/schedule/dates", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dates status = %d, want 200", resp.StatusCode)
	}
	var dates []string
	decodeBody(t, resp, &dates)
	if len(dates) == 0 {
		t.Fatal("expected stored dates for the current month")
	}
	for _, date := range dates {
		if !strings.HasPrefix(date, current+"-") {
			t.Errorf("date %s is not in current month %s", date, current)
		}
	}
}

func TestDeleteParticipantWithEscapedName(t *testing.T) {
	srv := newTestServer(t, "50%")

	resp := doRequest(t, srv, http.MethodDelete, "/api/v1/participants/"+url.PathEscape("50%"), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/participants", nil)
	var names []string
	decodeBody(t, resp, &names)
	if len(names) != 0 {
		t.Errorf("expected empty roster after delete, got %v", names)
	}
}

func TestResolveScheduleValidation(t *testing.T) {
	srv := newTestServer(t, "A", "B")

	tests := []struct {
		name string
		path string
	}{
		{"bad month", "/api/v1/schedule?month=2024-13"},
		{"malformed month", "/api/v1/schedule?month=May"},
		{"unknown formation", "/api/v1/schedule?month=2024-05&formation=pairs"},
		{"non-numeric size", "/api/v1/schedule?month=2024-05&groupSize=big"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, srv, http.MethodGet, tt.path, nil)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestEditGroupAndDates(t *testing.T) {
	srv := newTestServer(t, "A", "B", "C", "D")

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/schedule?month=2024-05&formation=multiple&groupSize=2", nil)
	var schedule domain.MonthSchedule
	decodeBody(t, resp, &schedule)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/schedule/dates?month=2024-05", nil)
	var dates []string
	decodeBody(t, resp, &dates)
	want := []string{"2024-05-03", "2024-05-10", "2024-05-17", "2024-05-24", "2024-05-31"}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("dates = %v, want %v", dates, want)
	}

	edit := domain.EditGroupRequest{
		Date:       schedule.Weeks[1].Date,
		GroupIndex: 0,
		Members:    []string{"A", "C"},
	}
	resp = doRequest(t, srv, http.MethodPut, "/api/v1/schedule/groups", edit)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/schedule?month=2024-05&formation=multiple&groupSize=2", nil)
	decodeBody(t, resp, &schedule)
	if got := schedule.Weeks[1].Groups[0]; !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("edited group = %v, want [A C]", got)
	}

	edit.Members = nil
	resp = doRequest(t, srv, http.MethodPut, "/api/v1/schedule/groups", edit)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty members status = %d, want 400", resp.StatusCode)
	}

	edit.Members = []string{"A"}
	edit.Date = "2030-01-03"
	resp = doRequest(t, srv, http.MethodPut, "/api/v1/schedule/groups", edit)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("edit on empty date status = %d, want 404", resp.StatusCode)
	}
}

func TestResetMonth(t *testing.T) {
	srv := newTestServer(t, "A", "B", "C", "D")

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/schedule?month=2024-06", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve status = %d", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodDelete, "/api/v1/schedule/2024-06", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("reset status = %d, want 204", resp.StatusCode)
	}

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/schedule/dates?month=2024-06", nil)
	var dates []string
	decodeBody(t, resp, &dates)
	if len(dates) != 0 {
		t.Errorf("expected no dates after reset, got %v", dates)
	}

	resp = doRequest(t, srv, http.MethodDelete, "/api/v1/schedule/June", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("reset with bad month status = %d, want 400", resp.StatusCode)
	}
}

func TestGroupSizeClamping(t *testing.T) {
	roster := make([]string, 20)
	for i := range roster {
		roster[i] = fmt.Sprintf("p%02d", i)
	}
	srv := newTestServer(t, roster...)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/schedule?month=2024-05&formation=single&groupSize=50", nil)
	var schedule domain.MonthSchedule
	decodeBody(t, resp, &schedule)
	if schedule.GroupSize != 15 {
		t.Errorf("group size = %d, want clamp to 15", schedule.GroupSize)
	}
	if got := len(schedule.Weeks[0].Groups[0]); got != 15 {
		t.Errorf("week 1 group has %d members, want 15", got)
	}

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/schedule?month=2024-07&formation=single&groupSize=1", nil)
	decodeBody(t, resp, &schedule)
	if schedule.GroupSize != 2 {
		t.Errorf("group size = %d, want clamp to 2", schedule.GroupSize)
	}
}
