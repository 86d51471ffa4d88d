package googletasks_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"todo/internal/backend/googletasks"
	"todo/internal/config"
	"todo/internal/tasks"
)

type remoteTask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// fakeAPI serves the subset of the Google Tasks REST API the client uses.
type fakeAPI struct {
	mu      sync.Mutex
	lists   []map[string]string
	tasks   map[string][]remoteTask
	inserts []string // "title after previous"
	patches []string // "id=status"
	nextID  int
	status  int // forced error status
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{tasks: make(map[string][]remoteTask)}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		fmt.Fprint(w, `{"error":{"code":401,"message":"unauthorized"}}`)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/tasks/v1/")
	parts := strings.Split(path, "/")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case path == "users/@me/lists" && r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"items": f.lists})

	case path == "users/@me/lists" && r.Method == http.MethodPost:
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		f.nextID++
		l := map[string]string{"id": fmt.Sprintf("L%d", f.nextID), "title": body["title"]}
		f.lists = append(f.lists, l)
		json.NewEncoder(w).Encode(l)

	case len(parts) == 3 && parts[0] == "lists" && parts[2] == "tasks" && r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"items": f.tasks[parts[1]]})

	case len(parts) == 3 && parts[0] == "lists" && parts[2] == "tasks" && r.Method == http.MethodPost:
		var body remoteTask
		json.NewDecoder(r.Body).Decode(&body)
		f.nextID++
		body.ID = fmt.Sprintf("T%d", f.nextID)
		f.tasks[parts[1]] = append(f.tasks[parts[1]], body)
		f.inserts = append(f.inserts, body.Title+" after "+r.URL.Query().Get("previous"))
		json.NewEncoder(w).Encode(body)

	case len(parts) == 4 && parts[0] == "lists" && r.Method == http.MethodPatch:
		var body remoteTask
		json.NewDecoder(r.Body).Decode(&body)
		list := f.tasks[parts[1]]
		for i := range list {
			if list[i].ID == parts[3] {
				list[i].Status = body.Status
				f.patches = append(f.patches, parts[3]+"="+body.Status)
				json.NewEncoder(w).Encode(list[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newClient(t *testing.T, api *fakeAPI) *googletasks.Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := googletasks.NewWithHTTPClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestEnsureList_FindsExisting(t *testing.T) {
	api := newFakeAPI()
	api.lists = []map[string]string{{"id": "L7", "title": "  to-do list "}}
	c := newClient(t, api)

	id, err := c.EnsureList(context.Background(), "To-Do List")
	if err != nil {
		t.Fatal(err)
	}
	if id != "L7" {
		t.Errorf("expected L7, got %q", id)
	}
	if len(api.lists) != 1 {
		t.Errorf("expected no list created, got %d lists", len(api.lists))
	}
}

func TestEnsureList_Creates(t *testing.T) {
	api := newFakeAPI()
	c := newClient(t, api)

	id, err := c.EnsureList(context.Background(), "To-Do List")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" || len(api.lists) != 1 || api.lists[0]["title"] != "To-Do List" {
		t.Errorf("expected list created, got id %q lists %v", id, api.lists)
	}
}

func TestPublish(t *testing.T) {
	api := newFakeAPI()
	api.tasks["L1"] = []remoteTask{
		{ID: "R1", Title: "Buy milk", Status: "needsAction"},
		{ID: "R2", Title: "Call mom", Status: "needsAction"},
		{ID: "R3", Title: "Remote only", Status: "needsAction"},
	}
	c := newClient(t, api)

	local := []tasks.Task{
		{ID: 1, Text: "Buy milk"},
		{ID: 2, Text: "Call mom", Completed: true},
		{ID: 3, Text: "Pay rent"},
	}

	res, err := c.Publish(context.Background(), "L1", local)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 1 || res.Updated != 1 || res.Unchanged != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(api.patches) != 1 || api.patches[0] != "R2=completed" {
		t.Errorf("unexpected patches %v", api.patches)
	}
	if len(api.inserts) != 1 || api.inserts[0] != "Pay rent after R2" {
		t.Errorf("unexpected inserts %v", api.inserts)
	}

	// publishing again changes nothing
	res, err = c.Publish(context.Background(), "L1", local)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 0 || res.Updated != 0 || res.Unchanged != 3 {
		t.Errorf("expected idempotent publish, got %+v", res)
	}
}

func TestPublish_DuplicateTitles(t *testing.T) {
	api := newFakeAPI()
	api.tasks["L1"] = []remoteTask{{ID: "R1", Title: "Water plants", Status: "needsAction"}}
	c := newClient(t, api)

	local := []tasks.Task{{ID: 1, Text: "Water plants"}, {ID: 2, Text: "Water plants"}}
	res, err := c.Publish(context.Background(), "L1", local)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 1 || res.Unchanged != 1 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestPublish_AuthError(t *testing.T) {
	api := newFakeAPI()
	api.status = http.StatusUnauthorized
	c := newClient(t, api)

	_, err := c.Publish(context.Background(), "L1", []tasks.Task{{ID: 1, Text: "x"}})
	if err == nil || !strings.Contains(err.Error(), "todo login") {
		t.Errorf("expected login hint, got %v", err)
	}
}

func TestNew_MissingFiles(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if _, err := googletasks.New(context.Background(), cfg); err == nil {
		t.Error("expected error without oauth_client.json")
	}
}
