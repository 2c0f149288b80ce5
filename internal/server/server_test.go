package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/IT-MikeS/secret-santa-thing/internal/hub"
	"github.com/IT-MikeS/secret-santa-thing/internal/models"
	"github.com/IT-MikeS/secret-santa-thing/internal/service"
	"github.com/IT-MikeS/secret-santa-thing/internal/session"
	"github.com/IT-MikeS/secret-santa-thing/internal/storage/sqlite"
)

type testApp struct {
	srv      *httptest.Server
	registry *hub.Hub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	registry := hub.New()
	coordinator := session.New(store, registry)
	svc := service.New(store, coordinator)
	router := NewRouter(NewHandler(svc, coordinator), "")

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, registry: registry}
}

func (a *testApp) postJSON(t *testing.T, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(a.srv.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *testApp) createGroup(t *testing.T, name, creator, userID string) string {
	t.Helper()

	resp, body := a.postJSON(t, "/api/create-group", map[string]string{
		"name": name, "creator": creator, "userId": userID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create-group status = %d, body = %v", resp.StatusCode, body)
	}
	groupID, _ := body["id"].(string)
	if groupID == "" {
		t.Fatal("create-group returned no id")
	}
	return groupID
}

func (a *testApp) join(t *testing.T, groupID, userID, name string) *http.Response {
	t.Helper()

	resp, _ := a.postJSON(t, "/api/join-group", map[string]string{
		"groupId": groupID, "userId": userID, "name": name,
	})
	return resp
}

func (a *testApp) dialWS(t *testing.T, groupID, userID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(a.srv.URL, "http") + fmt.Sprintf("/ws?id=%s&userId=%s", groupID, userID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("websocket read failed: %v", err)
	}
	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		t.Fatalf("failed to unmarshal envelope %q: %v", payload, err)
	}
	return env.Type, env.Data
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached within deadline")
}

func TestCreateAndGetGroup(t *testing.T) {
	app := newTestApp(t)

	groupID := app.createGroup(t, "Office Party", "Alice", "a1")

	resp, err := http.Get(app.srv.URL + "/api/group?id=" + groupID)
	if err != nil {
		t.Fatalf("GET group failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var group models.Group
	if err := json.NewDecoder(resp.Body).Decode(&group); err != nil {
		t.Fatalf("failed to decode group: %v", err)
	}
	if group.ID != groupID || group.Creator != "Alice" || group.IsGenerated {
		t.Errorf("group = %+v, want fresh group %s by Alice", group, groupID)
	}
}

func TestGetGroupNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.srv.URL + "/api/group?id=NOPE1")
	if err != nil {
		t.Fatalf("GET group failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestJoinConflicts(t *testing.T) {
	app := newTestApp(t)
	groupID := app.createGroup(t, "Office Party", "Alice", "a1")

	if resp := app.join(t, groupID, "b1", "Bob"); resp.StatusCode != http.StatusOK {
		t.Fatalf("join status = %d, want 200", resp.StatusCode)
	}
	if resp := app.join(t, groupID, "b2", "Bob"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate name status = %d, want 400", resp.StatusCode)
	}

	// Same name in a different group is fine.
	other := app.createGroup(t, "Book Club", "Carol", "c1")
	if resp := app.join(t, other, "b3", "Bob"); resp.StatusCode != http.StatusOK {
		t.Errorf("join other group status = %d, want 200", resp.StatusCode)
	}
}

func TestWSRequiresIdentifiers(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/ws", "/ws?id=ABC12", "/ws?userId=a1"} {
		resp, err := http.Get(app.srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestJoinBroadcastsToExistingConnection(t *testing.T) {
	app := newTestApp(t)
	groupID := app.createGroup(t, "Office Party", "Alice", "a1")

	conn := app.dialWS(t, groupID, "a1")
	typ, _ := readEnvelope(t, conn)
	if typ != models.MsgGroupUpdate {
		t.Fatalf("initial message type = %q, want %q", typ, models.MsgGroupUpdate)
	}
	waitFor(t, func() bool { return app.registry.ConnectionCount(groupID) == 1 })

	if resp := app.join(t, groupID, "b1", "Bob"); resp.StatusCode != http.StatusOK {
		t.Fatalf("join status = %d, want 200", resp.StatusCode)
	}

	// The pre-existing connection sees Bob without reconnecting.
	typ, data := readEnvelope(t, conn)
	if typ != models.MsgGroupUpdate {
		t.Fatalf("broadcast type = %q, want %q", typ, models.MsgGroupUpdate)
	}
	var group models.Group
	if err := json.Unmarshal(data, &group); err != nil {
		t.Fatalf("failed to unmarshal group: %v", err)
	}
	names := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		names = append(names, m.Name)
	}
	if len(names) != 2 || names[1] != "Bob" {
		t.Errorf("members = %v, want [Alice Bob]", names)
	}
}

func TestGeneratePairsEndToEnd(t *testing.T) {
	app := newTestApp(t)
	groupID := app.createGroup(t, "Office Party", "Alice", "a1")
	app.join(t, groupID, "b1", "Bob")
	app.join(t, groupID, "c1", "Carol")

	// A connection open during generation receives the aggregate event.
	live := app.dialWS(t, groupID, "a1")
	readEnvelope(t, live)
	waitFor(t, func() bool { return app.registry.ConnectionCount(groupID) == 1 })

	resp, err := http.Post(app.srv.URL+"/api/generate-pairs?id="+groupID, "application/json", nil)
	if err != nil {
		t.Fatalf("generate-pairs failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate-pairs status = %d, want 200", resp.StatusCode)
	}

	typ, data := readEnvelope(t, live)
	if typ != models.MsgAssignmentsGenerated {
		t.Fatalf("live event type = %q, want %q", typ, models.MsgAssignmentsGenerated)
	}
	var ev models.GeneratedData
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	if len(ev.Pairs) != 3 {
		t.Fatalf("pairs = %d, want 3", len(ev.Pairs))
	}

	// Each member, newly connecting, gets exactly one assignment naming
	// someone else, and the implied edges form a 3-cycle.
	users := map[string]string{"a1": "Alice", "b1": "Bob", "c1": "Carol"}
	edges := make(map[string]string, 3)
	for userID, name := range users {
		conn := app.dialWS(t, groupID, userID)

		typ, _ := readEnvelope(t, conn)
		if typ != models.MsgGroupUpdate {
			t.Fatalf("first message type = %q, want %q", typ, models.MsgGroupUpdate)
		}
		typ, data := readEnvelope(t, conn)
		if typ != models.MsgAssignment {
			t.Fatalf("second message type = %q, want %q", typ, models.MsgAssignment)
		}
		var a models.AssignmentData
		if err := json.Unmarshal(data, &a); err != nil {
			t.Fatalf("failed to unmarshal assignment: %v", err)
		}
		if a.Receiver == name {
			t.Errorf("%s drew themselves", name)
		}
		edges[name] = a.Receiver
		conn.Close()
	}

	seen := map[string]bool{}
	cur := "Alice"
	for i := 0; i < 3; i++ {
		if seen[cur] {
			t.Fatalf("revisited %s; edges %v are not a single cycle", cur, edges)
		}
		seen[cur] = true
		cur = edges[cur]
	}
	if cur != "Alice" {
		t.Errorf("cycle walk ended at %s, want Alice (edges %v)", cur, edges)
	}

	// Generation is one-shot.
	resp, err = http.Post(app.srv.URL+"/api/generate-pairs?id="+groupID, "application/json", nil)
	if err != nil {
		t.Fatalf("second generate-pairs failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("second generate status = %d, want 400", resp.StatusCode)
	}

	// And the group is locked against joins.
	if resp := app.join(t, groupID, "d1", "Dave"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("join after generation status = %d, want 400", resp.StatusCode)
	}
}

func TestGeneratePairsRejectsSingleMember(t *testing.T) {
	app := newTestApp(t)
	groupID := app.createGroup(t, "Lonely Party", "Alice", "a1")

	resp, err := http.Post(app.srv.URL+"/api/generate-pairs?id="+groupID, "application/json", nil)
	if err != nil {
		t.Fatalf("generate-pairs failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUserGroupsEndpoint(t *testing.T) {
	app := newTestApp(t)
	first := app.createGroup(t, "Office Party", "Alice", "a1")
	second := app.createGroup(t, "Book Club", "Bob", "b1")
	app.join(t, second, "a1", "Alice")

	resp, err := http.Get(app.srv.URL + "/api/user-groups?userId=a1")
	if err != nil {
		t.Fatalf("GET user-groups failed: %v", err)
	}
	defer resp.Body.Close()

	var groups []models.UserGroup
	if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
		t.Fatalf("failed to decode groups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	for _, g := range groups {
		if g.ID == first && !g.IsCreator {
			t.Errorf("expected IsCreator for %s", first)
		}
		if g.ID == second && g.IsCreator {
			t.Errorf("did not expect IsCreator for %s", second)
		}
	}
}
