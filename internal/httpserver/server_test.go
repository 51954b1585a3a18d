package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/orapamine/go-server/internal/config"
	"github.com/orapamine/go-server/internal/game"
	"github.com/orapamine/go-server/internal/store"
)

// testDB opens a throwaway SQLite file and applies the base schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	schema, err := os.ReadFile("../../sql/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(store.NewMemoryStore(), testDB(t), config.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// client returns an HTTP client with its own cookie jar, so each player
// keeps a distinct anonymous identity.
func client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	var body map[string]bool
	resp := getJSON(t, client(t), ts.URL+"/health", &body)
	if resp.StatusCode != http.StatusOK || !body["ok"] {
		t.Fatalf("health: status=%d body=%v", resp.StatusCode, body)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	ts := testServer(t)
	resp := getJSON(t, client(t), ts.URL+"/games/nope/state", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.StatusCode)
	}
}

func TestAuthMeRequiresToken(t *testing.T) {
	ts := testServer(t)
	resp := getJSON(t, client(t), ts.URL+"/auth/me", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", resp.StatusCode)
	}
}

// Full session: create, join, setup, shoot, guess, reveal.
func TestSessionFlow(t *testing.T) {
	ts := testServer(t)
	director := client(t)
	explorer := client(t)

	var created sessionRes
	resp := postJSON(t, director, ts.URL+"/games", map[string]any{"name": "Dana", "difficulty": 2}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status=%d", resp.StatusCode)
	}
	gid := created.Game.ID
	if created.Game.Status != game.StatusWaiting {
		t.Fatalf("create: status=%q", created.Game.Status)
	}

	// The open session shows up in the lobby list.
	var lobby []game.View
	getJSON(t, explorer, ts.URL+"/games", &lobby)
	if len(lobby) != 1 || lobby[0].ID != gid {
		t.Fatalf("lobby: %+v", lobby)
	}

	var joined sessionRes
	if resp := postJSON(t, explorer, ts.URL+"/games/"+gid+"/join", map[string]any{"name": "Eve"}, &joined); resp.StatusCode != http.StatusOK {
		t.Fatalf("join: status=%d", resp.StatusCode)
	}

	// Only the director can start.
	if resp := postJSON(t, explorer, ts.URL+"/games/"+gid+"/start", nil, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("explorer start: status=%d, want 403", resp.StatusCode)
	}
	if resp := postJSON(t, director, ts.URL+"/games/"+gid+"/start", nil, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("start: status=%d", resp.StatusCode)
	}

	pieces := []map[string]any{
		{"kind": "parallelogram", "color": "red", "x": 4, "y": 3, "rotation": 0},
		{"kind": "square", "color": "white", "x": 7, "y": 5, "rotation": 0},
	}
	for _, p := range pieces {
		if resp := postJSON(t, director, ts.URL+"/games/"+gid+"/pieces", p, nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("place %v: status=%d", p, resp.StatusCode)
		}
	}
	if resp := postJSON(t, director, ts.URL+"/games/"+gid+"/begin", nil, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("begin: status=%d", resp.StatusCode)
	}

	// Explorer state must not include the hidden layout.
	var view game.View
	getJSON(t, explorer, ts.URL+"/games/"+gid+"/state", &view)
	if view.Status != game.StatusInProgress || view.Pieces != nil {
		t.Fatalf("explorer state: %+v", view)
	}
	if view.PlacedCount != 2 {
		t.Fatalf("placed count: %d", view.PlacedCount)
	}

	// Labels enumerate the whole border.
	var labels map[string][]string
	getJSON(t, explorer, ts.URL+"/games/"+gid+"/labels", &labels)
	if len(labels["labels"]) != 36 {
		t.Fatalf("labels: %d, want 36", len(labels["labels"]))
	}

	// Column 5 drops onto the parallelogram's flat top and bounces back red.
	var shot map[string]any
	if resp := postJSON(t, explorer, ts.URL+"/games/"+gid+"/shoot", map[string]string{"entry": "5"}, &shot); resp.StatusCode != http.StatusOK {
		t.Fatalf("shoot: status=%d", resp.StatusCode)
	}
	if shot["exit"] != "5" || shot["color"] != "red" {
		t.Fatalf("shot: %v", shot)
	}

	// Director may not shoot.
	if resp := postJSON(t, director, ts.URL+"/games/"+gid+"/shoot", map[string]string{"entry": "1"}, nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("director shoot: status=%d, want 403", resp.StatusCode)
	}

	var verdict guessRes
	postJSON(t, explorer, ts.URL+"/games/"+gid+"/guess", map[string]any{"pieces": pieces}, &verdict)
	if !verdict.Correct || verdict.Game.Status != game.StatusCompleted {
		t.Fatalf("guess: %+v", verdict)
	}
	// The layout is revealed once the session completes.
	if len(verdict.Game.Pieces) != 2 {
		t.Fatalf("reveal: %+v", verdict.Game.Pieces)
	}
	if verdict.Game.Winner != joined.PlayerID {
		t.Fatalf("winner: %q, want %q", verdict.Game.Winner, joined.PlayerID)
	}
}

func TestSignupLoginRoundTrip(t *testing.T) {
	ts := testServer(t)
	c := client(t)

	var created map[string]any
	resp := postJSON(t, c, ts.URL+"/auth/signup", map[string]string{"Username": "miner_1", "Password": "longenough"}, &created)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup: status=%d body=%v", resp.StatusCode, created)
	}
	var me authUser
	if resp := getJSON(t, c, ts.URL+"/auth/me", &me); resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status=%d", resp.StatusCode)
	}
	if me.Username != "miner_1" {
		t.Fatalf("me: %+v", me)
	}

	// Duplicate usernames conflict.
	if resp := postJSON(t, client(t), ts.URL+"/auth/signup", map[string]string{"Username": "miner_1", "Password": "longenough"}, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("dup signup: status=%d, want 409", resp.StatusCode)
	}

	postJSON(t, c, ts.URL+"/auth/logout", nil, nil)
	if resp := getJSON(t, c, ts.URL+"/auth/me", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("after logout: status=%d, want 401", resp.StatusCode)
	}

	fresh := client(t)
	if resp := postJSON(t, fresh, ts.URL+"/auth/login", map[string]string{"Username": "miner_1", "Password": "longenough"}, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status=%d", resp.StatusCode)
	}
	if resp := postJSON(t, fresh, ts.URL+"/auth/login", map[string]string{"Username": "miner_1", "Password": "wrongpass"}, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: status=%d, want 401", resp.StatusCode)
	}
}
