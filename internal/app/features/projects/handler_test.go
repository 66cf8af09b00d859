package projects_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	uierrors "github.com/dalemusser/crccards/internal/app/features/errors"
	"github.com/dalemusser/crccards/internal/app/features/projects"
	"github.com/dalemusser/crccards/internal/app/system/dbconn"
	"github.com/dalemusser/crccards/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type projectJSON struct {
	ID          string           `json:"id"`
	OwnerID     *string          `json:"ownerId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Members     []map[string]any `json:"members"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type errorJSON struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func newRouter(db *mongo.Database, opts projects.Options) http.Handler {
	logger := zap.NewNop()
	h := projects.NewHandler(dbconn.Static{DB: db}, uierrors.NewErrorLogger(logger), opts, logger)
	return projects.Routes(h)
}

func serve(h http.Handler, method, target, body string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewJSONRequest(method, target, body))
	return rec
}

func TestHandleCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodPost, "/", `{"name":"  Demo  "}`)
	rec.AssertStatus(t, http.StatusCreated)

	var p projectJSON
	rec.DecodeJSON(t, &p)
	if _, err := primitive.ObjectIDFromHex(p.ID); err != nil {
		t.Errorf("id %q is not an ObjectID", p.ID)
	}
	if p.Name != "Demo" {
		t.Errorf("name: got %q, want %q", p.Name, "Demo")
	}
	if p.OwnerID != nil {
		t.Errorf("ownerId: got %v, want null", *p.OwnerID)
	}
	if p.Members == nil || len(p.Members) != 0 {
		t.Errorf("members: got %v, want []", p.Members)
	}
	if p.Description != "" {
		t.Errorf("description: got %q, want empty", p.Description)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps")
	}
	rec.AssertContains(t, `"ownerId":null`)
	rec.AssertContains(t, `"members":[]`)
}

func TestHandleCreate_DescriptionStoredVerbatim(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})

	for _, desc := range []string{
		"Returns List<Card> sorted by name",
		"Holds a Map<String, Order> of open orders",
		"if a < b && c > d then swap",
		"<b>bold</b> &amp; plain",
	} {
		t.Run(desc, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"name": "X", "description": desc})
			rec := serve(h, http.MethodPost, "/", string(body))
			rec.AssertStatus(t, http.StatusCreated)

			var created projectJSON
			rec.DecodeJSON(t, &created)
			if created.Description != desc {
				t.Errorf("create: got %q, want %q", created.Description, desc)
			}

			rec = serve(h, http.MethodGet, "/"+created.ID, "")
			var fetched projectJSON
			rec.DecodeJSON(t, &fetched)
			if fetched.Description != desc {
				t.Errorf("get: got %q, want %q", fetched.Description, desc)
			}
		})
	}
}

func TestHandleCreate_RejectsExecutableMarkup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})

	for _, desc := range []string{
		`<b>hi</b><script>alert(1)</script>`,
		`<img src=x onerror=alert(1)>`,
		`<a href="javascript:alert(1)">x</a>`,
	} {
		body, _ := json.Marshal(map[string]string{"name": "X", "description": desc})
		rec := serve(h, http.MethodPost, "/", string(body))
		rec.AssertStatus(t, http.StatusBadRequest)
		rec.AssertContains(t, `"description":"Description must not contain executable markup."`)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if n, _ := db.Collection("projects").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("expected nothing persisted, got %d", n)
	}
}

func TestHandleCreate_EveryTypeMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodPost, "/", `{"name":42,"description":5}`)
	rec.AssertStatus(t, http.StatusBadRequest)

	var e errorJSON
	rec.DecodeJSON(t, &e)
	want := map[string]string{
		"name":        "Name must be a string.",
		"description": "Description must be a string.",
	}
	if !reflect.DeepEqual(e.Fields, want) {
		t.Errorf("fields: got %v, want %v", e.Fields, want)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})

	tests := []struct {
		name      string
		body      string
		wantError string
		wantField string
	}{
		{"missing name", `{"description":"x"}`, "Validation failed", "name"},
		{"empty name", `{"name":""}`, "Validation failed", "name"},
		{"blank name", `{"name":"   "}`, "Validation failed", "name"},
		{"name not a string", `{"name":42}`, "Validation failed", "name"},
		{"malformed json", `{"name":`, "Invalid JSON body", ""},
		{"not an object", `["Demo"]`, "Invalid JSON body", ""},
		{"empty body", ``, "Invalid JSON body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/", tt.body)
			rec.AssertStatus(t, http.StatusBadRequest)

			var e errorJSON
			rec.DecodeJSON(t, &e)
			if e.Error != tt.wantError {
				t.Errorf("error: got %q, want %q", e.Error, tt.wantError)
			}
			if tt.wantField != "" && e.Fields[tt.wantField] == "" {
				t.Errorf("expected field %q in %v", tt.wantField, e.Fields)
			}
		})
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if n, _ := db.Collection("projects").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("expected no projects persisted, got %d", n)
	}
}

func TestServeList_OrderedByUpdatedDesc(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	older := fixtures.CreateProjectAt(ctx, "Older", base)
	fixtures.CreateProjectAt(ctx, "Newer", base.Add(time.Minute))

	h := newRouter(db, projects.Options{})

	// Touching the older project moves it to the front.
	serve(h, http.MethodPatch, "/"+older.ID.Hex(), `{}`).AssertStatus(t, http.StatusOK)

	rec := serve(h, http.MethodGet, "/", "")
	rec.AssertStatus(t, http.StatusOK)

	var list []projectJSON
	rec.DecodeJSON(t, &list)
	if len(list) != 2 || list[0].Name != "Older" || list[1].Name != "Newer" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestServeList_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodGet, "/", "")
	rec.AssertStatus(t, http.StatusOK)
	if rec.Body.String() != "[]\n" {
		t.Errorf("body: got %q, want []", rec.Body.String())
	}
}

func TestServeGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fixtures.CreateProject(ctx, "Fetched")
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodGet, "/"+p.ID.Hex(), "")
	rec.AssertStatus(t, http.StatusOK)

	var got projectJSON
	rec.DecodeJSON(t, &got)
	if got.ID != p.ID.Hex() || got.Name != "Fetched" {
		t.Errorf("unexpected project: %+v", got)
	}
}

func TestItemEndpoints_InvalidID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		valid := primitive.NewObjectID().Hex()
		for _, id := range []string{"not-an-id", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", "%20" + valid, valid + "%20"} {
			rec := serve(h, method, "/"+id, `{"name":"x"}`)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, `{"error":"Invalid id"}`)
		}
	}
}

func TestItemEndpoints_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(db, projects.Options{})
	missing := primitive.NewObjectID().Hex()

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		rec := serve(h, method, "/"+missing, `{"name":"x"}`)
		rec.AssertStatus(t, http.StatusNotFound)
		rec.AssertContains(t, `{"error":"Not found"}`)
	}
}

func TestHandleUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orig := fixtures.CreateProjectAt(ctx, "Before", time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond))
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodPatch, "/"+orig.ID.Hex(), `{"name":"After","description":null}`)
	rec.AssertStatus(t, http.StatusOK)

	var got projectJSON
	rec.DecodeJSON(t, &got)
	if got.Name != "After" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.Description != orig.Description {
		t.Errorf("description changed: got %q", got.Description)
	}
	if !got.UpdatedAt.After(orig.UpdatedAt) {
		t.Errorf("updatedAt did not advance")
	}
}

func TestHandleUpdate_BlankName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fixtures.CreateProject(ctx, "Keep")
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodPatch, "/"+p.ID.Hex(), `{"name":" "}`)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"name":"Name must not be blank."`)
}

func TestHandleUpdate_DescriptionVerbatim(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fixtures.CreateProject(ctx, "Keep")
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodPatch, "/"+p.ID.Hex(), `{"description":"Owns a Set<Card>"}`)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"description":"Owns a Set\u003cCard\u003e"`)

	rec = serve(h, http.MethodPatch, "/"+p.ID.Hex(), `{"description":"<script>x</script>"}`)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"description":"Description must not contain executable markup."`)
}

func TestHandleDelete_TwiceThenNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fixtures.CreateProject(ctx, "Doomed")
	card := fixtures.CreateCard(ctx, p.ID, "Orphan")
	h := newRouter(db, projects.Options{})

	rec := serve(h, http.MethodDelete, "/"+p.ID.Hex(), "")
	rec.AssertStatus(t, http.StatusOK)
	if rec.Body.String() != "{\"ok\":true}\n" {
		t.Errorf("body: got %q", rec.Body.String())
	}

	serve(h, http.MethodDelete, "/"+p.ID.Hex(), "").AssertStatus(t, http.StatusNotFound)

	n, err := db.Collection("cards").CountDocuments(ctx, bson.M{"_id": card.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Error("expected card to survive project delete")
	}
}

func TestHandleDelete_Cascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fixtures.CreateProject(ctx, "Doomed")
	other := fixtures.CreateProject(ctx, "Other")
	fixtures.CreateCard(ctx, p.ID, "A")
	fixtures.CreateCard(ctx, p.ID, "B")
	fixtures.CreateCard(ctx, other.ID, "C")

	h := newRouter(db, projects.Options{CascadeDeleteCards: true})

	rec := serve(h, http.MethodDelete, "/"+p.ID.Hex(), "")
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		OK           bool  `json:"ok"`
		DeletedCards int64 `json:"deletedCards"`
	}
	rec.DecodeJSON(t, &resp)
	if !resp.OK || resp.DeletedCards != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}

	n, _ := db.Collection("cards").CountDocuments(ctx, bson.M{})
	if n != 1 {
		t.Errorf("expected 1 card left, got %d", n)
	}
}

type downProvider struct{}

func (downProvider) Database(context.Context) (*mongo.Database, error) {
	return nil, errors.New("server selection timeout")
}

func TestServeList_DatabaseUnavailable(t *testing.T) {
	logger := zap.NewNop()
	h := projects.Routes(projects.NewHandler(downProvider{}, uierrors.NewErrorLogger(logger), projects.Options{}, logger))

	rec := serve(h, http.MethodGet, "/", "")
	rec.AssertStatus(t, http.StatusInternalServerError)
	rec.AssertContains(t, `{"error":"Internal server error"}`)
}
