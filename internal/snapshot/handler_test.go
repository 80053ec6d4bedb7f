package snapshot_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"studymatrix-backend/internal/snapshot"
	"studymatrix-backend/internal/studies"
)

func newShareRouter(store *studies.Store, codec *snapshot.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := snapshot.NewHandler(store, codec, "http://localhost:5173")
	handler.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestShareCreateAndOpen(t *testing.T) {
	source := studies.NewStore()
	if err := source.Append([]studies.StudyRecord{
		studies.NewRecord("rec-1", "a.pdf", studies.FieldSet{Title: "دراسة مشتركة"}),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	codec := &snapshot.Codec{}

	resp := postJSON(t, newShareRouter(source, codec), "/api/v1/share", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Token == "" || !strings.HasPrefix(created.URL, "http://localhost:5173/#share=") {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// Open the link on a fresh session.
	receiver := studies.NewStore()
	resp = postJSON(t, newShareRouter(receiver, codec), "/api/v1/share/open",
		`{"fragment":"#share=`+created.Token+`"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("open: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var opened studies.ListResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &opened); err != nil {
		t.Fatalf("decode open: %v", err)
	}
	if !opened.ReadOnly || len(opened.Records) != 1 || opened.Records[0].Title != "دراسة مشتركة" {
		t.Fatalf("unexpected open response: %+v", opened)
	}
	if !receiver.ReadOnly() {
		t.Fatalf("receiver store not read-only")
	}
}

func TestShareCreateEmptyMatrix(t *testing.T) {
	resp := postJSON(t, newShareRouter(studies.NewStore(), &snapshot.Codec{}), "/api/v1/share", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestShareCreateTooLarge(t *testing.T) {
	store := studies.NewStore()
	if err := store.Append([]studies.StudyRecord{
		studies.NewRecord("rec-1", "a.pdf", studies.FieldSet{Title: strings.Repeat("د", 200)}),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	resp := postJSON(t, newShareRouter(store, &snapshot.Codec{MaxTokenChars: 50}), "/api/v1/share", "")
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "snapshot_too_large") {
		t.Fatalf("expected snapshot_too_large code: %s", resp.Body.String())
	}
}

func TestShareOpenBrokenTokenLeavesStoreUntouched(t *testing.T) {
	store := studies.NewStore()
	if err := store.Append([]studies.StudyRecord{
		studies.NewRecord("rec-1", "a.pdf", studies.FieldSet{Title: "قائمة"}),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	router := newShareRouter(store, &snapshot.Codec{})

	for _, body := range []string{
		`{"token":"%%%broken%%%"}`,
		`{"token":"` + base64.StdEncoding.EncodeToString([]byte(`{"not":"an array"}`)) + `"}`,
		`{"fragment":"#other=abc"}`,
		`{}`,
	} {
		resp := postJSON(t, router, "/api/v1/share/open", body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.Code)
		}
	}

	if store.ReadOnly() {
		t.Fatalf("broken token switched store to read-only")
	}
	if len(store.Records()) != 1 {
		t.Fatalf("broken token disturbed records")
	}
}

func TestShareExitRestoresWorkingMode(t *testing.T) {
	store := studies.NewStore()
	if err := store.LoadSnapshot([]studies.StudyRecord{
		studies.NewRecord("rec-1", "a.pdf", studies.FieldSet{Title: "مشتركة"}),
	}); err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	router := newShareRouter(store, &snapshot.Codec{})

	resp := postJSON(t, router, "/api/v1/share/exit", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("exit: expected 200, got %d", resp.Code)
	}
	if store.ReadOnly() {
		t.Fatalf("store still read-only after exit")
	}
	if len(store.Records()) != 0 {
		t.Fatalf("snapshot records kept after exit")
	}
}
