package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe/service/internal/identity"
	"github.com/wardrobe/service/internal/item"
)

// fakeNotifier records controller notifications.
type fakeNotifier struct {
	successes []string
	errors    []string
}

func (n *fakeNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *fakeNotifier) Error(message string)   { n.errors = append(n.errors, message) }

// harness runs test doubles for the API server and the object store,
// recording every call in arrival order so ordering properties can be
// asserted directly.
type harness struct {
	t *testing.T

	mu    sync.Mutex
	calls []string

	items        []item.Item
	total        int64
	nextID       int64
	blobStatus   int
	createStatus int
	deleteGate   chan struct{}

	putContentType string
	putBody        []byte
	postedDraft    *item.Draft

	blobSrv *httptest.Server
	apiSrv  *httptest.Server

	notifier  *fakeNotifier
	navigated []string
	cache     *Cache
	ctrl      *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{t: t, nextID: 100, blobStatus: http.StatusOK}

	h.blobSrv = httptest.NewServer(http.HandlerFunc(h.handleBlob))
	h.apiSrv = httptest.NewServer(http.HandlerFunc(h.handleAPI))
	t.Cleanup(h.blobSrv.Close)
	t.Cleanup(h.apiSrv.Close)

	h.notifier = &fakeNotifier{}
	h.cache = NewCache()
	api := NewAPI(h.apiSrv.URL, "test-token")
	h.ctrl = NewController(api, h.cache, h.notifier, func(view string) {
		h.navigated = append(h.navigated, view)
	})
	return h
}

func (h *harness) record(call string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call)
}

func (h *harness) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// signedURL is what the API double hands out: a capability URL pointing at
// the blob double.
func (h *harness) signedURL() string {
	return h.blobSrv.URL + "/1712345678.jpg?X-Amz-Signature=abc&X-Amz-Expires=60"
}

func (h *harness) handleBlob(w http.ResponseWriter, r *http.Request) {
	h.record("PUT blob")
	h.putContentType = r.Header.Get("Content-Type")
	h.putBody, _ = io.ReadAll(r.Body)
	w.WriteHeader(h.blobStatus)
}

func (h *harness) handleAPI(w http.ResponseWriter, r *http.Request) {
	h.record(r.Method + " " + r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/signed-url":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true, "signedURL": h.signedURL(),
		})

	case r.Method == http.MethodGet && r.URL.Path == "/api/wardrobe":
		json.NewEncoder(w).Encode(map[string]interface{}{"items": h.items})

	case r.Method == http.MethodPost && r.URL.Path == "/api/wardrobe":
		var d item.Draft
		json.NewDecoder(r.Body).Decode(&d)
		h.postedDraft = &d
		if h.createStatus != 0 {
			w.WriteHeader(h.createStatus)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "boom"})
			return
		}
		it := item.Item{
			ID: h.nextID, OwnerID: "user-1",
			Name: d.Name, Type: d.Type, Size: d.Size, Color: d.Color,
			ImageURL: d.ImageURL, CreatedAt: time.Now(),
		}
		h.nextID++
		h.items = append([]item.Item{it}, h.items...)
		h.total++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(it)

	case r.Method == http.MethodGet && r.URL.Path == "/api/wardrobe/total-items":
		json.NewEncoder(w).Encode(map[string]int64{"total": h.total})

	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/wardrobe/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/wardrobe/"), 10, 64)
		var d item.Draft
		json.NewDecoder(r.Body).Decode(&d)
		it := item.Item{
			ID: id, OwnerID: "user-1",
			Name: d.Name, Type: d.Type, Size: d.Size, Color: d.Color,
			ImageURL: d.ImageURL, CreatedAt: time.Now(),
		}
		json.NewEncoder(w).Encode(it)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/wardrobe/"):
		if h.deleteGate != nil {
			<-h.deleteGate
		}
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/wardrobe/"), 10, 64)
		for i, it := range h.items {
			if it.ID == id {
				h.items = append(h.items[:i], h.items[i+1:]...)
				h.total--
				json.NewEncoder(w).Encode(map[string]item.Item{"item": it})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "item not found"})

	default:
		h.t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	}
}

func existingItem(id int64, name string) item.Item {
	return item.Item{
		ID: id, OwnerID: "user-1", Name: name, Type: "shirt", Size: "L",
		Color: "Blue", ImageURL: "http://store.example/wardrobe/old.jpg",
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func scarfFile() *File {
	return &File{Name: "scarf.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
}

func TestCreateWithImageRunsPhasesInOrder(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(1, "T-Shirt")}
	h.total = 1

	s := NewSession()
	s.SelectFile(scarfFile())

	created, err := h.ctrl.SubmitCreate(context.Background(), s, item.Draft{
		Name: "Red Scarf", Type: "scarf", Size: "M", Color: "Red",
	})
	require.NoError(t, err)

	// One snapshot fetch, one signed-url fetch, one blob PUT, one metadata
	// POST — in exactly that order.
	assert.Equal(t, []string{
		"GET /api/wardrobe",
		"GET /api/signed-url",
		"PUT blob",
		"POST /api/wardrobe",
	}, h.recorded())

	// The raw bytes went to storage with the declared content type.
	assert.Equal(t, "image/jpeg", h.putContentType)
	assert.Equal(t, []byte("jpeg-bytes"), h.putBody)

	// Metadata carries the signed URL stripped of its query string.
	require.NotNil(t, h.postedDraft)
	assert.Equal(t, h.blobSrv.URL+"/1712345678.jpg", h.postedDraft.ImageURL)
	assert.Equal(t, h.postedDraft.ImageURL, created.ImageURL)

	// Cache reconciled: confirmed record prepended, placeholder cleared.
	items, ok := h.cache.Items()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "T-Shirt", items[1].Name)
	_, hasPlaceholder := h.cache.Placeholder()
	assert.False(t, hasPlaceholder)

	// The user was navigated before settlement and notified by item name.
	assert.Equal(t, []string{"/items"}, h.navigated)
	require.Len(t, h.notifier.successes, 1)
	assert.Contains(t, h.notifier.successes[0], "Red Scarf")

	assert.Equal(t, PhaseSettled, s.Phase())
	assert.NoError(t, s.Err())
	assert.True(t, s.Preview().Released())
}

func TestCreateBlobFailureNeverSubmitsMetadata(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(1, "T-Shirt")}
	h.blobStatus = http.StatusForbidden

	s := NewSession()
	s.SelectFile(scarfFile())

	_, err := h.ctrl.SubmitCreate(context.Background(), s, item.Draft{
		Name: "Red Scarf", Type: "scarf", Size: "M", Color: "Red",
	})
	require.Error(t, err)

	calls := h.recorded()
	assert.NotContains(t, calls, "POST /api/wardrobe")
	assert.Contains(t, calls, "PUT blob")

	// Confirmed cache untouched, placeholder cleared anyway.
	items, ok := h.cache.Items()
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "T-Shirt", items[0].Name)
	_, hasPlaceholder := h.cache.Placeholder()
	assert.False(t, hasPlaceholder)

	require.Len(t, h.notifier.errors, 1)
	assert.Contains(t, h.notifier.errors[0], "create")
	assert.Equal(t, PhaseSettled, s.Phase())
	assert.Error(t, s.Err())
}

func TestCreateMetadataFailureLeavesCacheUntouched(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(1, "T-Shirt")}
	h.createStatus = http.StatusInternalServerError

	s := NewSession()
	s.SelectFile(scarfFile())

	_, err := h.ctrl.SubmitCreate(context.Background(), s, item.Draft{
		Name: "Red Scarf", Type: "scarf", Size: "M", Color: "Red",
	})
	require.Error(t, err)

	items, ok := h.cache.Items()
	require.True(t, ok)
	require.Len(t, items, 1)
	_, hasPlaceholder := h.cache.Placeholder()
	assert.False(t, hasPlaceholder)
	require.Len(t, h.notifier.errors, 1)
}

func TestCreateWithoutImagePostsDirectly(t *testing.T) {
	h := newHarness(t)

	d := item.Draft{
		Name: "Jeans", Type: "pants", Size: "L", Color: "Black",
		ImageURL: "http://store.example/wardrobe/jeans.jpg",
	}
	created, err := h.ctrl.SubmitCreate(context.Background(), NewSession(), d)
	require.NoError(t, err)
	assert.Equal(t, d.ImageURL, created.ImageURL)

	calls := h.recorded()
	assert.NotContains(t, calls, "GET /api/signed-url")
	assert.NotContains(t, calls, "PUT blob")
}

func TestEditWithoutNewFileCarriesImageForward(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(5, "Dress"), existingItem(3, "Hat")}

	d := item.Draft{
		Name: "Summer Dress", Type: "dress", Size: "S", Color: "Red",
		ImageURL: "http://store.example/wardrobe/old.jpg",
	}
	updated, err := h.ctrl.SubmitEdit(context.Background(), NewSession(), 5, d)
	require.NoError(t, err)
	assert.Equal(t, "http://store.example/wardrobe/old.jpg", updated.ImageURL)

	calls := h.recorded()
	assert.NotContains(t, calls, "GET /api/signed-url")
	assert.NotContains(t, calls, "PUT blob")

	// The matching entry was replaced in place; the other one survives.
	items, ok := h.cache.Items()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "Summer Dress", items[0].Name)
	assert.Equal(t, "Hat", items[1].Name)
}

func TestEditWithNewFileUploadsThenSubmits(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(5, "Dress")}

	s := NewSession()
	s.SelectFile(scarfFile())

	d := item.Draft{
		Name: "Dress", Type: "dress", Size: "S", Color: "Red",
		ImageURL: "http://store.example/wardrobe/old.jpg",
	}
	updated, err := h.ctrl.SubmitEdit(context.Background(), s, 5, d)
	require.NoError(t, err)
	assert.Equal(t, h.blobSrv.URL+"/1712345678.jpg", updated.ImageURL)

	assert.Equal(t, []string{
		"GET /api/wardrobe",
		"GET /api/signed-url",
		"PUT blob",
		"PUT /api/wardrobe/5",
	}, h.recorded())
}

func TestDeleteRefreshesTotalFromServer(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(7, "Old Coat"), existingItem(2, "T-Shirt")}
	h.total = 42 // deliberately off from len(items): server truth wins

	_, err := h.ctrl.Items(context.Background())
	require.NoError(t, err)
	h.cache.SetTotal(40) // stale local count

	err = h.ctrl.Delete(context.Background(), 7, "Old Coat")
	require.NoError(t, err)

	items, ok := h.cache.Items()
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)

	// Total comes from the fresh fetch (42-1=41), not from decrementing
	// the stale cached 40.
	total, ok := h.cache.Total()
	require.True(t, ok)
	assert.Equal(t, int64(41), total)

	calls := h.recorded()
	assert.Contains(t, calls, "DELETE /api/wardrobe/7")
	assert.Equal(t, "GET /api/wardrobe/total-items", calls[len(calls)-1])

	require.Len(t, h.notifier.successes, 1)
	assert.Contains(t, h.notifier.successes[0], "Old Coat")
}

func TestDeleteMissingItemLeavesCacheUntouched(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(2, "T-Shirt")}
	h.total = 1

	_, err := h.ctrl.Items(context.Background())
	require.NoError(t, err)
	h.cache.SetTotal(1)

	err = h.ctrl.Delete(context.Background(), 999, "Ghost")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	items, ok := h.cache.Items()
	require.True(t, ok)
	assert.Len(t, items, 1)
	total, ok := h.cache.Total()
	require.True(t, ok)
	assert.Equal(t, int64(1), total)

	require.Len(t, h.notifier.errors, 1)
	assert.Contains(t, h.notifier.errors[0], "Ghost")
}

func TestDeleteRejectsDuplicateSubmission(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(7, "Old Coat")}
	h.total = 1
	h.deleteGate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- h.ctrl.Delete(context.Background(), 7, "Old Coat")
	}()

	// Wait for the first delete to be in flight.
	require.Eventually(t, func() bool {
		return h.ctrl.Deleting(7)
	}, time.Second, time.Millisecond)

	err := h.ctrl.Delete(context.Background(), 7, "Old Coat")
	assert.ErrorIs(t, err, ErrDeletePending)

	close(h.deleteGate)
	require.NoError(t, <-done)
	assert.False(t, h.ctrl.Deleting(7))
}

func TestCreateRejectsInvalidFormBeforeAnyCall(t *testing.T) {
	h := newHarness(t)

	s := NewSession()
	_, err := h.ctrl.SubmitCreate(context.Background(), s, item.Draft{Name: "Scarf"})
	var verr *item.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
	assert.NotContains(t, verr.Fields, "imageUrl")

	assert.Empty(t, h.recorded())
	assert.Empty(t, h.navigated)
}

func TestItemsServedFromCacheUntilStale(t *testing.T) {
	h := newHarness(t)
	h.items = []item.Item{existingItem(1, "T-Shirt")}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	_, err := h.ctrl.Items(context.Background())
	require.NoError(t, err)
	_, err = h.ctrl.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /api/wardrobe"}, h.recorded())

	now = base.Add(staleAfter + time.Second)
	_, err = h.ctrl.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /api/wardrobe", "GET /api/wardrobe"}, h.recorded())
}

func TestIdentityCachedForSession(t *testing.T) {
	h := newHarness(t)

	// The double has no /api/me route; preload the identity so a cached
	// read must never touch the network.
	h.cache.SetIdentity(&identity.Identity{ID: "kp_1234", GivenName: "Kim"})
	u, err := h.ctrl.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kp_1234", u.ID)
	assert.Empty(t, h.recorded())
}

func TestNotifierAndNavigateDefaultsAreSafe(t *testing.T) {
	h := newHarness(t)
	ctrl := NewController(NewAPI(h.apiSrv.URL, "t"), NewCache(), nil, nil)

	_, err := ctrl.SubmitCreate(context.Background(), NewSession(), item.Draft{
		Name: "Jeans", Type: "pants", Size: "L", Color: "Black",
		ImageURL: "http://store.example/wardrobe/jeans.jpg",
	})
	require.NoError(t, err)
}
