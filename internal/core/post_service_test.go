package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/db"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// fakePostRepo emulates the store's mutation semantics over an in-memory map:
// updates miss on absent docs, deletes succeed on absent docs.
type fakePostRepo struct {
	db.PostRepository

	mu        sync.Mutex
	docs      map[string]*models.Post
	createErr error
	updateErr error
	deleteErr error

	ops *opLog
}

func newFakePostRepo(ops *opLog) *fakePostRepo {
	return &fakePostRepo{docs: make(map[string]*models.Post), ops: ops}
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops.add("repo.create")
	if r.createErr != nil {
		return "", r.createErr
	}
	id := fmt.Sprintf("doc-%d", len(r.docs)+1)
	post.ID = id
	stored := *post
	r.docs[id] = &stored
	return id, nil
}

func (r *fakePostRepo) UpdateStatus(ctx context.Context, postID string, st models.PostStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops.add("repo.update")
	if r.updateErr != nil {
		return r.updateErr
	}
	doc, ok := r.docs[postID]
	if !ok {
		return fmt.Errorf("post %q: %w", postID, db.ErrNotFound)
	}
	doc.Status = st
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops.add("repo.delete")
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.docs, postID)
	return nil
}

func (r *fakePostRepo) doc(id string) (models.Post, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return models.Post{}, false
	}
	return *doc, true
}

// opLog records the order of remote calls across fakes.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

type fakeUploader struct {
	url string
	err error

	mu    sync.Mutex
	calls int
	ops   *opLog
}

func (u *fakeUploader) Upload(ctx context.Context, content []byte, filename, contentType string) (string, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	u.ops.add("uploader.upload")
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *fakeAudit) Record(ctx context.Context, entry models.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *fakeAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeSyncService struct {
	posts []models.Post
	meta  SyncMeta
}

func (f *fakeSyncService) Start(context.Context) {}
func (f *fakeSyncService) Stop()                 {}
func (f *fakeSyncService) Snapshot() ([]models.Post, SyncMeta) {
	return f.posts, f.meta
}
func (f *fakeSyncService) Subscribe() (<-chan SyncUpdate, func()) {
	return make(chan SyncUpdate), func() {}
}

type postServiceFixture struct {
	svc      PostService
	repo     *fakePostRepo
	uploader *fakeUploader
	audit    *fakeAudit
	ops      *opLog
	logs     *observer.ObservedLogs
}

func newPostServiceFixture(t *testing.T, sync SyncService) *postServiceFixture {
	t.Helper()
	ops := &opLog{}
	repo := newFakePostRepo(ops)
	uploader := &fakeUploader{url: "https://img.host/abc.png", ops: ops}
	audit := &fakeAudit{}
	zapCore, logs := observer.New(zap.WarnLevel)
	if sync == nil {
		sync = &fakeSyncService{}
	}
	return &postServiceFixture{
		svc:      NewPostService(repo, sync, uploader, audit, zap.New(zapCore)),
		repo:     repo,
		uploader: uploader,
		audit:    audit,
		ops:      ops,
		logs:     logs,
	}
}

func validCreateRequest() models.CreatePostRequest {
	return models.CreatePostRequest{
		Type:         models.PostTypeLost,
		Title:        "Blue Hydro Flask",
		Description:  "Left near the gym lockers",
		Location:     "Sports Complex",
		Category:     "Others",
		Date:         "2025-03-14",
		ContactEmail: "ada@campus.edu",
		ContactPhone: "555-0199",
	}
}

func testPrincipal() *models.Principal {
	return &models.Principal{
		UID:         "uid-1",
		Email:       "ada@campus.edu",
		DisplayName: "Ada",
		PhotoURL:    "https://img/ada.png",
	}
}

func TestPostServiceCreateRequiresAuthBeforeAnyRemoteCall(t *testing.T) {
	fx := newPostServiceFixture(t, nil)

	for _, principal := range []*models.Principal{nil, {UID: ""}} {
		_, err := fx.svc.Create(context.Background(), principal, validCreateRequest())
		require.ErrorIs(t, err, ErrAuthRequired)
	}
	assert.Empty(t, fx.ops.list(), "no remote call may happen without auth")
}

func TestPostServiceCreateValidatesLocally(t *testing.T) {
	fx := newPostServiceFixture(t, nil)

	t.Run("missing fields are all reported", func(t *testing.T) {
		req := validCreateRequest()
		req.Title = ""
		req.ContactEmail = "   "
		_, err := fx.svc.Create(context.Background(), testPrincipal(), req)
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "title")
		assert.Contains(t, err.Error(), "contactEmail")
	})

	t.Run("unknown type", func(t *testing.T) {
		req := validCreateRequest()
		req.Type = "stolen"
		_, err := fx.svc.Create(context.Background(), testPrincipal(), req)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		req := validCreateRequest()
		req.Category = "Bicycles"
		_, err := fx.svc.Create(context.Background(), testPrincipal(), req)
		require.ErrorIs(t, err, ErrValidation)
	})

	assert.Empty(t, fx.ops.list(), "validation failures must precede remote calls")
}

func TestPostServiceCreateWithoutImage(t *testing.T) {
	fx := newPostServiceFixture(t, nil)

	post, err := fx.svc.Create(context.Background(), testPrincipal(), validCreateRequest())
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, models.PostStatusOpen, post.Status)
	assert.Equal(t, "uid-1", post.CreatedBy)
	assert.Equal(t, "Ada", post.CreatorName)
	assert.Equal(t, "https://img/ada.png", post.CreatorPhoto)
	assert.Empty(t, post.ImageURL)
	assert.Zero(t, fx.uploader.callCount())

	stored, ok := fx.repo.doc(post.ID)
	require.True(t, ok)
	assert.Equal(t, "Blue Hydro Flask", stored.Title)

	assert.Equal(t, []string{models.AuditActionPostCreate}, fx.audit.actions())
}

func TestPostServiceCreateUploadsImageBeforeWriting(t *testing.T) {
	fx := newPostServiceFixture(t, nil)

	req := validCreateRequest()
	req.Image = &models.ImageAttachment{Content: []byte("png-bytes"), Filename: "flask.png", ContentType: "image/png"}

	post, err := fx.svc.Create(context.Background(), testPrincipal(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://img.host/abc.png", post.ImageURL)
	assert.Equal(t, []string{"uploader.upload", "repo.create"}, fx.ops.list())
}

func TestPostServiceCreateAbortsWhenUploadFails(t *testing.T) {
	fx := newPostServiceFixture(t, nil)
	fx.uploader.err = errors.New("host unreachable")

	req := validCreateRequest()
	req.Image = &models.ImageAttachment{Content: []byte("png-bytes"), Filename: "flask.png"}

	_, err := fx.svc.Create(context.Background(), testPrincipal(), req)
	require.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, []string{"uploader.upload"}, fx.ops.list(), "a failed upload must abort before the store write")
	assert.Empty(t, fx.audit.actions())
}

func TestPostServiceCreateLogsOrphanWhenWriteFailsAfterUpload(t *testing.T) {
	fx := newPostServiceFixture(t, nil)
	fx.repo.createErr = errors.New("firestore unavailable")

	req := validCreateRequest()
	req.Image = &models.ImageAttachment{Content: []byte("png-bytes"), Filename: "flask.png"}

	_, err := fx.svc.Create(context.Background(), testPrincipal(), req)
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.Equal(t, 1, fx.uploader.callCount())

	// The uploaded image cannot be deleted; the orphan must be logged.
	orphanLogs := fx.logs.FilterFieldKey("imageUrl").All()
	require.Len(t, orphanLogs, 1)
	assert.Contains(t, orphanLogs[0].Message, "orphaned")
}

func TestPostServiceResolve(t *testing.T) {
	fx := newPostServiceFixture(t, nil)
	created, err := fx.svc.Create(context.Background(), testPrincipal(), validCreateRequest())
	require.NoError(t, err)

	t.Run("requires auth", func(t *testing.T) {
		err := fx.svc.Resolve(context.Background(), nil, created.ID)
		require.ErrorIs(t, err, ErrAuthRequired)
	})

	t.Run("requires a post id", func(t *testing.T) {
		err := fx.svc.Resolve(context.Background(), testPrincipal(), "")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("marks the post resolved", func(t *testing.T) {
		require.NoError(t, fx.svc.Resolve(context.Background(), testPrincipal(), created.ID))
		stored, ok := fx.repo.doc(created.ID)
		require.True(t, ok)
		assert.Equal(t, models.PostStatusResolved, stored.Status)
	})

	t.Run("resolving again is a no-op success", func(t *testing.T) {
		require.NoError(t, fx.svc.Resolve(context.Background(), testPrincipal(), created.ID))
		stored, _ := fx.repo.doc(created.ID)
		assert.Equal(t, models.PostStatusResolved, stored.Status)
	})

	t.Run("missing post surfaces not found", func(t *testing.T) {
		err := fx.svc.Resolve(context.Background(), testPrincipal(), "ghost")
		require.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestPostServiceDelete(t *testing.T) {
	fx := newPostServiceFixture(t, nil)
	created, err := fx.svc.Create(context.Background(), testPrincipal(), validCreateRequest())
	require.NoError(t, err)

	t.Run("requires auth", func(t *testing.T) {
		err := fx.svc.Delete(context.Background(), nil, created.ID)
		require.ErrorIs(t, err, ErrAuthRequired)
	})

	t.Run("removes the post", func(t *testing.T) {
		require.NoError(t, fx.svc.Delete(context.Background(), testPrincipal(), created.ID))
		_, ok := fx.repo.doc(created.ID)
		assert.False(t, ok)
	})

	t.Run("deleting an unknown id succeeds", func(t *testing.T) {
		require.NoError(t, fx.svc.Delete(context.Background(), testPrincipal(), created.ID))
		require.NoError(t, fx.svc.Delete(context.Background(), testPrincipal(), "ghost"))
	})

	t.Run("store failure surfaces as write failure", func(t *testing.T) {
		fx.repo.deleteErr = errors.New("firestore unavailable")
		err := fx.svc.Delete(context.Background(), testPrincipal(), "any")
		require.ErrorIs(t, err, ErrWriteFailed)
	})
}

func TestPostServiceListReadsOnlyTheMirror(t *testing.T) {
	mirror := boardFixture()
	meta := SyncMeta{State: SyncDegraded, UpdatedAt: 1700000000000, LastError: "stream broken"}
	fx := newPostServiceFixture(t, &fakeSyncService{posts: mirror, meta: meta})

	posts, gotMeta := fx.svc.List("keys", FilterFound)
	assert.Equal(t, []string{"b"}, ids(posts))

	// Degraded metadata passes through untouched; stale reads stay allowed.
	assert.Equal(t, meta, gotMeta)
	assert.Empty(t, fx.ops.list(), "listing must not touch the store")
}
