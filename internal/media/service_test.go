package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dmruiz/floresta-backend/pkg/enums"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
	"github.com/dmruiz/floresta-backend/pkg/storage"
)

type stubStorage struct {
	saves      []string
	deletes    []string
	saveErr    error
	deleteErr  error
	saveCount  int
	lastFolder string
}

func (s *stubStorage) Save(ctx context.Context, file storage.UploadFile, folder string) (*storage.StoredFile, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saveCount++
	s.lastFolder = folder
	filename := fmt.Sprintf("%s-%d", strings.ToLower(file.Name), s.saveCount)
	url := fmt.Sprintf("/uploads/%s/%s", folder, filename)
	s.saves = append(s.saves, url)
	return &storage.StoredFile{
		URL:       url,
		Filename:  filename,
		MimeType:  file.MimeType,
		SizeBytes: file.Size,
	}, nil
}

func (s *stubStorage) Delete(ctx context.Context, url string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, url)
	return nil
}

func newTestService(t *testing.T) (Service, *MemoryRepository, *stubStorage) {
	t.Helper()
	repo := NewMemoryRepository()
	store := &stubStorage{}
	svc, err := NewService(repo, store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, store
}

func validCreateInput(mediableID string) CreateMediaInput {
	return CreateMediaInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   mediableID,
		Kind:         enums.MediaKindImage,
		URL:          "/uploads/products/" + mediableID + "/a.png",
		Filename:     "a.png",
	}
}

func fieldErrorsOf(t *testing.T, err error) pkgerrors.FieldErrors {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields, ok := typed.Details().(pkgerrors.FieldErrors)
	if !ok {
		t.Fatalf("expected FieldErrors details, got %T", typed.Details())
	}
	return fields
}

func TestServiceRequiresCollaborators(t *testing.T) {
	if _, err := NewService(nil, &stubStorage{}); err == nil {
		t.Fatal("expected error for nil repository")
	}
	if _, err := NewService(NewMemoryRepository(), nil); err == nil {
		t.Fatal("expected error for nil storage")
	}
}

func TestCreateMediaValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateMedia(context.Background(), CreateMediaInput{})
	fields := fieldErrorsOf(t, err)
	for _, field := range []string{"url", "kind", "mediable_type", "mediable_id"} {
		if _, ok := fields[field]; !ok {
			t.Fatalf("expected field error for %q, got %v", field, fields)
		}
	}
}

func TestCreateMediaAppends(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateMedia(ctx, validCreateInput("p-1"))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	second, err := svc.CreateMedia(ctx, validCreateInput("p-1"))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	if first.Order != 0 || second.Order != 1 {
		t.Fatalf("expected appended orders 0,1 got %d,%d", first.Order, second.Order)
	}
}

func TestGetMediaByIDNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetMediaByID(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateMediaRequiresFullResend(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMedia(ctx, validCreateInput("p-1"))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	// Changing only the filename fails: update applies the create rules to
	// the partial payload, so required fields must always be resent.
	name := "renamed.png"
	_, err = svc.UpdateMedia(ctx, created.ID, UpdateMediaInput{Filename: &name})
	fields := fieldErrorsOf(t, err)
	if _, ok := fields["url"]; !ok {
		t.Fatalf("expected url to be required on update, got %v", fields)
	}

	// Full resend succeeds.
	mt := created.MediableType
	mid := created.MediableID
	kind := created.Kind
	url := created.URL
	updated, err := svc.UpdateMedia(ctx, created.ID, UpdateMediaInput{
		MediableType: &mt,
		MediableID:   &mid,
		Kind:         &kind,
		URL:          &url,
		Filename:     &name,
	})
	if err != nil {
		t.Fatalf("UpdateMedia: %v", err)
	}
	if updated.Filename != name {
		t.Fatalf("filename not updated: %q", updated.Filename)
	}
	if updated.Order != created.Order {
		t.Fatalf("update changed order: %d -> %d", created.Order, updated.Order)
	}
}

func TestUpdateMediaNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := validCreateInput("p-1")
	_, err := svc.UpdateMedia(context.Background(), uuid.New(), UpdateMediaInput{
		MediableType: &in.MediableType,
		MediableID:   &in.MediableID,
		Kind:         &in.Kind,
		URL:          &in.URL,
		Filename:     &in.Filename,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteMediaRemovesFileThenRecord(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMedia(ctx, validCreateInput("p-1"))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	if err := svc.DeleteMedia(ctx, created.ID); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != created.URL {
		t.Fatalf("storage delete not called with record url: %v", store.deletes)
	}
	if _, err := repo.FindByID(ctx, created.ID); err != ErrNotFound {
		t.Fatalf("record should be gone, got %v", err)
	}
}

func TestDeleteMediaKeepsRecordWhenStorageFails(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMedia(ctx, validCreateInput("p-1"))
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	store.deleteErr = pkgerrors.Wrap(pkgerrors.CodeStorage, errors.New("io failure"), "delete stored file")
	err = svc.DeleteMedia(ctx, created.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeStorage) {
		t.Fatalf("expected STORAGE_ERROR, got %v", err)
	}

	// An orphaned record can be retried; an orphaned file cannot be found
	// again. The record must survive the failed file delete.
	if _, err := repo.FindByID(ctx, created.ID); err != nil {
		t.Fatalf("record should still exist, got %v", err)
	}
}

func TestDeleteMediaNotFound(t *testing.T) {
	svc, _, store := newTestService(t)

	err := svc.DeleteMedia(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if len(store.deletes) != 0 {
		t.Fatalf("storage must not be touched for unknown media")
	}
}

func TestReorderMediaEmptyOwnerPair(t *testing.T) {
	svc, _, _ := newTestService(t)

	zero := 0
	err := svc.ReorderMedia(context.Background(), uuid.New(), ReorderMediaInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Order:        &zero,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for empty owner pair, got %v", err)
	}
}

func TestReorderMediaBounds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	var last *Media
	for i := 0; i < 3; i++ {
		created, err := svc.CreateMedia(ctx, validCreateInput("p-1"))
		if err != nil {
			t.Fatalf("CreateMedia: %v", err)
		}
		last = created
	}

	reorder := func(order *int) error {
		return svc.ReorderMedia(ctx, last.ID, ReorderMediaInput{
			MediableType: enums.MediableTypeProducts,
			MediableID:   "p-1",
			Order:        order,
		})
	}

	fields := fieldErrorsOf(t, reorder(nil))
	if !strings.Contains(fields["order"], "required") {
		t.Fatalf("missing order message wrong: %q", fields["order"])
	}

	neg := -1
	fields = fieldErrorsOf(t, reorder(&neg))
	if !strings.Contains(fields["order"], "negative") {
		t.Fatalf("negative order message wrong: %q", fields["order"])
	}

	tooBig := 3 // count is 3, max order is 2
	fields = fieldErrorsOf(t, reorder(&tooBig))
	if !strings.Contains(fields["order"], "greater than 2") {
		t.Fatalf("out-of-range message wrong: %q", fields["order"])
	}

	ok := 2
	if err := reorder(&ok); err != nil {
		t.Fatalf("in-range reorder failed: %v", err)
	}
}

func TestReorderMediaUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMedia(ctx, validCreateInput("p-1")); err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	zero := 0
	err := svc.ReorderMedia(ctx, uuid.New(), ReorderMediaInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Order:        &zero,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func uploadFile(name, mimeType string) storage.UploadFile {
	body := "data-" + name
	return storage.UploadFile{
		Name:     name,
		MimeType: mimeType,
		Size:     int64(len(body)),
		Content:  strings.NewReader(body),
	}
}

func TestUploadForMediableSequentialOrder(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	items, err := svc.UploadForMediable(ctx, UploadInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Files: []storage.UploadFile{
			uploadFile("a.png", "image/png"),
			uploadFile("b.png", "image/png"),
			uploadFile("c.png", "image/png"),
		},
	})
	if err != nil {
		t.Fatalf("UploadForMediable: %v", err)
	}

	if store.lastFolder != "products/p-1" {
		t.Fatalf("unexpected storage folder %q", store.lastFolder)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 media, got %d", len(items))
	}
	for i, want := range []string{"a.png", "b.png", "c.png"} {
		if items[i].Order != i {
			t.Fatalf("position %d holds order %d", i, items[i].Order)
		}
		if !strings.HasPrefix(items[i].Filename, want) {
			t.Fatalf("upload order not preserved: position %d is %q", i, items[i].Filename)
		}
	}
}

func TestUploadForMediableReturnsExistingMediaToo(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateMedia(ctx, validCreateInput("p-1")); err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	items, err := svc.UploadForMediable(ctx, UploadInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Files:        []storage.UploadFile{uploadFile("new.png", "image/png")},
	})
	if err != nil {
		t.Fatalf("UploadForMediable: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected pre-existing media in the result, got %d items", len(items))
	}
}

func TestUploadForMediableStorageFailureStopsBatch(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	store.saveErr = pkgerrors.Wrap(pkgerrors.CodeStorage, errors.New("disk full"), "write upload")
	_, err := svc.UploadForMediable(ctx, UploadInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Files:        []storage.UploadFile{uploadFile("a.png", "image/png")},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStorage) {
		t.Fatalf("expected STORAGE_ERROR, got %v", err)
	}

	count, _ := repo.CountByMediable(ctx, enums.MediableTypeProducts, "p-1")
	if count != 0 {
		t.Fatalf("no records may exist for a failed save, got %d", count)
	}
}

func TestInferMediaKindDefaultsToImage(t *testing.T) {
	if kind := inferMediaKind("image/png"); kind != enums.MediaKindImage {
		t.Fatalf("expected image, got %s", kind)
	}
	// Unrecognized types currently fall back to image as well.
	if kind := inferMediaKind("application/pdf"); kind != enums.MediaKindImage {
		t.Fatalf("expected image fallback, got %s", kind)
	}
}

func TestUploadThenReorderThenDeleteScenario(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	items, err := svc.UploadForMediable(ctx, UploadInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Files: []storage.UploadFile{
			uploadFile("a.png", "image/png"),
			uploadFile("b.png", "image/png"),
			uploadFile("c.png", "image/png"),
		},
	})
	if err != nil {
		t.Fatalf("UploadForMediable: %v", err)
	}
	a, b, c := items[0], items[1], items[2]

	// Move C to the front: [C@0, A@1, B@2].
	zero := 0
	if err := svc.ReorderMedia(ctx, c.ID, ReorderMediaInput{
		MediableType: enums.MediableTypeProducts,
		MediableID:   "p-1",
		Order:        &zero,
	}); err != nil {
		t.Fatalf("ReorderMedia: %v", err)
	}

	items, err = svc.ListMediaByMediable(ctx, enums.MediableTypeProducts, "p-1")
	if err != nil {
		t.Fatalf("ListMediaByMediable: %v", err)
	}
	if items[0].ID != c.ID || items[1].ID != a.ID || items[2].ID != b.ID {
		t.Fatalf("unexpected sequence after reorder")
	}

	// Delete A: B and C keep their order values, leaving a gap at 1.
	if err := svc.DeleteMedia(ctx, a.ID); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}

	items, err = svc.ListMediaByMediable(ctx, enums.MediableTypeProducts, "p-1")
	if err != nil {
		t.Fatalf("ListMediaByMediable: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 media left, got %d", len(items))
	}
	if items[0].ID != c.ID || items[0].Order != 0 {
		t.Fatalf("expected C at order 0, got %v", items[0])
	}
	if items[1].ID != b.ID || items[1].Order != 2 {
		t.Fatalf("expected B still at order 2, got order %d", items[1].Order)
	}
}
