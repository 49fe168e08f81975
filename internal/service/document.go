package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"docregistry/internal/model"
	"docregistry/internal/query"
	"docregistry/internal/repository"
	"docregistry/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrReaderNil  = errors.New("reader is nil")
)

// UploadInput carries the caller-supplied metadata for a new document.
type UploadInput struct {
	OriginalFileName string
	Title            string
	Category         model.Category
	DocNumber        string
	IssueDate        string
	Counterparty     string
	Description      string
	Tags             []string
}

// StatsResult is the service-level DTO for the aggregation endpoints.
type StatsResult struct {
	Total       int                    `json:"total"`
	PerCategory map[model.Category]int `json:"per_category"`
	Timeline    []query.DateCount      `json:"timeline"`
}

// DocumentService defines the use cases for the document registry.
type DocumentService interface {
	// Upload writes the content to the blob store first and appends the
	// record to the metadata snapshot second; if the blob write fails no
	// metadata is touched, and if the snapshot save fails the blob is
	// rolled back best-effort.
	Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error)

	// List returns the current full snapshot in persisted order.
	List(ctx context.Context) ([]model.Document, error)

	// Search returns the snapshot filtered by the given criteria.
	Search(ctx context.Context, crit query.Criteria) ([]model.Document, error)

	// Get returns a single record by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Download returns the blob content and its record. A missing blob
	// degrades only this read, never the collection.
	Download(ctx context.Context, id string) ([]byte, *model.Document, error)

	// Delete removes the record and (best-effort) its blob. Deleting an
	// absent id is a no-op, not an error.
	Delete(ctx context.Context, id string) error

	// Stats tallies the snapshot per category and per issue date.
	Stats(ctx context.Context) (*StatsResult, error)

	// ExportCSV renders the flat report projection of the snapshot.
	ExportCSV(ctx context.Context) ([]byte, error)
}

// documentService is a concrete implementation of DocumentService.
//
// The snapshot store has no transaction isolation, so every
// load-modify-save sequence runs under mu; otherwise two concurrent
// writers would each load the same snapshot and the second save would
// silently drop the first writer's record. Reads stay lock-free.
type documentService struct {
	store storage.Storage
	repo  repository.SnapshotStore

	mu sync.Mutex
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.SnapshotStore) DocumentService {
	return &documentService{store: store, repo: repo}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := s.store.EnsureReady(ctx); err != nil {
		return nil, fmt.Errorf("storage unavailable: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Blob first, metadata second: no record ever references a blob that
	// was never written.
	info, err := s.store.Put(ctx, r, in.OriginalFileName)
	if err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.OriginalFileName
	}

	doc := model.Document{
		ID:               info.StoredName,
		OriginalFileName: in.OriginalFileName,
		StoredFileName:   info.StoredName,
		StoragePath:      info.Path,
		Title:            title,
		Category:         in.Category,
		DocNumber:        strings.TrimSpace(in.DocNumber),
		IssueDate:        strings.TrimSpace(in.IssueDate),
		Counterparty:     strings.TrimSpace(in.Counterparty),
		Description:      strings.TrimSpace(in.Description),
		Tags:             sanitizeTags(in.Tags),
		UploadedAt:       time.Now().UTC().Truncate(time.Second),
		SizeBytes:        info.Size,
	}

	docs = append(docs, doc)
	if err := s.repo.Save(ctx, docs); err != nil {
		// Rollback: delete the blob so no orphan is left behind.
		if delErr := s.store.Delete(ctx, info.StoredName); delErr != nil {
			return nil, fmt.Errorf("save snapshot failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("save snapshot failed: %w", err)
	}
	return &doc, nil
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	return s.repo.Load(ctx)
}

func (s *documentService) Search(ctx context.Context, crit query.Criteria) ([]model.Document, error) {
	docs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(docs, crit), nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	docs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *documentService) Download(ctx context.Context, id string) ([]byte, *model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.store.Read(ctx, doc.StoredFileName)
	if err != nil {
		return nil, nil, err
	}
	return content, doc, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	remaining := make([]model.Document, 0, len(docs))
	var target *model.Document
	for i := range docs {
		if docs[i].ID == id {
			target = &docs[i]
			continue
		}
		remaining = append(remaining, docs[i])
	}
	if target == nil {
		// Already gone: deleting twice has the same effect as once.
		return nil
	}

	// Best-effort blob delete. A missing or locked file must not block
	// metadata cleanup.
	_ = s.store.Delete(ctx, target.StoredFileName)

	return s.repo.Save(ctx, remaining)
}

func (s *documentService) Stats(ctx context.Context) (*StatsResult, error) {
	docs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	counts := query.AggregateCounts(docs)
	return &StatsResult{
		Total:       counts.Total,
		PerCategory: counts.PerCategory,
		Timeline:    query.AggregateByDate(docs),
	}, nil
}

func (s *documentService) ExportCSV(ctx context.Context) ([]byte, error) {
	docs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return query.ExportCSV(docs)
}

// sanitizeTags trims entries, drops empties, and deduplicates while
// keeping first-occurrence order.
func sanitizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
