package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/extract"
	"golang.org/x/sync/errgroup"
)

// MaxDocumentBytes bounds a single uploaded file.
const MaxDocumentBytes = 20 << 20

// extractWorkers bounds concurrent extraction within one upload batch.
const extractWorkers = 4

type Upload struct {
	Filename string
	Data     []byte
}

// UploadResult pairs the stored document record with the full extracted
// text, which is not persisted.
type UploadResult struct {
	Document domain.DocumentMeta `json:"document"`
	Text     string              `json:"-"`
	Note     string              `json:"note,omitempty"`
}

type documentService struct {
	store    Store
	observer UseCaseObserver
	now      clock
}

func NewDocumentService(store Store, observers ...UseCaseObserver) DocumentService {
	return &documentService{
		store:    store,
		observer: useCaseObserverOrNoop(observers),
		now:      systemClock,
	}
}

// Upload extracts every file concurrently, then attaches all of them to the
// deal in one transaction. Extraction problems do not fail the upload; they
// are reported through UploadResult.Note.
func (s *documentService) Upload(ctx context.Context, dealID string, files []Upload) (results []UploadResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"deal_id": dealID, "files": len(files)}
	defer func() { observe(ctx, s.observer, "upload-documents", startedAt, fields, err) }()

	if len(files) == 0 {
		return nil, &domain.ValidationError{Field: "files", Message: "at least one file is required"}
	}
	for _, f := range files {
		if strings.TrimSpace(f.Filename) == "" {
			return nil, &domain.ValidationError{Field: "filename", Message: "is required"}
		}
		if len(f.Data) > MaxDocumentBytes {
			return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("%s exceeds %d bytes", f.Filename, MaxDocumentBytes)}
		}
	}

	extracted := make([]extract.Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(extractWorkers)
	for i := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			extracted[i] = extract.Extract(files[i].Filename, files[i].Data)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	results = make([]UploadResult, len(files))
	_, err = s.store.update(ctx, dealID, func(d *domain.Deal) error {
		for i, f := range files {
			res := extracted[i]
			meta := d.AttachDocument(domain.DocumentMeta{
				Filename:  filepath.Base(f.Filename),
				DocType:   res.DocType,
				SizeBytes: int64(len(f.Data)),
				PageCount: res.PageCount,
				Excerpt:   extract.Excerpt(res.Text, extract.ExcerptRunes),
			}, now)
			results[i] = UploadResult{Document: meta, Text: res.Text, Note: res.Note}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
