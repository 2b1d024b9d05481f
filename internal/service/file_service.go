package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"sheetboard/internal/core/apperr"
	"sheetboard/internal/core/cache"
	"sheetboard/internal/core/sheet"
	"sheetboard/internal/core/storage"
	"sheetboard/internal/domain"
	"sheetboard/pkg/utils"
)

const (
	msgNoFiles         = "No files uploaded"
	msgNoFile          = "No file uploaded"
	msgOnlySheets      = "Only Excel/CSV files are supported"
	msgAnalyzeFailed   = "Failed to analyze file"
	msgFileNotFound    = "File not found"
	msgNoData          = "No data available to analyze"
	msgNotAuthorizedRm = "Not authorized to delete this file"
)

// Upload is one multipart part handed over by the transport layer.
type Upload struct {
	Name     string
	MimeType string
	Data     []byte
}

// ListItem is the dashboard's view of a stored file.
type ListItem struct {
	ID         string       `json:"id"`
	FileName   string       `json:"fileName"`
	FileType   string       `json:"fileType"`
	UploadDate time.Time    `json:"uploadDate"`
	Data       []domain.Row `json:"data"`
	Size       int64        `json:"size"`
	Raw        []byte       `json:"raw"`
}

type FileService struct {
	files domain.FileRepository
	disk  storage.Disk
	cache *cache.Cache // optional
	log   *zap.Logger
}

func NewFileService(files domain.FileRepository, disk storage.Disk, log *zap.Logger) *FileService {
	return &FileService{files: files, disk: disk, log: log}
}

// WithCache makes uploads and deletes evict the admin analytics entry.
func (s *FileService) WithCache(c *cache.Cache) *FileService {
	s.cache = c
	return s
}

func storageKey(ownerID, fileID string) string {
	return fmt.Sprintf("files/%s/%s", ownerID, fileID)
}

// Upload stores every part. A spreadsheet the parser rejects is still stored, with no rows.
func (s *FileService) Upload(ctx context.Context, ownerID string, parts []Upload) ([]domain.File, error) {
	if len(parts) == 0 {
		return nil, apperr.BadRequest(msgNoFiles)
	}
	out := make([]domain.File, 0, len(parts))
	for _, p := range parts {
		f, err := s.store(ctx, ownerID, p)
		if err != nil {
			// earlier parts are already stored
			if len(out) > 0 {
				dropAnalytics(ctx, s.cache, s.log)
			}
			return nil, err
		}
		out = append(out, *f)
	}
	dropAnalytics(ctx, s.cache, s.log)
	return out, nil
}

func (s *FileService) store(ctx context.Context, ownerID string, p Upload) (*domain.File, error) {
	rows := []domain.Row{}
	kind := "other"
	if domain.IsSpreadsheet(p.Name) {
		kind = "spreadsheet"
		parsed, err := sheet.Parse(p.Name, p.Data)
		if err != nil {
			sheetParseFailures.Inc()
			s.log.Warn("spreadsheet parse failed", zap.String("file", p.Name), zap.Error(err))
		} else {
			rows = parsed
		}
	}

	id := utils.NewID()
	f := &domain.File{
		ID:         id,
		OwnerID:    ownerID,
		FileName:   p.Name,
		MimeType:   detectMime(p.MimeType, p.Data),
		Size:       int64(len(p.Data)),
		StorageKey: storageKey(ownerID, id),
		Data:       rows,
	}
	if err := s.disk.Put(ctx, f.StorageKey, p.Data); err != nil {
		return nil, fmt.Errorf("store %s: %w", p.Name, err)
	}
	if err := s.files.Create(ctx, f); err != nil {
		s.removeBlob(ctx, f.StorageKey)
		return nil, err
	}
	filesUploaded.WithLabelValues(kind).Inc()
	uploadBytes.Observe(float64(f.Size))
	s.log.Info("file uploaded",
		zap.String("owner", ownerID),
		zap.String("file", f.ID),
		zap.Int64("size", f.Size),
		zap.Int("rows", len(rows)),
	)
	return f, nil
}

// detectMime keeps the declared content type unless the client sent none or a generic one.
func detectMime(declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}

// Analyze parses a spreadsheet without storing anything.
func (s *FileService) Analyze(ctx context.Context, p *Upload) ([]domain.Row, error) {
	if p == nil {
		return nil, apperr.BadRequest(msgNoFile)
	}
	if !domain.IsSpreadsheet(p.Name) {
		return nil, apperr.BadRequest(msgOnlySheets)
	}
	rows, err := sheet.Parse(p.Name, p.Data)
	if err != nil {
		sheetParseFailures.Inc()
		return nil, apperr.Internal(msgAnalyzeFailed, err)
	}
	return rows, nil
}

// AnalyzeStored returns the rows captured at upload time. Nothing is re-parsed.
func (s *FileService) AnalyzeStored(ctx context.Context, fileID, ownerID string) (*domain.File, error) {
	f, err := s.files.FindOwned(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.NotFound(msgFileNotFound)
	}
	if len(f.Data) == 0 {
		return nil, apperr.BadRequest(msgNoData)
	}
	return f, nil
}

func (s *FileService) List(ctx context.Context, ownerID string) ([]ListItem, error) {
	files, err := s.Uploads(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ListItem, 0, len(files))
	for _, f := range files {
		fileType := f.MimeType
		if fileType == "" {
			fileType = "unknown"
		}
		data := f.Data
		if data == nil {
			data = []domain.Row{}
		}
		out = append(out, ListItem{
			ID:         f.ID,
			FileName:   f.FileName,
			FileType:   fileType,
			UploadDate: f.CreatedAt,
			Data:       data,
			Size:       f.Size,
			Raw:        f.Raw,
		})
	}
	return out, nil
}

// Uploads returns the owner's full file records, newest first, raw bytes attached.
func (s *FileService) Uploads(ctx context.Context, ownerID string) ([]domain.File, error) {
	files, err := s.files.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.attachRaw(ctx, files)
	return files, nil
}

func (s *FileService) All(ctx context.Context) ([]domain.File, error) {
	files, err := s.files.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.attachRaw(ctx, files)
	return files, nil
}

func (s *FileService) attachRaw(ctx context.Context, files []domain.File) {
	for i := range files {
		if files[i].StorageKey == "" {
			continue
		}
		b, err := s.disk.Get(ctx, files[i].StorageKey)
		if err != nil {
			if !errors.Is(err, storage.ErrNotExist) {
				s.log.Warn("load raw bytes", zap.String("file", files[i].ID), zap.Error(err))
			}
			continue
		}
		files[i].Raw = b
	}
}

// Delete removes a file on behalf of its owner or an admin.
func (s *FileService) Delete(ctx context.Context, fileID string, caller *domain.User) error {
	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return err
	}
	if f == nil {
		return apperr.NotFound(msgFileNotFound)
	}
	if f.OwnerID != caller.ID && !caller.IsAdmin() {
		return apperr.Forbidden(msgNotAuthorizedRm)
	}
	return s.remove(ctx, f)
}

// DeleteOwned only ever touches the caller's own files.
func (s *FileService) DeleteOwned(ctx context.Context, fileID, ownerID string) error {
	f, err := s.files.FindOwned(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if f == nil {
		return apperr.NotFound(msgFileNotFound)
	}
	return s.remove(ctx, f)
}

func (s *FileService) remove(ctx context.Context, f *domain.File) error {
	if err := s.files.Delete(ctx, f.ID); err != nil {
		return err
	}
	s.removeBlob(ctx, f.StorageKey)
	dropAnalytics(ctx, s.cache, s.log)
	s.log.Info("file deleted", zap.String("file", f.ID), zap.String("owner", f.OwnerID))
	return nil
}

func (s *FileService) removeBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.disk.Delete(ctx, key); err != nil {
		s.log.Warn("remove raw bytes", zap.String("key", key), zap.Error(err))
	}
}
