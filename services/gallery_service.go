package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rixeldev/studio-api/models"
	"github.com/rixeldev/studio-api/storage"
	"github.com/rixeldev/studio-api/utils"
)

var (
	// ErrGalleryNotFound is returned when no gallery matches a PIN or id.
	ErrGalleryNotFound = errors.New("gallery not found")
	// ErrPhotoNotFound is returned when a photo lookup scoped to a gallery misses.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrPinExhausted is returned after the bounded number of PIN generation attempts.
	ErrPinExhausted = errors.New("unable to generate a unique PIN")
)

// maxPinAttempts bounds unique PIN generation; beyond this the call fails
// instead of widening the PIN space.
const maxPinAttempts = 10

// GalleryService owns the gallery, photo and selection collections plus the
// photo binary store. Constructed once at boot and injected where needed.
type GalleryService struct {
	db    *gorm.DB
	store storage.Storage

	// drawPin produces PIN candidates; swapped out in tests.
	drawPin func() (string, error)
}

// NewGalleryService builds a service over the given database and object store.
func NewGalleryService(db *gorm.DB, store storage.Storage) *GalleryService {
	return &GalleryService{db: db, store: store, drawPin: utils.GeneratePinCandidate}
}

// GalleryOverview aggregates one gallery with its photos and selected codes
// for the admin dashboard.
type GalleryOverview struct {
	models.Gallery
	PhotoCount    int            `json:"photoCount"`
	SelectedCodes []string       `json:"selectedCodes"`
	Photos        []models.Photo `json:"photos"`
}

// UploadFile is one file of an upload request, already read from the wire.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// generateUniquePin draws random PIN candidates until one's hash has no
// collision among stored galleries, bounded at maxPinAttempts.
func (s *GalleryService) generateUniquePin(ctx context.Context) (pin, pinHash string, err error) {
	for attempt := 0; attempt < maxPinAttempts; attempt++ {
		candidate, err := s.drawPin()
		if err != nil {
			return "", "", fmt.Errorf("draw pin candidate: %w", err)
		}
		hash, err := utils.HashPin(candidate)
		if err != nil {
			return "", "", err
		}

		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Gallery{}).
			Where("pin_hash = ?", hash).Count(&count).Error; err != nil {
			return "", "", fmt.Errorf("check pin collision: %w", err)
		}
		if count == 0 {
			return candidate, hash, nil
		}
	}
	return "", "", ErrPinExhausted
}

// CreateGallery inserts a gallery with a freshly generated PIN and returns
// the plaintext PIN exactly once; only its hash is stored.
func (s *GalleryService) CreateGallery(ctx context.Context, title string, description, eventDate *string) (*models.Gallery, string, error) {
	pin, pinHash, err := s.generateUniquePin(ctx)
	if err != nil {
		return nil, "", err
	}

	cleanTitle := utils.Sanitize(strings.TrimSpace(title))
	gallery := models.Gallery{
		Title:   &cleanTitle,
		PinHash: pinHash,
	}
	if description != nil {
		clean := utils.Sanitize(strings.TrimSpace(*description))
		gallery.Description = &clean
	}
	if eventDate != nil {
		trimmed := strings.TrimSpace(*eventDate)
		gallery.EventDate = &trimmed
	}

	if err := s.db.WithContext(ctx).Create(&gallery).Error; err != nil {
		return nil, "", fmt.Errorf("insert gallery: %w", err)
	}
	return &gallery, pin, nil
}

// FindGalleryByPin hashes the submitted PIN and looks the gallery up by hash.
// The stored hash never travels back to callers.
func (s *GalleryService) FindGalleryByPin(ctx context.Context, pin string) (*models.Gallery, error) {
	hash, err := utils.HashPin(pin)
	if err != nil {
		return nil, err
	}

	var gallery models.Gallery
	if err := s.db.WithContext(ctx).Where("pin_hash = ?", hash).First(&gallery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, fmt.Errorf("lookup gallery by pin: %w", err)
	}

	gallery.PinHash = ""
	return &gallery, nil
}

// ListPhotos returns the gallery's photos in upload order, each with a
// resolved public URL.
func (s *GalleryService) ListPhotos(ctx context.Context, galleryID string) ([]models.Photo, error) {
	var photos []models.Photo
	if err := s.db.WithContext(ctx).
		Where("gallery_id = ?", galleryID).
		Order("created_at asc").
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	for i := range photos {
		photos[i].PublicURL = s.store.PublicURL(photos[i].StoragePath)
	}
	return photos, nil
}

// ListSelections returns the gallery's selections in selection order.
func (s *GalleryService) ListSelections(ctx context.Context, galleryID string) ([]models.Selection, error) {
	var selections []models.Selection
	if err := s.db.WithContext(ctx).
		Where("gallery_id = ?", galleryID).
		Order("selected_at asc").
		Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return selections, nil
}

// SaveSelections replaces the gallery's entire selection set. The delete and
// insert run in one transaction so a failure cannot leave the gallery with a
// half-replaced set.
func (s *GalleryService) SaveSelections(ctx context.Context, galleryID string, codes []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_id = ?", galleryID).Delete(&models.Selection{}).Error; err != nil {
			return fmt.Errorf("clear selections: %w", err)
		}
		if len(codes) == 0 {
			return nil
		}

		rows := make([]models.Selection, 0, len(codes))
		for _, code := range codes {
			rows = append(rows, models.Selection{GalleryID: galleryID, ImageCode: code})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert selections: %w", err)
		}
		return nil
	})
}

// FilterValidCodes keeps only codes matching a photo that exists in the
// gallery; unknown codes are silently dropped.
func (s *GalleryService) FilterValidCodes(ctx context.Context, galleryID string, codes []string) ([]string, error) {
	photos, err := s.ListPhotos(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		known[p.ImageCode] = struct{}{}
	}

	valid := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := known[code]; ok {
			valid = append(valid, code)
		}
	}
	return valid, nil
}

// Overview joins galleries, photos and selections in process after three
// independent queries, newest galleries first.
func (s *GalleryService) Overview(ctx context.Context) ([]GalleryOverview, error) {
	var galleries []models.Gallery
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&galleries).Error; err != nil {
		return nil, fmt.Errorf("list galleries: %w", err)
	}

	var photos []models.Photo
	if err := s.db.WithContext(ctx).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list all photos: %w", err)
	}

	var selections []models.Selection
	if err := s.db.WithContext(ctx).Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("list all selections: %w", err)
	}

	photosByGallery := make(map[string][]models.Photo)
	for _, p := range photos {
		p.PublicURL = s.store.PublicURL(p.StoragePath)
		photosByGallery[p.GalleryID] = append(photosByGallery[p.GalleryID], p)
	}

	codesByGallery := make(map[string][]string)
	for _, sel := range selections {
		codesByGallery[sel.GalleryID] = append(codesByGallery[sel.GalleryID], sel.ImageCode)
	}

	overview := make([]GalleryOverview, 0, len(galleries))
	for _, g := range galleries {
		g.PinHash = ""
		galleryPhotos := photosByGallery[g.ID]
		if galleryPhotos == nil {
			galleryPhotos = []models.Photo{}
		}
		selectedCodes := codesByGallery[g.ID]
		if selectedCodes == nil {
			selectedCodes = []string{}
		}
		overview = append(overview, GalleryOverview{
			Gallery:       g,
			PhotoCount:    len(galleryPhotos),
			SelectedCodes: selectedCodes,
			Photos:        galleryPhotos,
		})
	}
	return overview, nil
}

// imageCodeFromName strips the extension from the uploaded filename; when
// nothing is left a code is synthesized from the clock and a random suffix.
func imageCodeFromName(name string) string {
	base := path.Base(name)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSpace(base)
	if base != "" && base != "." {
		return base
	}

	n, err := rand.Int(rand.Reader, big.NewInt(9999))
	suffix := int64(1)
	if err == nil {
		suffix = n.Int64() + 1
	}
	return fmt.Sprintf("photo-%d-%d", time.Now().UnixMilli(), suffix)
}

// fileExtension returns the lowercased extension without the dot, defaulting
// to jpg when the filename has none.
func fileExtension(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		return "jpg"
	}
	return strings.ToLower(ext)
}

// UploadPhoto stores one photo binary and upserts its metadata row keyed on
// (gallery, image code). Re-uploading the same code overwrites both.
func (s *GalleryService) UploadPhoto(ctx context.Context, galleryID string, file UploadFile, imageCode string) (*models.Photo, error) {
	derivedCode := imageCode
	if derivedCode == "" {
		derivedCode = imageCodeFromName(file.Name)
	}

	slug := utils.NormalizeForStorage(derivedCode)
	storagePath := fmt.Sprintf("%s/%s.%s", galleryID, slug, fileExtension(file.Name))
	width, height := utils.ImageDimensions(file.Data)

	if err := s.store.Save(ctx, storagePath, bytes.NewReader(file.Data), file.ContentType); err != nil {
		return nil, fmt.Errorf("store photo binary: %w", err)
	}

	// Last writer wins on concurrent uploads of the same code.
	var photo models.Photo
	err := s.db.WithContext(ctx).
		Where("gallery_id = ? AND image_code = ?", galleryID, derivedCode).
		First(&photo).Error
	switch {
	case err == nil:
		photo.StoragePath = storagePath
		photo.Width = width
		photo.Height = height
		if err := s.db.WithContext(ctx).Save(&photo).Error; err != nil {
			return nil, fmt.Errorf("update photo metadata: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		photo = models.Photo{
			GalleryID:   galleryID,
			ImageCode:   derivedCode,
			StoragePath: storagePath,
			Width:       width,
			Height:      height,
		}
		if err := s.db.WithContext(ctx).Create(&photo).Error; err != nil {
			return nil, fmt.Errorf("insert photo metadata: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup photo metadata: %w", err)
	}

	photo.PublicURL = s.store.PublicURL(storagePath)
	return &photo, nil
}

// UploadPhotos processes files strictly one at a time; the first failure
// aborts the rest and surfaces, with no rollback of already stored photos.
func (s *GalleryService) UploadPhotos(ctx context.Context, galleryID string, files []UploadFile) ([]models.Photo, error) {
	photos := make([]models.Photo, 0, len(files))
	for _, file := range files {
		photo, err := s.UploadPhoto(ctx, galleryID, file, "")
		if err != nil {
			return nil, err
		}
		photos = append(photos, *photo)
	}
	return photos, nil
}

// DeletePhoto removes a photo's binary and metadata, scoped to the gallery.
// If the metadata delete fails after the binary is gone, the dangling row is
// left behind; no compensation is attempted.
func (s *GalleryService) DeletePhoto(ctx context.Context, galleryID, photoID string) error {
	var photo models.Photo
	if err := s.db.WithContext(ctx).
		Where("id = ? AND gallery_id = ?", photoID, galleryID).
		First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("lookup photo: %w", err)
	}

	if err := s.store.Delete(ctx, photo.StoragePath); err != nil {
		return fmt.Errorf("remove photo binary: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&models.Photo{}, "id = ?", photo.ID).Error; err != nil {
		return fmt.Errorf("delete photo metadata: %w", err)
	}
	return nil
}
