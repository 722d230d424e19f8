package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rixeldev/studio-api/services"
	"github.com/rixeldev/studio-api/utils"
)

// maxUploadSize caps a single photo binary at 50MB.
const maxUploadSize = 50 * 1024 * 1024

// errUploadTooLarge marks a file exceeding maxUploadSize.
var errUploadTooLarge = errors.New("upload exceeds size limit")

// GalleryController handles the admin-facing gallery endpoints.
type GalleryController struct {
	galleries *services.GalleryService
}

func NewGalleryController(galleries *services.GalleryService) *GalleryController {
	return &GalleryController{galleries: galleries}
}

// ListGalleries returns the aggregate overview of every gallery.
func (g *GalleryController) ListGalleries(ctx *gin.Context) {
	overview, err := g.galleries.Overview(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("error fetching galleries: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Failed to load galleries.")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": overview})
}

type createGalleryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"eventDate"`
}

// CreateGallery creates a gallery and returns the plaintext PIN exactly once.
func (g *GalleryController) CreateGallery(ctx *gin.Context) {
	var req createGalleryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "Title is required.")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		utils.Message(ctx, http.StatusBadRequest, "Title is required.")
		return
	}

	var description, eventDate *string
	if v := strings.TrimSpace(req.Description); v != "" {
		description = &v
	}
	if v := strings.TrimSpace(req.EventDate); v != "" {
		eventDate = &v
	}

	gallery, pin, err := g.galleries.CreateGallery(ctx.Request.Context(), title, description, eventDate)
	if err != nil {
		utils.Sugar.Errorf("error creating gallery: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Failed to create gallery.")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"gallery": gallery, "pin": pin})
}

// UploadPhotos accepts one or more files under the repeatable `files` field
// (or a single `file`) and uploads them sequentially.
func (g *GalleryController) UploadPhotos(ctx *gin.Context) {
	galleryID := ctx.Param("id")
	if galleryID == "" {
		utils.Message(ctx, http.StatusBadRequest, "Gallery ID is required.")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Message(ctx, http.StatusBadRequest, "At least one file must be provided.")
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		utils.Message(ctx, http.StatusBadRequest, "At least one file must be provided.")
		return
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, header := range headers {
		file, err := readUpload(header)
		if err != nil {
			if errors.Is(err, errUploadTooLarge) {
				utils.Message(ctx, http.StatusRequestEntityTooLarge, "File exceeds the 50MB upload limit.")
				return
			}
			utils.Sugar.Errorf("error reading upload %s: %v", header.Filename, err)
			utils.Message(ctx, http.StatusInternalServerError, "Failed to upload photo.")
			return
		}
		files = append(files, file)
	}

	photos, err := g.galleries.UploadPhotos(ctx.Request.Context(), galleryID, files)
	if err != nil {
		utils.Sugar.Errorf("error uploading gallery photo: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Failed to upload photo.")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"photos": photos})
}

// DeletePhoto removes a photo's binary and metadata.
func (g *GalleryController) DeletePhoto(ctx *gin.Context) {
	galleryID := ctx.Param("id")
	photoID := ctx.Param("photoId")
	if galleryID == "" || photoID == "" {
		utils.Message(ctx, http.StatusBadRequest, "Gallery ID and Photo ID are required.")
		return
	}

	if err := g.galleries.DeletePhoto(ctx.Request.Context(), galleryID, photoID); err != nil {
		if errors.Is(err, services.ErrPhotoNotFound) {
			utils.Message(ctx, http.StatusNotFound, "Photo not found.")
			return
		}
		utils.Sugar.Errorf("error deleting gallery photo: %v", err)
		utils.Message(ctx, http.StatusInternalServerError, "Failed to delete photo.")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func readUpload(header *multipart.FileHeader) (services.UploadFile, error) {
	if header.Size > maxUploadSize {
		return services.UploadFile{}, errUploadTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return services.UploadFile{}, err
	}
	defer f.Close()

	// Size comes from the client part header; re-check the actual bytes.
	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return services.UploadFile{}, err
	}
	if len(data) > maxUploadSize {
		return services.UploadFile{}, errUploadTooLarge
	}

	return services.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
