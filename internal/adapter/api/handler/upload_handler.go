package handler

import (
	"github.com/labstack/echo/v4"

	"petmatch/internal/infrastructure/storage"
	"petmatch/pkg/errors"
	"petmatch/pkg/response"
)

const maxUploadSize = 5 << 20 // 5 MiB

type UploadHandler struct {
	storageClient *storage.CloudStorageClient
}

func SetupUploadHandler(storageClient *storage.CloudStorageClient) {
	uploadHandler = &UploadHandler{
		storageClient: storageClient,
	}
}

// UploadPetImage accepts a multipart image and returns its public URL. The
// URL is then referenced from pet listings.
func (h *UploadHandler) UploadPetImage(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Image file is required", err))
	}

	if fileHeader.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("Image must be 5MB or smaller", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.storageClient.UploadImage(c.Request().Context(), file, contentType, "pets")
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to upload image", err))
	}

	return response.Created(c, map[string]string{
		"url": url,
	})
}
