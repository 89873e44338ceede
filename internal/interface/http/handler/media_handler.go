package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/designer-studio/internal/interface/http/dto"
	"github.com/ignatzorin/designer-studio/internal/interface/http/response"
	"github.com/ignatzorin/designer-studio/internal/pkg/apperror"
	"github.com/ignatzorin/designer-studio/internal/storage"
)

// Разрешённые типы вложений по магическим байтам
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Запас на заголовки multipart поверх размера файла
const multipartOverhead = 64 << 10

// MediaHandler загрузка вложений к комментариям.
type MediaHandler struct {
	storage        storage.FileStorage
	maxUploadBytes int64
}

func NewMediaHandler(fs storage.FileStorage, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{storage: fs, maxUploadBytes: maxUploadBytes}
}

// Upload godoc
// @Summary Загрузить вложение
// @Description jpeg, png, gif, webp или pdf. URL передаётся как attachment_url комментария
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security TelegramInitData
// @Param file formData file true "Файл"
// @Success 201 {object} response.Response{data=dto.MediaResponse}
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Router /media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	owner, ok := currentProfile(c)
	if !ok {
		return
	}

	bodyLimit := h.maxUploadBytes + multipartOverhead
	if c.Request.ContentLength > bodyLimit {
		response.Error(c, apperror.New(apperror.ErrCodeTooLarge, "файл слишком большой"))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.New(apperror.ErrCodeTooLarge, "файл слишком большой"))
			return
		}
		response.BadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "файл не может быть пустым")
		return
	}
	if file.Size > h.maxUploadBytes {
		response.Error(c, apperror.New(apperror.ErrCodeTooLarge, "файл слишком большой"))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	// 261 байта достаточно filetype для любого поддерживаемого формата
	head := make([]byte, 261)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
		response.BadRequest(c, "разрешены только изображения jpeg, png, gif, webp и pdf")
		return
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		response.Error(c, err)
		return
	}

	url, err := h.storage.Save(c.Request.Context(), owner.ID, file.Filename, kind.MIME.Value, src, file.Size)
	if err != nil {
		var tooLarge *storage.ErrTooLarge
		if errors.As(err, &tooLarge) {
			response.Error(c, apperror.Wrap(err, apperror.ErrCodeTooLarge, "файл слишком большой"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, dto.MediaResponse{URL: url})
}
