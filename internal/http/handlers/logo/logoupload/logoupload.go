// Package logoupload реализует HTTP-обработчик загрузки логотипа компании.
//
// Файл передаётся в multipart-поле "logo". Размер ограничен настройками
// сервиса, принимаются только изображения.
package logoupload

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/services/logo"
)

// FieldName — имя multipart-поля с файлом.
const FieldName = "logo"

// memoryLimit — часть формы, которая держится в памяти, остальное уходит во временные файлы.
const memoryLimit = 1 << 20

// Service описывает загрузку логотипа.
type Service interface {
	Upload(ctx context.Context, userID string, up logo.Upload) (string, error)
	MaxSize() int64
}

// Response — путь к сохранённому логотипу.
type Response struct {
	Message   string `json:"message" example:"Logo uploaded successfully."`
	ImagePath string `json:"imagePath" example:"/uploads/3f1c9a.png"`
}

// Handler обрабатывает POST /upload/logo.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузка логотипа
// @Tags Logo
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param logo formData file true "Изображение до 5 МБ"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Файл не передан, слишком велик или не изображение"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /upload/logo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.logo.upload"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := resource.Caller(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxSize()+memoryLimit)
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Info("upload too large", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, "File too large.", err)
			return
		}
		log.Info("failed to parse multipart form", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "No file uploaded.", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		log.Info("no file in request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "No file uploaded.", err)
		return
	}
	defer file.Close()

	path, err := h.service.Upload(r.Context(), userID, logo.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		status := response.Problem(w, r, err, response.Messages{
			Invalid:  "Only image files up to 5 MB are allowed.",
			NotFound: "User not found.",
			Internal: "Failed to upload logo.",
		})
		if status >= http.StatusInternalServerError {
			log.Error("failed to upload logo", sl.Err(err))
		} else {
			log.Info("logo rejected", slog.String("filename", header.Filename), sl.Err(err))
		}
		return
	}

	log.Info("logo uploaded", slog.String("path", path), slog.Int64("size", header.Size))
	render.JSON(w, r, Response{Message: "Logo uploaded successfully.", ImagePath: path})
}
