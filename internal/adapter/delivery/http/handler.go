package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/skip2/go-qrcode"
	"github.com/vadimbarashkov/shortlink/docs"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

const qrCodeSize = 256

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{OK: true})
}

func handleSwaggerSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(docs.Swagger)
}

type linkUseCase interface {
	Shorten(ctx context.Context, originalURL string) (*entity.Link, error)
	Info(ctx context.Context, code string) (*entity.Link, error)
	Redirect(ctx context.Context, code string) (string, error)
}

type linkHandler struct {
	useCase  linkUseCase
	validate *validator.Validate
	baseURL  string
}

func newLinkHandler(useCase linkUseCase, validate *validator.Validate, baseURL string) *linkHandler {
	return &linkHandler{
		useCase:  useCase,
		validate: validate,
		baseURL:  baseURL,
	}
}

func (h *linkHandler) shorten(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.linkHandler.shorten"

	// A body sent as anything but JSON carries no url field.
	if r.Header.Get("Content-Type") != "" && render.GetRequestContentType(r) != render.ContentTypeJSON {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidURLResponse)
		return
	}

	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.BadRequestResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return
	}

	link, err := h.useCase.Shorten(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidURL) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.InvalidURLResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "op", slog.StringValue(op))
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toLinkResponse(h.baseURL, link))
}

func (h *linkHandler) info(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.linkHandler.info"

	code := chi.URLParam(r, "code")

	link, err := h.useCase.Info(r.Context(), code)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.NotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "op", slog.StringValue(op))
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toLinkInfoResponse(h.baseURL, link))
}

// qrCode renders the short URL of an existing link as a PNG QR code.
func (h *linkHandler) qrCode(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.linkHandler.qrCode"

	code := chi.URLParam(r, "code")

	link, err := h.useCase.Info(r.Context(), code)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.NotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "op", slog.StringValue(op))
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	png, err := qrcode.Encode(shortURL(h.baseURL, link.Code), qrcode.Medium, qrCodeSize)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "op", slog.StringValue(op))
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *linkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	const op = "adapter.delivery.http.linkHandler.redirect"

	code := chi.URLParam(r, "code")

	originalURL, err := h.useCase.Redirect(r.Context(), code)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.NotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "op", slog.StringValue(op))
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	http.Redirect(w, r, originalURL, http.StatusFound)
}
