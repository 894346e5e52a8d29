package http

import (
	"time"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

// shortenRequest represents the body of a request to shorten a URL.
type shortenRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

// linkResponse represents a shortened URL. Hits is only reported by the info endpoint.
type linkResponse struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
	Hits      *uint64   `json:"hits,omitempty"`
}

func shortURL(baseURL, code string) string {
	return baseURL + "/" + code
}

func toLinkResponse(baseURL string, link *entity.Link) linkResponse {
	return linkResponse{
		Code:      link.Code,
		LongURL:   link.OriginalURL,
		ShortURL:  shortURL(baseURL, link.Code),
		CreatedAt: link.CreatedAt,
	}
}

func toLinkInfoResponse(baseURL string, link *entity.Link) linkResponse {
	resp := toLinkResponse(baseURL, link)
	hits := link.Hits
	resp.Hits = &hits
	return resp
}

type healthResponse struct {
	OK bool `json:"ok"`
}
