package jsonapi

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// MediaType is the official JSON:API media type.
const MediaType = "application/vnd.api+json"

// MarshalDocument encodes a document to wire bytes.
func MarshalDocument(doc *Document) ([]byte, error) {
	if doc == nil {
		doc = &Document{Data: One{}}
	}
	return json.Marshal(doc)
}

// UnmarshalDocument is an alias of DeserializeDocument for the outbound
// direction's symmetry.
func UnmarshalDocument(data []byte) (*Document, error) {
	return DeserializeDocument(data)
}

// IsJSONAPI checks if the request accepts the JSON:API format.
func IsJSONAPI(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(accept)
	if err != nil {
		// Fall back to a substring check if parsing fails
		return strings.Contains(accept, MediaType)
	}
	return mediaType == MediaType
}

// ValidateContentType checks that the request carries the JSON:API media type
// without parameters, as the specification requires. On failure it writes a
// 415 error document and returns false.
func ValidateContentType(w http.ResponseWriter, r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != MediaType {
		RenderErrors(w, NewRequestError(http.StatusUnsupportedMediaType,
			"Content-Type must be "+MediaType))
		return false
	}
	if len(params) > 0 {
		RenderErrors(w, NewRequestError(http.StatusUnsupportedMediaType,
			"Content-Type must be "+MediaType+" without media type parameters"))
		return false
	}
	return true
}

// RenderDocument marshals the document and writes it with the given status.
// Marshaling happens before any byte reaches the response, so a failure never
// leaves a partial write behind.
func RenderDocument(w http.ResponseWriter, status int, doc *Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// RenderErrors writes an error document. The response status comes from the
// first error. A marshaling failure falls back to a fixed 500 document.
func RenderErrors(w http.ResponseWriter, errs ...*RequestError) {
	status := http.StatusInternalServerError
	if len(errs) > 0 {
		status = errs[0].Status
	}

	data, err := MarshalDocument(ErrorDocument(errs...))
	if err != nil {
		w.Header().Set("Content-Type", MediaType)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errors":[{"status":"500","code":"internal_error","title":"Internal Server Error"}]}`))
		return
	}

	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)
	w.Write(data)
}

// PaginationLinks builds self/first/last and, where applicable, prev/next
// links using page[limit]/page[offset] parameters.
func PaginationLinks(baseURL string, page, perPage, total int) Links {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	links := Links{
		"self":  {Href: buildPageURL(baseURL, page, perPage)},
		"first": {Href: buildPageURL(baseURL, 1, perPage)},
		"last":  {Href: buildPageURL(baseURL, totalPages, perPage)},
	}

	if page > 1 {
		links["prev"] = Link{Href: buildPageURL(baseURL, page-1, perPage)}
	}
	if page < totalPages {
		links["next"] = Link{Href: buildPageURL(baseURL, page+1, perPage)}
	}

	return links
}

func buildPageURL(baseURL string, page, perPage int) string {
	offset := (page - 1) * perPage

	u, err := url.Parse(baseURL)
	if err != nil {
		// Fallback to simple concatenation if parse fails
		return fmt.Sprintf("%s?page[limit]=%d&page[offset]=%d", baseURL, perPage, offset)
	}

	q := u.Query()
	q.Set("page[limit]", strconv.Itoa(perPage))
	q.Set("page[offset]", strconv.Itoa(offset))
	u.RawQuery = q.Encode()

	return u.String()
}
