package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

const (
	maxResumeBodySize = 10 << 20 // 10MB
	maxURLFetchSize   = 5 << 20  // 5MB
	maxResumeExcerpt  = 4000     // characters kept on the session
)

type resumeRequest struct {
	Type    string `json:"type"` // "pdf", "text", or "url"
	Content string `json:"content"`
	URL     string `json:"url"`
}

type resumeResponse struct {
	Chars int `json:"chars"`
}

// handleResume attaches a resume excerpt to a session. PDFs arrive as
// base64 content, URLs are fetched and stripped of HTML markup, raw text
// passes straight through. The excerpt is never part of the questionnaire;
// it rides along as a pass-through field on the persisted record.
func handleResume(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxResumeBodySize)
		defer r.Body.Close()

		entry, ok := deps.Registry.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}

		var req resumeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		var text string
		var err error
		switch req.Type {
		case "pdf":
			text, err = resumeFromPDF(req.Content)
		case "text":
			text = req.Content
		case "url":
			text, err = resumeFromURL(r.Context(), deps.HTTPClient, req.URL)
		default:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "type must be one of pdf, text, url")
			return
		}
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "extracting resume text: %v", err)
			return
		}

		excerpt := normalizeWhitespace(text)
		if excerpt == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "resume contains no extractable text")
			return
		}
		if len(excerpt) > maxResumeExcerpt {
			excerpt = excerpt[:maxResumeExcerpt]
		}

		entry.mu.Lock()
		entry.session.Extras["resume_excerpt"] = excerpt
		entry.mu.Unlock()

		writeJSON(w, http.StatusOK, resumeResponse{Chars: len(excerpt)})
	}
}

func resumeFromPDF(b64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("invalid base64 content: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}

func resumeFromURL(ctx context.Context, client *http.Client, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("url is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("url returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxURLFetchSize))
	if err != nil {
		return "", fmt.Errorf("reading url response: %w", err)
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return htmlToText(bytes.NewReader(body))
	}
	return string(body), nil
}

// htmlToText strips markup, returning the visible text of the document.
// Script and style contents are dropped.
func htmlToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String(), nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
