package menu

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html/charset"

	"github.com/ardnew/jidelnicek/pkg"
)

// Fetch downloads the feed document with a single GET request and returns
// its text. The body must be a well-formed XML document whose root element
// is [RootTag]; every failure is reported as [ErrFetch] wrapping the cause.
// Fetch never retries.
func (p *Parser) Fetch(ctx context.Context) (string, error) {
	url := p.URL()
	logger := p.logger.With(
		slog.String("request", uuid.NewString()),
		slog.Int("cafeteria", p.cafeteriaID),
	)
	fail := func(err error) (string, error) {
		e := ErrFetch.With(slog.String("url", url)).Wrap(err)
		logger.DebugContext(ctx, "fetch failed", slog.Any("error", e))

		return "", e
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(err)
	}

	start := time.Now()

	logger.DebugContext(ctx, "fetch menu", slog.String("url", url))

	resp, err := p.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK ||
		resp.StatusCode >= http.StatusMultipleChoices {
		return fail(errHTTPStatus.
			With(slog.Int("status", resp.StatusCode)).
			Wrap(statusText(resp.Status)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(err)
	}

	text, err := DecodeText(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return fail(err)
	}

	doc, err := checkDocument(text)
	if err != nil {
		return fail(err)
	}

	logger.DebugContext(ctx, "fetched menu",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int("days", len(doc.Days)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return text, nil
}

// Read loads a feed document saved to disk (or piped) and applies the
// checks of [Parser.Fetch] to it, reporting failures as [ErrFetch].
func (p *Parser) Read(r io.Reader) (string, error) {
	text, err := ReadDocument(r)
	if err == nil {
		_, err = checkDocument(text)
	}

	if err != nil {
		e := ErrFetch.With(slog.String("source", "reader")).Wrap(err)
		p.logger.Debug("read failed", slog.Any("error", e))

		return "", e
	}

	return text, nil
}

// checkDocument verifies that text holds a feed document.
func checkDocument(text string) (*document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errEmptyBody
	}

	doc, err := decodeDocument(text)
	if err != nil {
		return nil, err
	}

	if doc.XMLName.Space != "" || doc.XMLName.Local != RootTag {
		root := doc.XMLName.Local
		if doc.XMLName.Space != "" {
			root = "{" + doc.XMLName.Space + "}" + root
		}

		return nil, errRootTag.
			With(slog.String("root", root)).
			Wrap(statusText("'" + root + "'"))
	}

	return doc, nil
}

// ReadDocument reads a raw feed document and returns its text converted to
// UTF-8 according to its XML declaration. The content is not checked.
func ReadDocument(r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", pkg.WrapError(err)
	}

	return DecodeText(body, "")
}

// xmlEncoding finds the encoding pseudo-attribute of an XML declaration.
var xmlEncoding = regexp.MustCompile(
	`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`,
)

// DecodeText converts a raw document to UTF-8 text. The charset parameter of
// contentType takes precedence over the document's XML declaration; without
// either, the body is taken to be UTF-8.
func DecodeText(body []byte, contentType string) (string, error) {
	label := ""

	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		label = params["charset"]
	}

	if label == "" {
		if m := xmlEncoding.FindSubmatch(body); m != nil {
			label = string(m[1])
		}
	}

	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return string(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))), nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	text, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(text), nil
}

// statusText is a plain error message used as the cause of a sentinel.
type statusText string

func (s statusText) Error() string { return string(s) }
