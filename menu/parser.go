package menu

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/log"
)

// Parser fetches and decodes the menu feed of one cafeteria.
//
// A Parser holds no per-call state; its collaborators (dictionary, HTTP
// client, logger) are read-only, so one value may be shared between
// goroutines or created per call.
type Parser struct {
	cafeteriaID int
	dict        *allergen.Dictionary
	client      *http.Client
	urlTemplate string
	logger      log.Logger
}

// Option configures a [Parser].
type Option func(*Parser)

// WithHTTPClient sets the client used by [Parser.Fetch].
func WithHTTPClient(c *http.Client) Option {
	return func(p *Parser) {
		if c != nil {
			p.client = c
		}
	}
}

// WithURLTemplate overrides [DefaultURLTemplate].
func WithURLTemplate(tmpl string) Option {
	return func(p *Parser) {
		if tmpl != "" {
			p.urlTemplate = tmpl
		}
	}
}

// WithConfig applies the settings of cfg. A non-zero timeout installs a new
// HTTP client with that timeout.
func WithConfig(cfg Config) Option {
	return func(p *Parser) {
		WithURLTemplate(cfg.URLTemplate)(p)

		if cfg.Timeout > 0 {
			p.client = &http.Client{Timeout: cfg.Timeout}
		}
	}
}

// WithLogger sets the logger for fetch and decode events.
func WithLogger(l log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// New returns a Parser for the cafeteria identified by cafeteriaID. The
// dictionary translates allergen codes when a query asks for names; a nil
// dictionary knows no codes.
func New(cafeteriaID int, dict *allergen.Dictionary, opts ...Option) *Parser {
	p := &Parser{
		cafeteriaID: cafeteriaID,
		dict:        dict,
		client:      http.DefaultClient,
		urlTemplate: DefaultURLTemplate,
		logger:      log.Discard(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// CafeteriaID returns the cafeteria the parser is bound to.
func (p *Parser) CafeteriaID() int { return p.cafeteriaID }

// URL returns the feed address of the parser's cafeteria.
func (p *Parser) URL() string {
	return strings.ReplaceAll(
		p.urlTemplate,
		IDPlaceholder,
		strconv.Itoa(p.cafeteriaID),
	)
}
