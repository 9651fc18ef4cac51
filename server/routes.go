package server

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ardnew/jidelnicek/filter"
	"github.com/ardnew/jidelnicek/menu"
	"github.com/ardnew/jidelnicek/pkg"
)

// Request errors reported before the feed is contacted.
var (
	ErrCafeteriaID = pkg.NewError("invalid cafeteria id")
	ErrQuery       = pkg.NewError("invalid query parameter")
	ErrNotListed   = pkg.NewError("date not listed in menu")
)

func (s *Server) routes() {
	s.router.GET("/health", s.health)
	s.router.GET("/allergens", s.allergens)

	caf := s.router.Group("/cafeterias/:id")
	caf.GET("/menu", s.wholeMenu)
	caf.GET("/closest", s.closestDay)
	caf.GET("/days/:date", s.dateMenu)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": pkg.Name,
		"version": pkg.Version(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) allergens(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.Dictionary.Entries())
}

// request is the parsed input common to the menu routes.
type request struct {
	parser *menu.Parser
	filter *filter.Filter
	names  bool
}

func (s *Server) request(c *gin.Context) (request, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return request{}, ErrCafeteriaID.With(slog.String("id", c.Param("id")))
	}

	var names bool

	if v := c.Query("names"); v != "" {
		names, err = strconv.ParseBool(v)
		if err != nil {
			return request{}, ErrQuery.With(slog.String("names", v)).Wrap(err)
		}
	}

	f, err := filter.Compile(c.Query("where"))
	if err != nil {
		return request{}, err
	}

	opts := append(slices.Clone(s.cfg.Parser), menu.WithLogger(s.cfg.Logger.With(
		slog.String("request", c.GetString(requestIDKey)),
	)))

	return request{
		parser: menu.New(id, s.cfg.Dictionary, opts...),
		filter: f,
		names:  names,
	}, nil
}

func (s *Server) wholeMenu(c *gin.Context) {
	req, err := s.request(c)
	if err != nil {
		s.fail(c, err)

		return
	}

	text, err := req.parser.Fetch(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}

	m, err := req.parser.WholeMenu(text, req.names)
	if err == nil {
		m, err = req.filter.Menu(m)
	}

	if err != nil {
		s.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, m)
}

func (s *Server) closestDay(c *gin.Context) {
	req, err := s.request(c)
	if err != nil {
		s.fail(c, err)

		return
	}

	text, err := req.parser.Fetch(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}

	day, err := req.parser.ClosestDay(text, req.names)
	if err == nil {
		day, err = req.filter.Day(day)
	}

	if err != nil {
		s.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, day)
}

func (s *Server) dateMenu(c *gin.Context) {
	date := c.Param("date")

	// A bad date is rejected before the feed is fetched.
	if err := menu.ValidateDate(date); err != nil {
		s.fail(c, err)

		return
	}

	req, err := s.request(c)
	if err != nil {
		s.fail(c, err)

		return
	}

	text, err := req.parser.Fetch(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}

	day, found, err := req.parser.DateMenu(text, date, req.names)
	if err == nil && !found {
		err = ErrNotListed.With(slog.String("date", date))
	}

	if err == nil {
		day, err = req.filter.Day(day)
	}

	if err != nil {
		s.fail(c, err)

		return
	}

	c.JSON(http.StatusOK, day)
}

// fail writes err as a JSON error response.
func (s *Server) fail(c *gin.Context, err error) {
	status, kind := classify(err)

	s.cfg.Logger.DebugContext(c.Request.Context(), "request failed",
		slog.String("request", c.GetString(requestIDKey)),
		slog.Any("error", err),
	)

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// classify maps err to a response status and a short kind name.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrCafeteriaID):
		return http.StatusBadRequest, "cafeteria id"
	case errors.Is(err, ErrQuery):
		return http.StatusBadRequest, "query"
	case errors.Is(err, filter.ErrCompile):
		return http.StatusBadRequest, "filter"
	case errors.Is(err, filter.ErrEvaluate):
		return http.StatusUnprocessableEntity, "filter"
	case errors.Is(err, ErrNotListed):
		return http.StatusNotFound, "not listed"
	}

	kind := menu.KindOf(err)

	switch kind {
	case menu.KindInvalidDateFormat:
		return http.StatusBadRequest, kind.String()
	case menu.KindNoDayFound:
		return http.StatusNotFound, kind.String()
	case menu.KindFetch, menu.KindMalformedDocument:
		return http.StatusBadGateway, kind.String()
	case menu.KindUnknownAllergenCode:
		return http.StatusUnprocessableEntity, kind.String()
	case menu.KindNone, menu.KindOther:
	}

	return http.StatusInternalServerError, menu.KindOther.String()
}
