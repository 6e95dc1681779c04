package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/katalvlaran/gridcalc/formula"
	"github.com/katalvlaran/gridcalc/position"
	"github.com/katalvlaran/gridcalc/sheet"
)

// Saver persists a named sheet. *store.Store implements it.
type Saver interface {
	Save(name string, s *sheet.Sheet) error
}

// Option configures a Server.
type Option func(*Server)

// WithStore saves the sheet under name after every successful mutation.
func WithStore(name string, st Saver) Option {
	return func(srv *Server) {
		srv.name = name
		srv.store = st
	}
}

// WithLogger sets the request logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l.With(slog.String("component", "api"))
		}
	}
}

// Server serves a single sheet.
type Server struct {
	mu     sync.Mutex
	sheet  *sheet.Sheet
	name   string
	store  Saver
	logger *slog.Logger
	router *gin.Engine
}

// CellResponse is the JSON form of one cell.
type CellResponse struct {
	Ref   string `json:"ref"`
	Text  string `json:"text"`
	Value string `json:"value"`
	Kind  string `json:"kind"`
}

// SheetResponse is the JSON form of the whole sheet.
type SheetResponse struct {
	Rows  int            `json:"rows"`
	Cols  int            `json:"cols"`
	Cells []CellResponse `json:"cells"`
	Table [][]string     `json:"table"`
}

type setCellRequest struct {
	Text *string `json:"text" binding:"required"`
}

type cellParams struct {
	Ref string `uri:"ref" binding:"required"`
}

// NewServer wraps s. The server owns s from now on; callers must not touch
// it concurrently.
func NewServer(s *sheet.Sheet, opts ...Option) *Server {
	srv := &Server{
		sheet:  s,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.router = srv.setupRouter()

	return srv
}

// Handler returns the HTTP handler serving all routes.
func (srv *Server) Handler() http.Handler {
	return srv.router
}

func (srv *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), srv.requestLogger())

	router.PUT("/cells/:ref", srv.setCellAction)
	router.GET("/cells/:ref", srv.getCellAction)
	router.DELETE("/cells/:ref", srv.clearCellAction)
	router.GET("/sheet", srv.getSheetAction)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "health")
	})

	return router
}

func (srv *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		srv.logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

func (srv *Server) setCellAction(c *gin.Context) {
	pos, ok := bindPosition(c)
	if !ok {
		return
	}
	var request setCellRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.sheet.SetCell(pos, *request.Text); err != nil {
		abort(c, statusOf(err), err)
		return
	}
	if !srv.save(c) {
		return
	}

	cell, _ := srv.sheet.Cell(pos)
	c.JSON(http.StatusOK, cellResponse(pos, cell))
}

func (srv *Server) getCellAction(c *gin.Context) {
	pos, ok := bindPosition(c)
	if !ok {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	cell, _ := srv.sheet.Cell(pos)
	if cell == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cell " + pos.String() + " not found"})
		return
	}
	c.JSON(http.StatusOK, cellResponse(pos, cell))
}

func (srv *Server) clearCellAction(c *gin.Context) {
	pos, ok := bindPosition(c)
	if !ok {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.sheet.ClearCell(pos); err != nil {
		abort(c, statusOf(err), err)
		return
	}
	if !srv.save(c) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (srv *Server) getSheetAction(c *gin.Context) {
	view := c.DefaultQuery("view", "values")
	var render func(*sheet.Cell) string
	switch view {
	case "values":
		render = func(cell *sheet.Cell) string { return cell.Value().String() }
	case "texts":
		render = (*sheet.Cell).Text
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view " + view})
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if err := srv.sheet.Recalculate(c.Request.Context()); err != nil {
		abort(c, http.StatusServiceUnavailable, err)
		return
	}
	size := srv.sheet.PrintableSize()
	response := SheetResponse{
		Rows:  size.Rows,
		Cols:  size.Cols,
		Cells: make([]CellResponse, 0, srv.sheet.Len()),
		Table: make([][]string, size.Rows),
	}
	for row := range response.Table {
		response.Table[row] = make([]string, size.Cols)
	}
	for p, cell := range srv.sheet.All() {
		response.Cells = append(response.Cells, cellResponse(p, cell))
		response.Table[p.Row][p.Col] = render(cell)
	}

	c.JSON(http.StatusOK, response)
}

// save persists the sheet when a store is configured. It writes the error
// response itself and reports whether the handler may continue.
func (srv *Server) save(c *gin.Context) bool {
	if srv.store == nil {
		return true
	}
	if err := srv.store.Save(srv.name, srv.sheet); err != nil {
		srv.logger.Error("save failed", slog.String("sheet", srv.name), slog.Any("error", err))
		abort(c, http.StatusInternalServerError, err)
		return false
	}

	return true
}

func bindPosition(c *gin.Context) (position.Position, bool) {
	var params cellParams
	if err := c.ShouldBindUri(&params); err != nil {
		abort(c, http.StatusBadRequest, err)
		return position.None, false
	}
	pos, err := position.Parse(params.Ref)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return position.None, false
	}

	return pos, true
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, sheet.ErrCircularDependency):
		return http.StatusConflict
	case errors.Is(err, sheet.ErrInvalidPosition), errors.Is(err, sheet.ErrFormulaSyntax):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func cellResponse(p position.Position, cell *sheet.Cell) CellResponse {
	v := cell.Value()
	return CellResponse{
		Ref:   p.String(),
		Text:  cell.Text(),
		Value: v.String(),
		Kind:  kindName(v.Kind()),
	}
}

func kindName(k formula.Kind) string {
	switch k {
	case formula.KindNumber:
		return "number"
	case formula.KindError:
		return "error"
	}

	return "string"
}
