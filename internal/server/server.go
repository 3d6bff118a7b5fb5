// Package server hosts a preview of the widget over HTTP: a rendered page,
// SVG and PNG snapshots, and the graph and panel data as JSON.
package server

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/controller"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/layout"
	"github.com/msalah0e/skillgraph/internal/metrics"
	"github.com/msalah0e/skillgraph/internal/panel"
	"github.com/msalah0e/skillgraph/internal/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server answers every request from a fresh controller and layout, so
// requests never share mutable state.
type Server struct {
	builder *graph.Builder
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter
	page    *render.HTMLRenderer
	router  *gin.Engine
}

// New wires the routes.
func New(b *graph.Builder, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	page, err := render.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		builder: b,
		cfg:     cfg,
		log:     log,
		metrics: m,
		limiter: rate.NewLimiter(rate.Limit(cfg.Serve.RateLimit), cfg.Serve.Burst),
		page:    page,
	}

	if !log.Core().Enabled(zap.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.GET("/graph", s.handleGraph)
	api.GET("/nodes/:id", s.handleNode)
	api.GET("/search", s.handleSearch)

	snap := r.Group("/", s.limit())
	snap.GET("/", s.handlePage)
	snap.GET("/graph.svg", s.handleSVG)
	snap.GET("/graph.png", s.handlePNG)

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("serving", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Request(route, c.Writer.Status())
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "render rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// view is the widget state a request asks for.
type view struct {
	extended bool
	selected string
	labels   *bool
	spacing  float64
	zoom     int
}

func parseView(c *gin.Context) view {
	v := view{}
	v.extended, _ = strconv.ParseBool(c.Query("extended"))
	v.selected = c.Query("selected")
	if s := c.Query("labels"); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			v.labels = &b
		}
	}
	v.spacing, _ = strconv.ParseFloat(c.Query("spacing"), 64)
	v.zoom, _ = strconv.Atoi(c.Query("zoom"))
	v.zoom = clampZoomSteps(v.zoom)
	return v
}

// Zoom starts at 1, so more steps than these only repeat the clamp.
var (
	maxZoomInSteps  = int(math.Ceil(math.Log(controller.MaxZoom) / math.Log(controller.ZoomStep)))
	maxZoomOutSteps = int(math.Ceil(math.Log(1/controller.MinZoom) / math.Log(controller.ZoomStep)))
)

func clampZoomSteps(n int) int {
	return max(-maxZoomOutSteps, min(n, maxZoomInSteps))
}

func (s *Server) graphFor(extended bool) *graph.Graph {
	g, _ := s.builder.Build(extended)
	s.metrics.Nodes(extended, len(g.Nodes))
	return g
}

// scene drives a fresh controller through the requested interactions and
// settles the layout.
func (s *Server) scene(v view) (render.Scene, render.Options) {
	o := render.OptionsFromConfig(s.cfg.Render)
	g := s.graphFor(false)
	eng := layout.NewEngine(g, layout.FromConfig(s.cfg.Layout), float64(o.Width), float64(o.Height), time.Now,
		layout.WithLogger(s.log))
	ctl := controller.New(g, eng, controller.FromBuilder(s.builder),
		controller.WithConfig(s.cfg),
		controller.WithHost(&controller.StaticHost{W: float64(o.Width), H: float64(o.Height)}),
		controller.WithLogger(s.log),
		controller.WithRecorder(s.metrics),
	)
	if v.extended {
		ctl.SetExtended(true)
	}
	if v.spacing != 0 {
		ctl.SetSpacing(v.spacing)
	}
	if v.labels != nil {
		ctl.SetShowLabels(*v.labels)
	}
	for i := 0; i < v.zoom; i++ {
		ctl.ZoomIn()
	}
	for i := 0; i > v.zoom; i-- {
		ctl.ZoomOut()
	}
	if v.selected != "" {
		ctl.Click(v.selected)
	}

	// Snapshots are framed to fit at the canvas size regardless of the
	// controller's proportional height.
	eng.Resize(float64(o.Width), float64(o.Height))
	start := time.Now()
	ticks := eng.Sim().Settle(o.Ticks)
	s.metrics.Ticks(ticks)
	s.log.Debug("layout settled", zap.Int("ticks", ticks), zap.Duration("elapsed", time.Since(start)))

	eng.ZoomToFit(o.Padding, 0)
	cam := eng.Camera()
	if z := ctl.State().Zoom; z > 0 && z != 1 {
		cam.Zoom(cam.K*z, 0)
	}
	eng.Stop()

	st := ctl.State()
	o.View = st
	return render.Scene{Graph: ctl.Graph(), Sim: eng.Sim(), Camera: cam, View: &st}, o
}

func (s *Server) handlePage(c *gin.Context) {
	start := time.Now()
	sc, o := s.scene(parseView(c))
	svg := render.SVGBytes(sc, o)
	out, err := s.page.Render("Skill Graph", svg, s.builder.Index(), sc.Graph)
	if err != nil {
		s.log.Error("render page", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.Render("html", time.Since(start))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

func (s *Server) handleSVG(c *gin.Context) {
	start := time.Now()
	sc, o := s.scene(parseView(c))
	data := render.SVGBytes(sc, o)
	s.metrics.Render("svg", time.Since(start))
	c.Data(http.StatusOK, "image/svg+xml", data)
}

func (s *Server) handlePNG(c *gin.Context) {
	start := time.Now()
	sc, o := s.scene(parseView(c))
	data, err := render.PNGBytes(sc, o)
	if err != nil {
		s.log.Error("render png", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.Render("png", time.Since(start))
	c.Data(http.StatusOK, "image/png", data)
}

func (s *Server) handleGraph(c *gin.Context) {
	extended, _ := strconv.ParseBool(c.Query("extended"))
	g := s.graphFor(extended)
	c.JSON(http.StatusOK, gin.H{
		"nodes":    g.Nodes,
		"links":    g.Links,
		"extended": g.Extended,
		"stats":    g.GetStats(),
		"warnings": s.builder.Warnings(),
	})
}

func (s *Server) handleNode(c *gin.Context) {
	id := c.Param("id")
	extended, _ := strconv.ParseBool(c.DefaultQuery("extended", "true"))
	g := s.graphFor(extended)
	n, ok := g.Node(id)
	if !ok {
		msg := "unknown node " + strconv.Quote(id)
		if s.builder.Index().Known(id) {
			msg = "node " + strconv.Quote(id) + " is only in the extended dataset"
		}
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, panel.Build(s.builder.Index(), g, n))
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q"})
		return
	}
	extended, _ := strconv.ParseBool(c.DefaultQuery("extended", "true"))
	c.JSON(http.StatusOK, s.graphFor(extended).Search(q))
}
