// Package handlers implements the HTTP API over the metrics service and the
// load pipeline.
package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Igorofyeshu4/keepgoing/internal/config"
	"github.com/Igorofyeshu4/keepgoing/internal/exporter"
	"github.com/Igorofyeshu4/keepgoing/internal/importer"
	"github.com/Igorofyeshu4/keepgoing/internal/service"
	"github.com/Igorofyeshu4/keepgoing/internal/source"
	"github.com/Igorofyeshu4/keepgoing/internal/store"
)

const dateLayout = "2006-01-02"

// Handlers carries the dependencies of the HTTP API. The store may be nil;
// persistence is then skipped.
type Handlers struct {
	svc   *service.MetricsService
	coord *importer.Coordinator
	store *store.Store
	cfg   *config.AppConfig

	// loadMu serializes loads; reportMu guards lastReport.
	loadMu     sync.Mutex
	reportMu   sync.RWMutex
	lastReport *importer.LoadReport
}

// NewHandlers creates the handler set.
func NewHandlers(svc *service.MetricsService, coord *importer.Coordinator, st *store.Store, cfg *config.AppConfig) *Handlers {
	return &Handlers{svc: svc, coord: coord, store: st, cfg: cfg}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{Code: code, Message: message})
}

// RegisterRoutes mounts the API under the given group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	v1 := api.Group("/v1")
	{
		v1.POST("/load", h.Load)
		v1.GET("/metrics/daily", h.GetDailyMetrics)
		v1.GET("/metrics/range", h.GetRangeMetrics)
		v1.GET("/metrics/responsibles", h.GetResponsibleTotals)
		v1.GET("/teams", h.GetTeams)
		v1.GET("/export/daily", h.ExportDaily)
		v1.GET("/status", h.GetStatus)
	}
}

type loadRequest struct {
	Files []string `json:"files"`
}

// Load runs the pipeline over the requested files, or the configured input
// files when the body names none.
func (h *Handlers) Load(c *gin.Context) {
	var req loadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, 400, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}

	files := req.Files
	if len(files) == 0 {
		files = h.cfg.Data.InputFiles
	}
	if len(files) == 0 {
		errorResponse(c, 400, "no input files requested or configured")
		return
	}

	h.loadMu.Lock()
	defer h.loadMu.Unlock()

	sources, closers, err := openSources(files)
	defer closeAll(closers)
	if err != nil {
		errorResponse(c, 400, err.Error())
		return
	}

	report := h.coord.Load(sources, nil)
	h.reportMu.Lock()
	h.lastReport = report
	h.reportMu.Unlock()

	h.persist(report)
	success(c, report)
}

// persist writes the snapshot and the load log entry. Persistence failures
// are logged, not surfaced; the in-memory aggregate is already updated.
func (h *Handlers) persist(report *importer.LoadReport) {
	if h.store == nil {
		return
	}
	if err := h.store.ReplaceDailyMetrics(h.svc.GetDailyRows()); err != nil {
		log.Printf("handlers: persist snapshot: %v", err)
	}
	if err := h.store.InsertLoadLog(report); err != nil {
		log.Printf("handlers: persist load log: %v", err)
	}
}

// openSources opens every requested file. The extension picks the reader:
// xlsx goes through excelize, everything else is treated as delimited text.
func openSources(files []string) ([]source.Source, []io.Closer, error) {
	var (
		sources []source.Source
		closers []io.Closer
	)
	for _, path := range files {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx", ".xlsm":
			wb, err := source.OpenWorkbook(path)
			if err != nil {
				return sources, closers, err
			}
			closers = append(closers, wb)
			sheets, err := wb.Sources()
			if err != nil {
				return sources, closers, err
			}
			sources = append(sources, sheets...)
		default:
			s, err := source.OpenDelimited(path, 0)
			if err != nil {
				return sources, closers, err
			}
			sources = append(sources, s)
		}
	}
	return sources, closers, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Printf("handlers: close source: %v", err)
		}
	}
}

// GetDailyMetrics answers one (date, team) scope. team is optional; empty
// means all teams.
func (h *Handlers) GetDailyMetrics(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		errorResponse(c, 400, err.Error())
		return
	}
	success(c, h.svc.GetDailyMetrics(date, c.Query("team")))
}

// GetRangeMetrics answers one all-teams record per day of [from, to].
func (h *Handlers) GetRangeMetrics(c *gin.Context) {
	from, err := parseDateParam(c, "from")
	if err != nil {
		errorResponse(c, 400, err.Error())
		return
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		errorResponse(c, 400, err.Error())
		return
	}
	if to.Before(from) {
		errorResponse(c, 400, "'to' precedes 'from'")
		return
	}
	success(c, h.svc.GetRangeMetrics(from, to))
}

// GetResponsibleTotals answers the per-responsible breakdown for one date.
func (h *Handlers) GetResponsibleTotals(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		errorResponse(c, 400, err.Error())
		return
	}
	success(c, h.svc.GetResponsibleTotals(date))
}

// GetTeams lists the teams observed in the loaded data.
func (h *Handlers) GetTeams(c *gin.Context) {
	success(c, h.svc.GetTeams())
}

// ExportDaily streams the aggregate snapshot as an xlsx attachment.
func (h *Handlers) ExportDaily(c *gin.Context) {
	f, err := exporter.Build(h.svc.GetDailyRows())
	if err != nil {
		errorResponse(c, 500, fmt.Sprintf("build export: %v", err))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("metricas_diarias_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("handlers: write export: %v", err)
	}
}

type statusResponse struct {
	Stats      interface{}          `json:"stats"`
	DateFrom   string               `json:"dateFrom,omitempty"`
	DateTo     string               `json:"dateTo,omitempty"`
	LastReport *importer.LoadReport `json:"lastReport,omitempty"`
	History    []store.LoadLogEntry `json:"history,omitempty"`
}

// GetStatus reports load bookkeeping, the observed date range and recent
// load history.
func (h *Handlers) GetStatus(c *gin.Context) {
	resp := statusResponse{Stats: h.svc.GetStats()}

	if from, to, ok := h.svc.GetDateRange(); ok {
		resp.DateFrom = from.Format(dateLayout)
		resp.DateTo = to.Format(dateLayout)
	}

	h.reportMu.RLock()
	resp.LastReport = h.lastReport
	h.reportMu.RUnlock()

	if h.store != nil {
		history, err := h.store.ListLoadLog(historyLimit(c))
		if err != nil {
			log.Printf("handlers: list load log: %v", err)
		} else {
			resp.History = history
		}
	}
	success(c, resp)
}

func historyLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}

func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing query parameter %q", name)
	}
	date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, want YYYY-MM-DD", name, raw)
	}
	return date, nil
}
