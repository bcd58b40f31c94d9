package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/insightdelivered/cardstatement/internal/extractor"
	"github.com/insightdelivered/cardstatement/internal/models"
	"github.com/insightdelivered/cardstatement/internal/observability"
	"github.com/insightdelivered/cardstatement/internal/parser"
	"github.com/insightdelivered/cardstatement/internal/summary"
	"github.com/insightdelivered/cardstatement/internal/writer"
)

// Version is reported by the health endpoint and every conversion response.
const Version = "1.0.0"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success     bool                         `json:"success"`
	Error       string                       `json:"error,omitempty"`
	ID          string                       `json:"id,omitempty"`
	Sections    *SectionRecords              `json:"sections,omitempty"`
	Counts      map[models.Section]int       `json:"counts,omitempty"`
	Boundaries  []string                     `json:"boundaries,omitempty"`
	ParseErrors []*models.RecordParseError   `json:"parseErrors,omitempty"`
	Warnings    []models.EmptySectionWarning `json:"warnings,omitempty"`
	Summary     []summary.VendorTotal        `json:"summary,omitempty"`
	Structure   *models.StructureError       `json:"structure,omitempty"`
	CSV         string                       `json:"csv,omitempty"`
	Version     string                       `json:"version,omitempty"`
}

// SectionRecords holds the records of the four statement sections.
type SectionRecords struct {
	Fees              []models.TransactionRecord `json:"fees"`
	Refunds           []models.TransactionRecord `json:"refunds"`
	PrimaryExpenses   []models.TransactionRecord `json:"primaryExpenses"`
	SecondaryExpenses []models.TransactionRecord `json:"secondaryExpenses"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	// Options configure the statement parser for every request.
	Options []parser.Option
	// DefaultPassword opens encrypted PDFs when the request carries none.
	DefaultPassword string
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *Handler, maxUploadMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cardstatement",
		BodyLimit:             maxUploadMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(observability.ZapLoggerMiddleware(h.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Metrics.Registry, promhttp.HandlerOpts{})))
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	id := uuid.NewString()
	c.Locals("conversion_id", id)
	log := h.Logger.With(zap.String("conversion_id", id))

	start := time.Now()
	lines, status, err := h.readLines(c)
	h.Metrics.RecordStageDuration("extract", time.Since(start))
	if err != nil {
		h.Metrics.IncrDocument(observability.StatusFailed)
		return writeError(c, status, err.Error())
	}

	opts := append([]parser.Option{}, h.Options...)
	if strict := c.FormValue("strict"); strict == "true" || strict == "1" {
		opts = append(opts, parser.WithStrict(true))
	}

	start = time.Now()
	stmt, err := parser.New(opts...).Parse(lines)
	h.Metrics.RecordStageDuration("parse", time.Since(start))
	if err != nil {
		return h.parseFailure(c, log, err)
	}

	h.Metrics.ObserveStatement(stmt)
	h.Metrics.IncrDocument(observability.StatusSuccess)

	var csvBuf bytes.Buffer
	if err := (&writer.CSVWriter{IncludeHeader: true}).WriteStatement(&csvBuf, stmt); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	log.Info("statement converted",
		zap.Int("lines", len(lines)),
		zap.Int("records", stmt.Total()),
		zap.Int("parse_errors", len(stmt.ParseErrors)),
		zap.Int("empty_sections", len(stmt.Warnings)),
	)

	return c.JSON(ConvertResponse{
		Success: true,
		ID:      id,
		Sections: &SectionRecords{
			Fees:              nonNil(stmt.Fees),
			Refunds:           nonNil(stmt.Refunds),
			PrimaryExpenses:   nonNil(stmt.PrimaryExpenses),
			SecondaryExpenses: nonNil(stmt.SecondaryExpenses),
		},
		Counts:      stmt.Counts(),
		Boundaries:  stmt.Boundaries,
		ParseErrors: stmt.ParseErrors,
		Warnings:    stmt.Warnings,
		Summary:     summary.Expenses(stmt),
		CSV:         csvBuf.String(),
		Version:     Version,
	})
}

// readLines takes statement lines from the text field, or else from the uploaded file.
func (h *Handler) readLines(c *fiber.Ctx) ([]string, int, error) {
	if text := c.FormValue("text"); text != "" {
		lines, err := extractor.ReadLines(strings.NewReader(text))
		if err != nil {
			return nil, fiber.StatusBadRequest, err
		}
		return lines, 0, nil
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.StatusBadRequest, errors.New("no statement uploaded, use form field 'file' or 'text'")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return nil, fiber.StatusBadRequest, errors.New("only PDF and text files are supported")
	}

	tmpFile, err := os.CreateTemp("", "statement-*"+ext)
	if err != nil {
		return nil, fiber.StatusInternalServerError, errors.New("failed to create temp file")
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	if err := c.SaveFile(fh, tmpFile.Name()); err != nil {
		return nil, fiber.StatusInternalServerError, errors.New("failed to save uploaded file")
	}

	password := c.FormValue("password")
	if password == "" {
		password = h.DefaultPassword
	}

	lines, err := extractor.Load(tmpFile.Name(), password)
	switch {
	case errors.Is(err, extractor.ErrInvalidPassword):
		return nil, fiber.StatusBadRequest, err
	case err != nil:
		return nil, fiber.StatusUnprocessableEntity, fmt.Errorf("statement extraction failed: %w", err)
	}
	return lines, 0, nil
}

func (h *Handler) parseFailure(c *fiber.Ctx, log *zap.Logger, err error) error {
	resp := ConvertResponse{Success: false, Error: err.Error(), Version: Version}

	var se *models.StructureError
	switch {
	case errors.As(err, &se):
		h.Metrics.IncrDocument(observability.StatusStructure)
		resp.Structure = se
		log.Warn("statement structure rejected", zap.Int("boundaries", se.Found))
	case errors.Is(err, models.ErrRecordParse):
		h.Metrics.IncrDocument(observability.StatusParse)
		log.Warn("strict parse aborted", zap.Error(err))
	default:
		h.Metrics.IncrDocument(observability.StatusFailed)
		log.Error("statement parse failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
		Version: Version,
	})
}

// nonNil keeps empty sections as [] in JSON.
func nonNil(records []models.TransactionRecord) []models.TransactionRecord {
	if records == nil {
		return []models.TransactionRecord{}
	}
	return records
}
