package tracker

import (
	"errors"
	"net/url"
	"strings"

	"feedmark/core/events"
	"feedmark/core/logger"
	"feedmark/core/page"
	"feedmark/core/reconcile"
	"feedmark/core/state"
	"feedmark/core/utils"
	"feedmark/feature/feeds"
	"feedmark/feature/marker"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ActivateRequest is the body of POST /tracker/sessions.
type ActivateRequest struct {
	// URL is the address the page was rendered at.
	URL string `json:"url"`
	// HTML is the rendered document.
	HTML string `json:"html"`
}

// LoadRequest is the body of POST /tracker/sessions/{id}/loads.
type LoadRequest struct {
	// HTML is the document after more items were appended.
	HTML string `json:"html"`
}

// Handler handles HTTP requests for the tracker.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, logger: service.logger}
}

// RegisterRoutes registers the tracker routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/tracker")
	group.Post("/sessions", h.HandleActivate)
	group.Get("/sessions/:id", h.HandleSession)
	group.Post("/sessions/:id/loads", h.HandleLoad)
	group.Delete("/sessions/:id", h.HandleDeactivate)
	group.Get("/cursors/:kind", h.HandleListCursors)
	group.Get("/cursors/:kind/:key", h.HandleGetCursor)
	group.Delete("/cursors/:kind/:key", h.HandleResetCursor)
}

// HandleActivate activates a feed context for a rendered page.
// @Summary Activate Feed Context
// @Description Reconciles the rendered items against the stored cursor and returns the page with the separator placed when it is due.
// @Tags tracker
// @Accept json
// @Produce json
// @Param request body ActivateRequest true "Rendered page"
// @Param html query boolean false "Include rendered HTML (default true)"
// @Success 201 {object} Report "Session Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Separator Conflict"
// @Failure 422 {object} map[string]string "Invariant Violation"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /tracker/sessions [post]
func (h *Handler) HandleActivate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sess, err := h.service.Activate(c.UserContext(), req.URL, strings.NewReader(req.HTML))
	if err != nil {
		return h.fail(c, l, "Activation failed", err)
	}

	report, err := sess.Report(includeHTML(c))
	if err != nil {
		return h.fail(c, l, "Report failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// HandleSession returns the state of a live session.
// @Summary Get Session
// @Description Returns the latest report of a live session.
// @Tags tracker
// @Produce json
// @Param id path string true "Session ID"
// @Param html query boolean false "Include rendered HTML (default true)"
// @Success 200 {object} Report "Session Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /tracker/sessions/{id} [get]
func (h *Handler) HandleSession(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	sess, err := h.service.Session(c.Params("id"))
	if err != nil {
		return h.fail(c, l, "Session lookup failed", err)
	}
	report, err := sess.Report(includeHTML(c))
	if err != nil {
		return h.fail(c, l, "Report failed", err)
	}
	return c.JSON(report)
}

// HandleLoad delivers an incremental render to a session.
// @Summary Deliver Incremental Load
// @Description Replaces the session page with a newer render. A waiting session reconciles the appended items.
// @Tags tracker
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body LoadRequest true "Rendered page"
// @Param html query boolean false "Include rendered HTML (default true)"
// @Success 200 {object} Report "Session Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]string "Invariant Violation"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /tracker/sessions/{id}/loads [post]
func (h *Handler) HandleLoad(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req LoadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sess, err := h.service.Load(c.UserContext(), c.Params("id"), strings.NewReader(req.HTML))
	if err != nil {
		return h.fail(c, l, "Incremental load failed", err)
	}
	report, err := sess.Report(includeHTML(c))
	if err != nil {
		return h.fail(c, l, "Report failed", err)
	}
	return c.JSON(report)
}

// HandleDeactivate tears a session down.
// @Summary Deactivate Session
// @Description Unsubscribes the session from incremental loads and removes its separator.
// @Tags tracker
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /tracker/sessions/{id} [delete]
func (h *Handler) HandleDeactivate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if err := h.service.Deactivate(c.Params("id")); err != nil {
		return h.fail(c, l, "Deactivation failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListCursors lists stored cursor keys.
// @Summary List Cursors
// @Description Lists the context keys that have a stored cursor.
// @Tags tracker
// @Produce json
// @Param kind path string true "Context kind (dashboard, tagged)"
// @Success 200 {object} map[string]interface{} "Cursor Keys"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /tracker/cursors/{kind} [get]
func (h *Handler) HandleListCursors(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	kind := feeds.Kind(c.Params("kind"))
	keys, err := h.service.Keys(c.UserContext(), kind)
	if err != nil {
		return h.fail(c, l, "Cursor listing failed", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(fiber.Map{"kind": kind, "keys": keys})
}

// HandleGetCursor returns a stored cursor.
// @Summary Get Cursor
// @Description Returns the goal post, witnessed ranges and hints stored for a context.
// @Tags tracker
// @Produce json
// @Param kind path string true "Context kind (dashboard, tagged)"
// @Param key path string true "Context key"
// @Success 200 {object} state.View "Cursor"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Invalid Stored Cursor"
// @Router /tracker/cursors/{kind}/{key} [get]
func (h *Handler) HandleGetCursor(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cursor key"})
	}
	view, err := h.service.Cursor(c.UserContext(), feeds.Kind(c.Params("kind")), key)
	if err != nil {
		return h.fail(c, l, "Cursor lookup failed", err)
	}
	return c.JSON(view)
}

// HandleResetCursor forgets a stored cursor.
// @Summary Reset Cursor
// @Description Removes the stored cursor; the next visit starts from scratch.
// @Tags tracker
// @Param kind path string true "Context kind (dashboard, tagged)"
// @Param key path string true "Context key"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /tracker/cursors/{kind}/{key} [delete]
func (h *Handler) HandleResetCursor(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cursor key"})
	}
	if err := h.service.ResetCursor(c.UserContext(), feeds.Kind(c.Params("kind")), key); err != nil {
		return h.fail(c, l, "Cursor reset failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError || status == fiber.StatusUnprocessableEntity {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusFor maps a tracker error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, events.ErrNoSubscriber):
		return fiber.StatusNotFound
	case errors.Is(err, feeds.ErrUnsupported), errors.Is(err, page.ErrNoURL):
		return fiber.StatusBadRequest
	case errors.Is(err, marker.ErrMarkerExists), errors.Is(err, marker.ErrItemNotFound), errors.Is(err, ErrAlreadyRunning):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrInvariant), errors.Is(err, state.ErrInvalidCursor):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func includeHTML(c *fiber.Ctx) bool {
	raw := c.Query("html")
	return raw == "" || utils.ToBool(raw)
}
