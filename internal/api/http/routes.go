package httpapi

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/energy-forecast/internal/forecast"
	"github.com/i474232898/energy-forecast/internal/form"
	"github.com/i474232898/energy-forecast/internal/logger"
	"github.com/i474232898/energy-forecast/internal/model"
	"github.com/i474232898/energy-forecast/internal/page"
	"github.com/i474232898/energy-forecast/internal/store"
)

const sessionCookie = "forecast_session"

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	Sessions  *store.MemoryStore
	Predictor page.Predictor
	Model     *model.Service

	// Optional; default to math/rand/v2 and time.Now.
	Rand form.Rand
	Now  func() time.Time
}

type sharedRand struct{}

func (sharedRand) Float64() float64 { return rand.Float64() }

type handler struct {
	Deps
}

// ErrorHandler is the centralised error response used by the app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Rand == nil {
		deps.Rand = sharedRand{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handler{Deps: deps}

	app.Get("/", h.index)
	app.Post("/dummy", h.dummy)
	app.Post("/forecast", h.submit)
	app.Post("/predict", h.predict)

	v1 := app.Group("/api/v1")
	v1.Get("/page", h.pageState)
}

// index starts a fresh page, discarding the previous one of this browser.
func (h *handler) index(c *fiber.Ctx) error {
	if old := c.Cookies(sessionCookie); old != "" {
		h.Sessions.Delete(old)
	}
	sess := h.Sessions.Create(page.New(h.Now()))
	setSessionCookie(c, sess.ID)
	return renderPage(c, sess.Page.View())
}

func (h *handler) dummy(c *fiber.Ctx) error {
	sess := h.session(c)
	sess.Page.Bind(formLookup(c))
	sess.Page.FillDummyData(h.Rand)
	return respond(c, sess.Page.View())
}

func (h *handler) submit(c *fiber.Ctx) error {
	sess := h.session(c)
	sess.Page.Bind(formLookup(c))

	err := sess.Page.Submit(c.UserContext(), h.Predictor)
	switch {
	case err == nil:
	case errors.Is(err, page.ErrStaleResponse):
		logger.Debug("session %s: superseded submission", sess.ID)
	default:
		logger.Warn("session %s: submission failed: %v", sess.ID, err)
	}
	return respond(c, sess.Page.View())
}

func (h *handler) pageState(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c.Cookies(sessionCookie))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no page for this session")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load page")
	}
	return c.JSON(sess.Page.View())
}

// predict is the prediction endpoint the form posts to.
func (h *handler) predict(c *fiber.Ctx) error {
	req, err := forecast.DecodeRequest(func(key string) string { return c.FormValue(key) })
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.Model.Predict(req)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidRequest) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		logger.Error("predict: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "prediction failed")
	}
	return c.JSON(resp)
}

// session returns the caller's page session, creating one when the cookie
// is missing or expired.
func (h *handler) session(c *fiber.Ctx) *store.Session {
	if sess, err := h.Sessions.Get(c.Cookies(sessionCookie)); err == nil {
		return sess
	}
	sess := h.Sessions.Create(page.New(h.Now()))
	setSessionCookie(c, sess.ID)
	return sess
}

func setSessionCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// formLookup reads posted values. Fiber reuses request buffers, so values
// kept past the handler are copied.
func formLookup(c *fiber.Ctx) func(string) string {
	return func(key string) string {
		return utils.CopyString(c.FormValue(key))
	}
}

func respond(c *fiber.Ctx, v page.View) error {
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		return c.JSON(v)
	}
	return renderPage(c, v)
}
