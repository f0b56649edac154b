package broadcast

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BroadcastIDHeader carries the id that tags every log line of a broadcast.
const BroadcastIDHeader = "X-Broadcast-ID"

const (
	msgSMSRequired   = "Message content is required"
	msgEmailRequired = "Subject and message content are required"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
	log      *zap.Logger
}

type smsRequest struct {
	Message string `json:"message" validate:"required"`
}

type emailRequest struct {
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text" validate:"required"`
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, validate: validator.New(), log: log}
}

// RegisterRoutes mounts the broadcast endpoints. guards run before each
// endpoint, e.g. an operator JWT check.
func (h *Handler) RegisterRoutes(r fiber.Router, guards ...fiber.Handler) {
	r.Post("/sendSmsToAll", withGuards(guards, h.sendSMSToAll)...)
	r.Post("/sendEmailToAll", withGuards(guards, h.sendEmailToAll)...)
}

func withGuards(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, h)
}

func (h *Handler) sendSMSToAll(c *fiber.Ctx) error {
	payload := new(smsRequest)
	if err := parseBody(c, payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgSMSRequired})
	}

	res, err := h.service.BroadcastSMS(c.UserContext(), payload.Message)
	if err != nil {
		return h.fail(c, err, "Failed to send messages")
	}

	c.Set(BroadcastIDHeader, res.ID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Messages sent successfully"})
}

func (h *Handler) sendEmailToAll(c *fiber.Ctx) error {
	payload := new(emailRequest)
	if err := parseBody(c, payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgEmailRequired})
	}

	res, err := h.service.BroadcastEmail(c.UserContext(), payload.Subject, payload.Text)
	if err != nil {
		return h.fail(c, err, "Failed to send emails")
	}

	c.Set(BroadcastIDHeader, res.ID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Emails sent successfully"})
}

func (h *Handler) fail(c *fiber.Ctx, err error, summary string) error {
	switch {
	case errors.Is(err, ErrMessageRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgSMSRequired})
	case errors.Is(err, ErrSubjectAndTextRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgEmailRequired})
	}

	h.log.Error(summary, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   summary,
		"details": err.Error(),
	})
}

// parseBody treats an empty body as an empty object so missing fields are
// reported as validation errors rather than parse errors.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
