package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	KindRegistration   = "registration"
	KindAuthentication = "authentication"

	OutcomeVerified = "verified"
	OutcomeRejected = "rejected"
)

var (
	CeremoniesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ceremonies_total",
		Help: "WebAuthn ceremony completions by kind and outcome.",
	}, []string{"kind", "outcome"})

	AttendanceEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_events_total",
		Help: "Attendance events recorded by event type.",
	}, []string{"event_type"})
)

// Handler exposes the prometheus registry through fiber.
func Handler() fiber.Handler {
	h := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		h(c.Context())
		return nil
	}
}
