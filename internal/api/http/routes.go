package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/reefwatch/dhw-dashboard/internal/dashboard"
	"github.com/reefwatch/dhw-dashboard/internal/exceedance"
	"github.com/reefwatch/dhw-dashboard/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *dashboard.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/exceedance", func(c *fiber.Ctx) error {
		req, err := parseExceedanceQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := service.Update(req.DHW)
		if err != nil {
			if errors.Is(err, dashboard.ErrInvalidInput) {
				return fiber.NewError(fiber.StatusBadRequest, "dhw must be a finite number")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute exceedance")
		}

		return c.JSON(fiber.Map{
			"dhw":          snapshot.DHW,
			"windowsWeeks": windowsReversed(),
			"regions":      snapshot.Regions,
			"computedAt":   snapshot.ComputedAt,
		})
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		raw := c.Query("dhw")
		if raw == "" {
			snapshot, err := service.Latest()
			if err != nil {
				return fiber.NewError(fiber.StatusNotFound, "no estimate computed yet")
			}
			return c.JSON(snapshot)
		}

		snapshot, err := service.Update(raw)
		if err != nil {
			if errors.Is(err, dashboard.ErrInvalidInput) {
				return fiber.NewError(fiber.StatusBadRequest, "dhw must be a finite number")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute dashboard state")
		}
		return c.JSON(snapshot)
	})

	v1.Get("/regions", func(c *fiber.Ctx) error {
		return c.JSON(service.Regions().Collection)
	})

	v1.Get("/thresholds", func(c *fiber.Ctx) error {
		return c.JSON(exceedance.RegionThresholds)
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := service.History(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, dashboard.ErrNoEstimate) {
				return fiber.NewError(fiber.StatusNotFound, "no estimates for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch estimate history")
		}

		return c.JSON(fiber.Map{
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})
}

// windowsReversed reports the accumulation windows in the matrix's column
// order, [12-week, 8-week, 4-week].
func windowsReversed() [3]int {
	var out [3]int
	for i, w := range exceedance.AccumulationWindows {
		out[len(out)-1-i] = w
	}
	return out
}

// exceedanceQuery holds the query parameters for the exceedance endpoint. DHW
// stays a string here; the service layer owns the parse so the last-valid
// rule lives in one place.
type exceedanceQuery struct {
	DHW string `validate:"required"`
}

func parseExceedanceQuery(c *fiber.Ctx) (exceedanceQuery, error) {
	var q exceedanceQuery
	q.DHW = c.Query("dhw")

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
