package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rrsim/sim"
)

// serveCmd exposes the simulator over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Round Robin simulations over an HTTP JSON API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveConfig(cmd)
		if cmd.Flags().Changed("port") {
			cfg.Serve.Port = servePort
		}
		app := NewServer(cfg)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			logrus.Info("Shutting down server")
			if err := app.Shutdown(); err != nil {
				logrus.Errorf("shutdown: %v", err)
			}
		}()

		addr := fmt.Sprintf(":%d", cfg.Serve.Port)
		logrus.Infof("Listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logrus.Fatalf("Server failed: %v", err)
		}
	},
}

// SchedulerHandler serves simulation requests. Every request builds its
// own engine, so handlers share no simulation state.
type SchedulerHandler struct {
	contextSwitchTime float64
	maxHorizon        int64
}

// NewServer builds the fiber app with all routes registered.
func NewServer(cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	h := &SchedulerHandler{contextSwitchTime: cfg.ContextSwitchTime, maxHorizon: cfg.Serve.MaxHorizon}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	v1 := app.Group("/api").Group("/v1")
	v1.Post("/rr", h.RoundRobin)
	v1.Post("/sweep", h.Sweep)
	return app
}

// RoundRobin simulates one quantum.
func (h *SchedulerHandler) RoundRobin(c *fiber.Ctx) error {
	var req SimulationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: fmt.Sprintf("invalid request format: %v", err)})
	}
	if err := h.checkHorizon(req.Processes); err != nil {
		return writeError(c, err)
	}
	summary, _, err := Simulate(req.Processes, req.Quantum, req.ContextSwitchTime.OrElse(h.contextSwitchTime), req.Trace)
	if err != nil {
		return writeError(c, err)
	}
	logrus.Debugf("served rr quantum=%d processes=%d", req.Quantum, len(req.Processes))
	return c.JSON(summary)
}

// Sweep simulates every requested quantum.
func (h *SchedulerHandler) Sweep(c *fiber.Ctx) error {
	var req SweepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: fmt.Sprintf("invalid request format: %v", err)})
	}
	if err := h.checkHorizon(req.Processes); err != nil {
		return writeError(c, err)
	}
	summaries, err := SweepQuanta(req.Processes, req.Quanta, req.ContextSwitchTime.OrElse(h.contextSwitchTime))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summaries)
}

// checkHorizon rejects workloads whose engine would step past maxHorizon ticks.
func (h *SchedulerHandler) checkHorizon(records []sim.AdmissionRecord) error {
	horizon, err := sim.Horizon(records)
	if err != nil {
		return err
	}
	if horizon > h.maxHorizon {
		return fmt.Errorf("%w: latest arrival plus total burst is %d ticks, server limit is %d",
			sim.ErrInvalidInput, horizon, h.maxHorizon)
	}
	return nil
}

// writeError maps caller mistakes to 400 and everything else to 500.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, sim.ErrInvalidInput) || errors.Is(err, sim.ErrInvalidConfiguration) {
		status = fiber.StatusBadRequest
	} else {
		logrus.Errorf("simulation failed: %v", err)
	}
	return c.Status(status).JSON(errorResponse{Error: err.Error()})
}
