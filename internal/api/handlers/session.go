package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loanfillettaz/loadflow-visualization/internal/aggregate"
	"github.com/loanfillettaz/loadflow-visualization/internal/api/models"
	"github.com/loanfillettaz/loadflow-visualization/internal/grid"
	"github.com/loanfillettaz/loadflow-visualization/internal/model"
	"github.com/loanfillettaz/loadflow-visualization/internal/profile"
	"github.com/loanfillettaz/loadflow-visualization/internal/simulate"
	"github.com/loanfillettaz/loadflow-visualization/internal/solver"
)

// SessionHandler owns the session lifecycle: create from an uploaded
// topology, run the day, serve results.
type SessionHandler struct {
	store *SessionStore
	slv   solver.Solver
}

// NewSessionHandler wires a handler over a session store. A nil solver means
// the built-in Gauss-Seidel implementation.
func NewSessionHandler(store *SessionStore, slv solver.Solver) *SessionHandler {
	if slv == nil {
		slv = solver.NewGaussSeidel()
	}
	return &SessionHandler{store: store, slv: slv}
}

// CreateSession handles POST /api/v1/sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}

	topo, err := req.Topology.ToTopology()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_TOPOLOGY", err.Error()))
		return
	}

	net, err := grid.Build(topo, grid.Params{
		BasePowerVA:  req.BasePowerVA,
		BaseVoltageV: req.BaseVoltageV,
		FrequencyHz:  req.FrequencyHz,
		Name:         req.Name,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_NETWORK", err.Error()))
		return
	}

	opts, err := synthesizerOptions(req.Profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_PROFILE", err.Error()))
		return
	}
	set, err := profile.Synthesize(topo.LoadPoints, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_PROFILE", err.Error()))
		return
	}

	sess := h.store.Put(&Session{
		Name:     req.Name,
		Network:  net,
		Profiles: set,
	})

	c.JSON(http.StatusCreated, models.SessionResponse{
		SessionID:      sess.ID,
		Name:           sess.Name,
		Exclusions:     net.Exclusions,
		ExclusionCount: len(net.Exclusions),
		BusCount:       len(net.Buses),
		LineCount:      len(net.Lines),
		Links: models.SessionLinks{
			Run:       fmt.Sprintf("/api/v1/sessions/%s/run", sess.ID),
			Aggregate: fmt.Sprintf("/api/v1/sessions/%s/aggregate", sess.ID),
			Network:   fmt.Sprintf("/api/v1/sessions/%s/network", sess.ID),
		},
	})
}

// RunSession handles POST /api/v1/sessions/:id/run.
func (h *SessionHandler) RunSession(c *gin.Context) {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("SESSION_NOT_FOUND", "invalid session id"))
		return
	}

	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return
	}
	if req.HourEnd == 0 {
		req.HourEnd = model.HoursPerDay
	}

	agg := aggregate.New()
	var snaps []model.HourlySnapshot
	consume := func(snap *model.HourlySnapshot) {
		agg.Add(snap)
		if req.IncludeSnapshots {
			snaps = append(snaps, *snap)
		}
	}

	orch := simulate.New(sess.Network, sess.Profiles, h.slv)
	gaps, err := orch.Run(simulate.Options{
		HourStart:     req.HourStart,
		HourEnd:       req.HourEnd,
		Workers:       req.Workers,
		AllowHourGaps: req.AllowHourGaps,
	}, consume)
	if err != nil {
		switch {
		case errors.Is(err, solver.ErrNoConvergence):
			c.JSON(http.StatusUnprocessableEntity, models.NewError("SOLVER_NO_CONVERGENCE", err.Error()))
		case errors.Is(err, model.ErrConfiguration):
			c.JSON(http.StatusBadRequest, models.NewError("INVALID_RUN", err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, models.NewError("RUN_FAILED", err.Error()))
		}
		return
	}

	gapLabels := make([]string, 0, len(gaps))
	for _, g := range gaps {
		agg.AddGap(g.Hour)
		gapLabels = append(gapLabels, g.Hour)
	}

	daily := agg.Finalize()
	sess.SetAggregate(daily)

	c.JSON(http.StatusOK, models.RunResponse{
		Status:    "ok",
		Aggregate: daily,
		Gaps:      gapLabels,
		Snapshots: snaps,
	})
}

// GetAggregate handles GET /api/v1/sessions/:id/aggregate.
func (h *SessionHandler) GetAggregate(c *gin.Context) {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("SESSION_NOT_FOUND", "invalid session id"))
		return
	}
	agg := sess.Aggregate()
	if agg == nil {
		c.JSON(http.StatusNotFound, models.NewError("NO_RESULT", "session has not been run yet"))
		return
	}
	c.JSON(http.StatusOK, agg)
}

// ExportNetwork handles GET /api/v1/sessions/:id/network.
func (h *SessionHandler) ExportNetwork(c *gin.Context) {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.NewError("SESSION_NOT_FOUND", "invalid session id"))
		return
	}
	c.JSON(http.StatusOK, sess.Network)
}

func synthesizerOptions(p models.ProfileRequest) (profile.Options, error) {
	opts := profile.Options{
		Archetype:           p.Archetype,
		GenerationArchetype: p.GenerationArchetype,
		Stochastic:          p.Stochastic,
		AddNoise:            p.AddNoise,
		NoiseLevel:          p.NoiseLevel,
		ReactiveFraction:    p.ReactiveFraction,
		Seed:                p.Seed,
	}
	if opts.Archetype == "" {
		opts.Archetype = "residential_weekday"
	}
	if opts.GenerationArchetype == "" {
		opts.GenerationArchetype = "summer"
	}
	if p.Stochastic {
		rows := make(map[string]profile.Breakpoints, len(p.Quantiles))
		for hour, q := range p.Quantiles {
			rows[hour] = profile.Breakpoints{
				Q5: q.Q5, Q10: q.Q10, Q25: q.Q25, Q50: q.Q50,
				Q75: q.Q75, Q90: q.Q90, Q95: q.Q95,
			}
		}
		table, err := profile.NewQuantileTable(rows)
		if err != nil {
			return profile.Options{}, err
		}
		opts.Quantiles = table
	}
	return opts, nil
}
