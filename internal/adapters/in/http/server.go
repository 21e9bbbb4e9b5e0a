package http

import (
	"log/slog"
	"net/http"

	"porterage/internal/adapters/in/textcmd"
	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/application/usecases/queries"
	"porterage/internal/core/domain/model/request"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers are the use cases reachable over HTTP.
type Handlers struct {
	textcmd.Handlers
	GetStats    queries.GetStatsQueryHandler
	ListJournal queries.ListJournalQueryHandler
}

// Server maps HTTP routes onto application use cases.
type Server struct {
	handlers   Handlers
	dispatcher *textcmd.Dispatcher
	metrics    http.Handler
	logger     *slog.Logger
}

// NewServer creates a server. metrics may be nil, which leaves /metrics unrouted.
func NewServer(
	handlers Handlers,
	dispatcher *textcmd.Dispatcher,
	metrics http.Handler,
	logger *slog.Logger,
) *Server {
	return &Server{
		handlers:   handlers,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger.With("component", "http_server"),
	}
}

// Register adds every route to e.
func (s *Server) Register(e *echo.Echo) error {
	doc, err := LoadOpenAPI()
	if err != nil {
		return err
	}
	if err = registerSwagger(doc); err != nil {
		return err
	}
	validator, err := requestValidator(doc)
	if err != nil {
		return err
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", openAPISpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics))
	}
	e.POST("/webhook/messages", s.ReceiveMessage)

	api := e.Group("/api/v1", validator)
	api.GET("/requests", s.ListRequests)
	api.POST("/requests", s.CreateRequest)
	api.GET("/queue", s.GetQueue)
	api.POST("/requests/:id/pickup", s.transition(commands.NewPickupCommand))
	api.POST("/requests/:id/start", s.transition(commands.NewStartCommand))
	api.POST("/requests/:id/finish", s.transition(commands.NewFinishCommand))
	api.POST("/requests/:id/cancel", s.CancelRequest)
	api.POST("/requests/:id/cancel-pickup", s.CancelPickup)
	api.POST("/requests/:id/undo", s.UndoRequest)
	api.GET("/porters", s.ListPorters)
	api.POST("/porters/sign-in", s.SignIn)
	api.POST("/porters/sign-out", s.SignOut)
	api.GET("/stats", s.GetStats)
	api.GET("/logs", s.ListLogs)
	return nil
}

func requestID(c echo.Context) (int, error) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return id, err
}

// ListRequests handles GET /api/v1/requests?scope=active|all.
func (s *Server) ListRequests(c echo.Context) error {
	scope, err := queries.ParseScope(c.QueryParam("scope"))
	if err != nil {
		return s.fail(c, err)
	}
	return s.listRequests(c, scope)
}

// GetQueue handles GET /api/v1/queue, the whole ledger oldest first.
func (s *Server) GetQueue(c echo.Context) error {
	return s.listRequests(c, queries.ScopeAll)
}

func (s *Server) listRequests(c echo.Context, scope queries.Scope) error {
	query, err := queries.NewListRequestsQuery(scope)
	if err != nil {
		return s.fail(c, err)
	}
	list, err := s.handlers.ListRequests.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRequests(list))
}

// CreateRequest handles POST /api/v1/requests.
func (s *Server) CreateRequest(c echo.Context) error {
	var body NewRequest
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	priority, err := request.ParsePriority(body.Priority)
	if err != nil {
		return s.fail(c, err)
	}
	if body.Urgent {
		priority = request.High
	}

	cmd, err := commands.NewCreateRequestCommand(body.From, body.To, priority, body.Requester)
	if err != nil {
		return s.fail(c, err)
	}
	created, err := s.handlers.CreateRequest.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toRequest(queries.NewRequestResponse(created)))
}

func (s *Server) transition(
	newCommand func(id int, porter string) (commands.TransitionRequestCommand, error),
) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := requestID(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		var body PorterAction
		if err = c.Bind(&body); err != nil {
			return badRequest(c, "Invalid request body")
		}

		cmd, err := newCommand(id, body.Porter)
		if err != nil {
			return s.fail(c, err)
		}
		r, err := s.handlers.Transition.Handle(c.Request().Context(), cmd)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, toRequest(queries.NewRequestResponse(r)))
	}
}

// CancelRequest handles POST /api/v1/requests/{id}/cancel and returns the removed request.
func (s *Server) CancelRequest(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body CancelAction
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCancelRequestCommand(id, body.Actor)
	if err != nil {
		return s.fail(c, err)
	}
	removed, err := s.handlers.CancelRequest.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRequest(queries.NewRequestResponse(removed)))
}

// CancelPickup handles POST /api/v1/requests/{id}/cancel-pickup.
func (s *Server) CancelPickup(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewCancelPickupCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	r, err := s.handlers.CancelPickup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toRequest(queries.NewRequestResponse(r)))
}

// UndoRequest handles POST /api/v1/requests/{id}/undo.
func (s *Server) UndoRequest(c echo.Context) error {
	id, err := requestID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewUndoRequestCommand(id)
	if err != nil {
		return s.fail(c, err)
	}
	r, changed, err := s.handlers.UndoRequest.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, UndoResult{Request: toRequest(queries.NewRequestResponse(r)), Changed: changed})
}

// ListPorters handles GET /api/v1/porters.
func (s *Server) ListPorters(c echo.Context) error {
	list, err := s.handlers.ListPorters.Handle(c.Request().Context(), queries.NewListPortersQuery())
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]Porter, len(list))
	for i, p := range list {
		out[i] = Porter{Porter: p.Identity, Status: p.Availability.String()}
	}
	return c.JSON(http.StatusOK, out)
}

// SignIn handles POST /api/v1/porters/sign-in.
func (s *Server) SignIn(c echo.Context) error {
	var body PorterAction
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewSignInPorterCommand(body.Porter)
	if err != nil {
		return s.fail(c, err)
	}
	added, err := s.handlers.SignIn.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, RegistryResult{Porter: cmd.Porter().String(), Changed: added})
}

// SignOut handles POST /api/v1/porters/sign-out.
func (s *Server) SignOut(c echo.Context) error {
	var body PorterAction
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewSignOutPorterCommand(body.Porter)
	if err != nil {
		return s.fail(c, err)
	}
	removed, err := s.handlers.SignOut.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, RegistryResult{Porter: cmd.Porter().String(), Changed: removed})
}

// GetStats handles GET /api/v1/stats.
func (s *Server) GetStats(c echo.Context) error {
	stats, err := s.handlers.GetStats.Handle(c.Request().Context(), queries.NewGetStatsQuery())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, Stats{
		CompletedTransports:  stats.CompletedTransports,
		AverageTransportTime: stats.AverageTransitMinutes,
		LogCount:             stats.LogCount,
	})
}

// ListLogs handles GET /api/v1/logs.
func (s *Server) ListLogs(c echo.Context) error {
	entries, err := s.handlers.ListJournal.Handle(c.Request().Context(), queries.NewListJournalQuery())
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]LogEntry, len(entries))
	for i, e := range entries {
		out[i] = toLogEntry(e)
	}
	return c.JSON(http.StatusOK, out)
}
