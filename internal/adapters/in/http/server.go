// Package http provides the echo-based inbound adapter. It translates HTTP
// requests into commands and queries and maps domain errors onto status
// codes at this boundary only.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"potrack/internal/adapters/out/notify"
	"potrack/internal/adapters/out/postgres/userrepo"
	"potrack/internal/core/application/usecases/commands"
	"potrack/internal/core/application/usecases/queries"
	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
	"potrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createPOHandler             commands.CreatePOCommandHandler
	addMachineHandler           commands.AddMachineCommandHandler
	updateMachineStageHandler   commands.UpdateMachineStageCommandHandler
	completeMachineStageHandler commands.CompleteMachineStageCommandHandler
	advancePOStageHandler       commands.AdvancePOStageCommandHandler
	finalizePOHandler           commands.FinalizePOCommandHandler

	// Query handlers
	getPOHandler             queries.GetPOQueryHandler
	listPOsHandler           queries.ListPOsQueryHandler
	availableMachinesHandler queries.AvailableMachinesQueryHandler

	// Collaborators
	users     *userrepo.GormUserRepository
	blobs     ports.BlobStore
	renderer  ports.DocumentRenderer
	hub       *notify.Hub
	jwtSecret string
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with the required handlers and collaborators.
func NewServer(
	createPOHandler commands.CreatePOCommandHandler,
	addMachineHandler commands.AddMachineCommandHandler,
	updateMachineStageHandler commands.UpdateMachineStageCommandHandler,
	completeMachineStageHandler commands.CompleteMachineStageCommandHandler,
	advancePOStageHandler commands.AdvancePOStageCommandHandler,
	finalizePOHandler commands.FinalizePOCommandHandler,
	getPOHandler queries.GetPOQueryHandler,
	listPOsHandler queries.ListPOsQueryHandler,
	availableMachinesHandler queries.AvailableMachinesQueryHandler,
	users *userrepo.GormUserRepository,
	blobs ports.BlobStore,
	renderer ports.DocumentRenderer,
	hub *notify.Hub,
	jwtSecret string,
	logger *slog.Logger,
) *Server {
	return &Server{
		createPOHandler:             createPOHandler,
		addMachineHandler:           addMachineHandler,
		updateMachineStageHandler:   updateMachineStageHandler,
		completeMachineStageHandler: completeMachineStageHandler,
		advancePOStageHandler:       advancePOStageHandler,
		finalizePOHandler:           finalizePOHandler,
		getPOHandler:                getPOHandler,
		listPOsHandler:              listPOsHandler,
		availableMachinesHandler:    availableMachinesHandler,
		users:                       users,
		blobs:                       blobs,
		renderer:                    renderer,
		hub:                         hub,
		jwtSecret:                   jwtSecret,
		logger:                      logger,
	}
}

// RegisterRoutes attaches every endpoint to the echo instance. All PO routes
// sit behind the JWT middleware; create, advance and finalize additionally
// require the admin role.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/auth/login", s.Login)

	authed := api.Group("", JWTMiddleware(s.jwtSecret))
	adminOnly := RequireRole(userrepo.RoleAdmin)

	authed.POST("/pos", s.CreatePO, adminOnly)
	authed.GET("/pos", s.ListPOs)
	authed.GET("/pos/:id", s.GetPO)
	authed.GET("/pos/:id/machines/available", s.GetAvailableMachines)
	authed.POST("/pos/:id/machines", s.AddMachine)
	authed.PUT("/pos/:id/machines/:machineId/stage", s.UpdateMachineStage)
	authed.POST("/pos/:id/machines/:machineId/stages/:stageKey/complete", s.CompleteMachineStage)
	authed.POST("/pos/:id/advance", s.AdvancePOStage, adminOnly)
	authed.POST("/pos/:id/finalize", s.FinalizePO, adminOnly)
	authed.GET("/pos/:id/document", s.DownloadPODocument)
	authed.GET("/pos/:id/machines/:machineId/challan", s.DownloadChallan)
	authed.POST("/uploads", s.UploadImage)
	authed.GET("/uploads/:reference", s.GetUpload)
	authed.GET("/events", s.StreamEvents)
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a JWT.
func (s *Server) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	user, err := s.users.GetByUsername(ctx.Request().Context(), req.Username)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, Error{
			Code:    http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return ctx.JSON(http.StatusUnauthorized, Error{
			Code:    http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	token, err := GenerateToken(s.jwtSecret, user.ID.String(), user.Role)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to issue token",
		})
	}

	return ctx.JSON(http.StatusOK, loginResponse{
		Token:   token,
		ActorID: user.ID.String(),
		Role:    user.Role,
	})
}

// CreatePO handles POST /api/v1/pos - creates a new purchase order.
func (s *Server) CreatePO(ctx echo.Context) error {
	var req createPORequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	creator, err := kernel.UUIDFromString(actorID(ctx))
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, Error{
			Code:    http.StatusUnauthorized,
			Message: "Invalid actor identity",
		})
	}

	cmd, err := commands.NewCreatePOCommand(req.JobTitle, creator)
	if err != nil {
		return s.writeError(ctx, err)
	}

	created, err := s.createPOHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, poToResponse(created))
}

// ListPOs handles GET /api/v1/pos - lists PO summaries, newest first.
// Optional query params: search (poNumber substring), stage, mine=true.
func (s *Server) ListPOs(ctx echo.Context) error {
	var createdBy *kernel.UUID
	if ctx.QueryParam("mine") == "true" {
		creator, err := kernel.UUIDFromString(actorID(ctx))
		if err != nil {
			return ctx.JSON(http.StatusUnauthorized, Error{
				Code:    http.StatusUnauthorized,
				Message: "Invalid actor identity",
			})
		}
		createdBy = &creator
	}

	var stage *po.Stage
	if raw := ctx.QueryParam("stage"); raw != "" {
		parsed, err := po.StageFromString(raw)
		if err != nil {
			return s.writeError(ctx, err)
		}
		stage = &parsed
	}

	query, err := queries.NewListPOsQuery(createdBy, ctx.QueryParam("search"), stage)
	if err != nil {
		return s.writeError(ctx, err)
	}

	items, err := s.listPOsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]poListItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, listItemToResponse(item))
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetPO handles GET /api/v1/pos/:id - retrieves one PO with all machines.
func (s *Server) GetPO(ctx echo.Context) error {
	aggregate, err := s.loadPO(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, poToResponse(aggregate))
}

// GetAvailableMachines handles GET /api/v1/pos/:id/machines/available.
func (s *Server) GetAvailableMachines(ctx echo.Context) error {
	poID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	query, err := queries.NewAvailableMachinesQuery(poID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.availableMachinesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, availableMachinesResponse{
		AvailableNumbers: result.AvailableNumbers,
		UsedCount:        result.UsedCount,
		CanAddMore:       result.CanAddMore,
	})
}

// AddMachine handles POST /api/v1/pos/:id/machines - admits a machine seeded
// with its entry stage record.
func (s *Server) AddMachine(ctx echo.Context) error {
	poID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req addMachineRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	machineNo, err := po.NewMachineNo(req.MachineNo)
	if err != nil {
		return s.writeError(ctx, err)
	}

	key, err := po.StageKeyFromString(req.Stage)
	if err != nil {
		return s.writeError(ctx, err)
	}

	record, err := decodeStageRecord(key, req.Data)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewAddMachineCommand(poID, machineNo, record)
	if err != nil {
		return s.writeError(ctx, err)
	}

	machine, err := s.addMachineHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, machineToResponse(machine))
}

// UpdateMachineStage handles PUT /api/v1/pos/:id/machines/:machineId/stage -
// replaces one stage record wholesale.
func (s *Server) UpdateMachineStage(ctx echo.Context) error {
	poID, machineID, err := s.pathIDs(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	var req updateStageRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	key, err := po.StageKeyFromString(req.Stage)
	if err != nil {
		return s.writeError(ctx, err)
	}

	record, err := decodeStageRecord(key, req.Data)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateMachineStageCommand(poID, machineID, record)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.updateMachineStageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, updateStageResponse{
		Machine:              machineToResponse(result.Machine),
		AllMachinesCompleted: result.AllMachinesCompleted,
	})
}

// CompleteMachineStage handles POST /api/v1/pos/:id/machines/:machineId/stages/:stageKey/complete -
// marks a stage complete without replacing its record.
func (s *Server) CompleteMachineStage(ctx echo.Context) error {
	poID, machineID, err := s.pathIDs(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	key, err := po.StageKeyFromString(ctx.Param("stageKey"))
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewCompleteMachineStageCommand(poID, machineID, key)
	if err != nil {
		return s.writeError(ctx, err)
	}

	machine, err := s.completeMachineStageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, machineToResponse(machine))
}

// AdvancePOStage handles POST /api/v1/pos/:id/advance - moves the PO-level
// stage tracker one step forward.
func (s *Server) AdvancePOStage(ctx echo.Context) error {
	poID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	cmd, err := commands.NewAdvancePOStageCommand(poID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	aggregate, err := s.advancePOStageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, poToResponse(aggregate))
}

// FinalizePO handles POST /api/v1/pos/:id/finalize - irreversibly closes a PO.
func (s *Server) FinalizePO(ctx echo.Context) error {
	poID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	cmd, err := commands.NewFinalizePOCommand(poID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	aggregate, err := s.finalizePOHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, poToResponse(aggregate))
}

// DownloadPODocument handles GET /api/v1/pos/:id/document - streams the PO
// summary document.
func (s *Server) DownloadPODocument(ctx echo.Context) error {
	aggregate, err := s.loadPO(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	document, err := s.renderer.RenderPO(aggregate)
	if err != nil {
		return s.writeError(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", aggregate.PONumber()+".txt"))
	return ctx.Blob(http.StatusOK, "text/plain; charset=utf-8", document)
}

// DownloadChallan handles GET /api/v1/pos/:id/machines/:machineId/challan -
// streams the delivery challan for one machine.
func (s *Server) DownloadChallan(ctx echo.Context) error {
	aggregate, err := s.loadPO(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}

	machineID, err := kernel.UUIDFromString(ctx.Param("machineId"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("machineId", err))
	}

	machine, err := aggregate.MachineByID(machineID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	document, err := s.renderer.RenderChallan(aggregate, machine)
	if err != nil {
		return s.writeError(ctx, err)
	}

	filename := fmt.Sprintf("challan-%d.txt", machine.ChallanNo())
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, "text/plain; charset=utf-8", document)
}

// UploadImage handles POST /api/v1/uploads - stores a stage image and returns
// its reference.
func (s *Server) UploadImage(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Missing image file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Unreadable image file",
		})
	}
	defer file.Close()

	reference, err := s.blobs.Store(ctx.Request().Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, uploadResponse{Reference: reference})
}

// GetUpload handles GET /api/v1/uploads/:reference - streams a stored image.
func (s *Server) GetUpload(ctx echo.Context) error {
	content, err := s.blobs.Open(ctx.Request().Context(), ctx.Param("reference"))
	if err != nil {
		return s.writeError(ctx, err)
	}
	defer content.Close()

	return ctx.Stream(http.StatusOK, "application/octet-stream", content)
}

// StreamEvents handles GET /api/v1/events - pushes PO change notifications to
// the client as server-sent events until the connection closes.
func (s *Server) StreamEvents(ctx echo.Context) error {
	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				s.logger.Warn("failed to marshal event payload", slog.String("event", event.Name))
				continue
			}
			if _, err = fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event.Name, payload); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}

func (s *Server) loadPO(ctx echo.Context) (*po.PO, error) {
	poID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	query, err := queries.NewGetPOQuery(poID)
	if err != nil {
		return nil, err
	}

	return s.getPOHandler.Handle(ctx.Request().Context(), query)
}

func (s *Server) pathIDs(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	poID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	machineID, err := kernel.UUIDFromString(ctx.Param("machineId"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("machineId", err)
	}

	return poID, machineID, nil
}

// writeError maps domain and application errors onto HTTP status codes.
// Validation failures become 400, missing objects 404, business-rule
// conflicts 409, everything else 500.
func (s *Server) writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	var notFound *errs.ObjectNotFoundError
	switch {
	case errors.As(err, &notFound), errors.Is(err, po.ErrMachineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, po.ErrPOIsFinalized),
		errors.Is(err, po.ErrMachineLimitReached),
		errors.Is(err, po.ErrDuplicateMachineNo),
		errors.Is(err, po.ErrPOAlreadyCompleted),
		errors.Is(err, po.ErrChallanAlreadyAssigned):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrJobTitleIsRequired),
		errors.Is(err, commands.ErrStageRecordIsRequired),
		errors.Is(err, commands.ErrInvalidEntryStage),
		errors.Is(err, po.ErrStageRecordIsRequired),
		errors.Is(err, po.ErrPackagingDispatchNotRecorded):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", ctx.Path()), slog.Any("error", err))
		return ctx.JSON(status, Error{Code: status, Message: "Internal server error"})
	}

	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}
