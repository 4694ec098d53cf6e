// Package http exposes the delivery coordination API over echo. Handlers
// translate requests into commands and queries; domain failures map onto
// HTTP status codes in one place.
package http

import (
	"errors"
	"net/http"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/area"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	validate *validator.Validate

	createOrder         *commands.CreateOrderCommandHandler
	applyStatus         *commands.ApplyStatusCommandHandler
	rollbackStatus      *commands.RollbackStatusCommandHandler
	restoreOrder        *commands.RestoreOrderCommandHandler
	setDeliveryStatus   *commands.SetDeliveryStatusCommandHandler
	assignCourier       *commands.AssignCourierCommandHandler
	createDocument      *commands.CreatePostControlDocumentCommandHandler
	resolvePostControl  *commands.ResolvePostControlCommandHandler
	distributeOrders    *commands.DistributeOrdersCommandHandler
	redistributeCourier *commands.RedistributeCourierCommandHandler
	archiveArea         *commands.ArchiveAreaCommandHandler

	getOrder             queries.GetOrderQueryHandler
	getUncompletedOrders queries.GetUncompletedOrdersQueryHandler
	getCouriers          queries.GetCouriersQueryHandler
	getDocuments         queries.GetPostControlDocumentsQueryHandler
}

// Handlers bundles the use case handlers the server dispatches to.
type Handlers struct {
	CreateOrder         *commands.CreateOrderCommandHandler
	ApplyStatus         *commands.ApplyStatusCommandHandler
	RollbackStatus      *commands.RollbackStatusCommandHandler
	RestoreOrder        *commands.RestoreOrderCommandHandler
	SetDeliveryStatus   *commands.SetDeliveryStatusCommandHandler
	AssignCourier       *commands.AssignCourierCommandHandler
	CreateDocument      *commands.CreatePostControlDocumentCommandHandler
	ResolvePostControl  *commands.ResolvePostControlCommandHandler
	DistributeOrders    *commands.DistributeOrdersCommandHandler
	RedistributeCourier *commands.RedistributeCourierCommandHandler
	ArchiveArea         *commands.ArchiveAreaCommandHandler

	GetOrder             queries.GetOrderQueryHandler
	GetUncompletedOrders queries.GetUncompletedOrdersQueryHandler
	GetCouriers          queries.GetCouriersQueryHandler
	GetDocuments         queries.GetPostControlDocumentsQueryHandler
}

// NewServer creates the HTTP server over the given use case handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{
		validate:             validator.New(),
		createOrder:          handlers.CreateOrder,
		applyStatus:          handlers.ApplyStatus,
		rollbackStatus:       handlers.RollbackStatus,
		restoreOrder:         handlers.RestoreOrder,
		setDeliveryStatus:    handlers.SetDeliveryStatus,
		assignCourier:        handlers.AssignCourier,
		createDocument:       handlers.CreateDocument,
		resolvePostControl:   handlers.ResolvePostControl,
		distributeOrders:     handlers.DistributeOrders,
		redistributeCourier:  handlers.RedistributeCourier,
		archiveArea:          handlers.ArchiveArea,
		getOrder:             handlers.GetOrder,
		getUncompletedOrders: handlers.GetUncompletedOrders,
		getCouriers:          handlers.GetCouriers,
		getDocuments:         handlers.GetDocuments,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetUncompletedOrders)
	api.GET("/orders/:orderID", s.GetOrder)
	api.POST("/orders/:orderID/status", s.ApplyStatus)
	api.POST("/orders/:orderID/status/rollback", s.RollbackStatus)
	api.POST("/orders/:orderID/restore", s.RestoreOrder)
	api.POST("/orders/:orderID/delivery-status", s.SetDeliveryStatus)
	api.DELETE("/orders/:orderID/delivery-status", s.ResumeDelivery)
	api.POST("/orders/:orderID/courier", s.AssignCourier)
	api.GET("/orders/:orderID/postcontrol", s.GetPostControlDocuments)
	api.POST("/orders/:orderID/postcontrol", s.CreatePostControlDocument)
	api.POST("/orders/:orderID/postcontrol/resolve", s.ResolvePostControl)
	api.POST("/areas/:areaID/archive", s.ArchiveArea)
	api.GET("/couriers", s.GetCouriers)
	api.POST("/couriers/:courierID/redistribute", s.RedistributeCourier)
	api.POST("/distribution", s.DistributeOrders)
	api.POST("/distribution/orders", s.DistributeSelectedOrders)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code       int                 `json:"code"`
	Message    string              `json:"message"`
	Violations []violationResponse `json:"violations,omitempty"`
}

type violationResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeError maps domain failures onto HTTP status codes.
func writeError(c echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError
	var invalidTransition *commands.InvalidTransitionError

	switch {
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, errorResponse{
			Code: http.StatusNotFound, Message: err.Error()})
	case errors.As(err, &invalidTransition):
		violations := make([]violationResponse, 0, len(invalidTransition.Violations))
		for _, v := range invalidTransition.Violations {
			violations = append(violations, violationResponse{Field: v.Field, Message: v.Message})
		}
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Code:       http.StatusUnprocessableEntity,
			Message:    commands.ErrTransitionIsNotAllowed.Error(),
			Violations: violations,
		})
	case errors.Is(err, commands.ErrTransitionIsNotAllowed),
		errors.Is(err, order.ErrStatusAlreadyCurrent),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOrderAlreadyDelivered),
		errors.Is(err, order.ErrOrderIsFinished),
		errors.Is(err, postcontrol.ErrCommentIsRequired),
		errors.Is(err, postcontrol.ErrDocumentLimitExceeded),
		errors.Is(err, area.ErrAreaIsArchived),
		errors.Is(err, area.ErrAreaHasOpenOrders):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Code: http.StatusUnprocessableEntity, Message: err.Error()})
	case errors.Is(err, ports.ErrConcurrentModification):
		return c.JSON(http.StatusConflict, errorResponse{
			Code: http.StatusConflict, Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Code: http.StatusInternalServerError, Message: err.Error()})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{
		Code: http.StatusBadRequest, Message: message})
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param(name))
}

// createOrderRequest is the POST /orders payload.
type createOrderRequest struct {
	OrderID     string  `json:"order_id" validate:"required,uuid4"`
	PartnerID   string  `json:"partner_id" validate:"required,uuid4"`
	ProductType string  `json:"product_type" validate:"required"`
	OrderType   string  `json:"order_type" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	City        string  `json:"city" validate:"required"`
	Timezone    string  `json:"timezone" validate:"required"`
	OTPExempt   bool    `json:"otp_exempt"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	partnerID, err := kernel.UUIDFromString(req.PartnerID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID, partnerID,
		order.ProductType(req.ProductType), order.Type(req.OrderType),
		req.Latitude, req.Longitude,
		req.City, req.Timezone,
		req.OTPExempt,
	)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.createOrder.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusCreated)
}

// actorRequest carries the acting user for audited operations.
type actorRequest struct {
	ActorID   string `json:"actor_id" validate:"required,uuid4"`
	ActorRole string `json:"actor_role" validate:"required"`
}

// applyStatusRequest is the POST /orders/:orderID/status payload.
type applyStatusRequest struct {
	actorRequest
	Status string `json:"status" validate:"required"`
}

// ApplyStatus handles POST /api/v1/orders/:orderID/status.
func (s *Server) ApplyStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req applyStatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewApplyStatusCommand(orderID, status.Slug(req.Status), actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.applyStatus.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// rollbackStatusRequest is the POST /orders/:orderID/status/rollback payload.
type rollbackStatusRequest struct {
	actorRequest
	Status    string `json:"status" validate:"required"`
	Inclusive bool   `json:"inclusive"`
}

// RollbackStatus handles POST /api/v1/orders/:orderID/status/rollback.
func (s *Server) RollbackStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req rollbackStatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewRollbackStatusCommand(
		orderID, status.Slug(req.Status), req.Inclusive, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.rollbackStatus.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RestoreOrder handles POST /api/v1/orders/:orderID/restore.
func (s *Server) RestoreOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req actorRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewRestoreOrderCommand(orderID, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.restoreOrder.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// setDeliveryStatusRequest is the POST /orders/:orderID/delivery-status payload.
type setDeliveryStatusRequest struct {
	actorRequest
	Value   string `json:"value" validate:"required"`
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

// SetDeliveryStatus handles POST /api/v1/orders/:orderID/delivery-status.
func (s *Server) SetDeliveryStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req setDeliveryStatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewSetDeliveryStatusCommand(
		orderID, order.DeliveryStatusValue(req.Value), req.Reason, req.Comment, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.setDeliveryStatus.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ResumeDelivery handles DELETE /api/v1/orders/:orderID/delivery-status.
// Clearing the exception track resumes the regular flow.
func (s *Server) ResumeDelivery(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req actorRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewResumeDeliveryCommand(orderID, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.setDeliveryStatus.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ArchiveArea handles POST /api/v1/areas/:areaID/archive.
func (s *Server) ArchiveArea(c echo.Context) error {
	areaID, err := pathUUID(c, "areaID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req actorRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewArchiveAreaCommand(areaID, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.archiveArea.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// assignCourierRequest is the POST /orders/:orderID/courier payload.
type assignCourierRequest struct {
	actorRequest
	CourierID string `json:"courier_id" validate:"required,uuid4"`
}

// AssignCourier handles POST /api/v1/orders/:orderID/courier.
func (s *Server) AssignCourier(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req assignCourierRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.assignCourier.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// createDocumentRequest is the POST /orders/:orderID/postcontrol payload.
type createDocumentRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid4"`
	ConfigID   string `json:"config_id" validate:"required,uuid4"`
	ImageKey   string `json:"image_key" validate:"required"`
}

// CreatePostControlDocument handles POST /api/v1/orders/:orderID/postcontrol.
func (s *Server) CreatePostControlDocument(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req createDocumentRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	documentID, err := kernel.UUIDFromString(req.DocumentID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	configID, err := kernel.UUIDFromString(req.ConfigID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewCreatePostControlDocumentCommand(documentID, orderID, configID, req.ImageKey)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.createDocument.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusCreated)
}

// resolvePostControlRequest is the POST /orders/:orderID/postcontrol/resolve
// payload. Either the per-document resolutions or a bulk action is given.
type resolvePostControlRequest struct {
	actorRequest
	Resolutions []documentResolutionRequest `json:"resolutions" validate:"dive"`
	AcceptAll   bool                        `json:"accept_all"`
	DeclineAll  bool                        `json:"decline_all"`
	Comment     string                      `json:"comment"`
}

type documentResolutionRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid4"`
	Resolution string `json:"resolution" validate:"required"`
	Comment    string `json:"comment"`
}

// ResolvePostControl handles POST /api/v1/orders/:orderID/postcontrol/resolve.
func (s *Server) ResolvePostControl(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req resolvePostControlRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err = s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var cmd commands.ResolvePostControlCommand
	switch {
	case req.AcceptAll:
		cmd, err = commands.NewAcceptAllPostControlCommand(orderID, actorID, req.ActorRole)
	case req.DeclineAll:
		cmd, err = commands.NewDeclineAllPostControlCommand(orderID, actorID, req.ActorRole, req.Comment)
	default:
		resolutions := make([]commands.DocumentResolution, 0, len(req.Resolutions))
		for _, r := range req.Resolutions {
			documentID, idErr := kernel.UUIDFromString(r.DocumentID)
			if idErr != nil {
				return badRequest(c, idErr.Error())
			}
			resolutions = append(resolutions, commands.DocumentResolution{
				DocumentID: documentID,
				Resolution: postcontrol.Resolution(r.Resolution),
				Comment:    r.Comment,
			})
		}
		cmd, err = commands.NewResolvePostControlCommand(orderID, resolutions, actorID, req.ActorRole)
	}
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.resolvePostControl.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// distributeOrdersRequest is the POST /distribution payload.
type distributeOrdersRequest struct {
	actorRequest
	AreaIDs []string `json:"area_ids" validate:"required,min=1,dive,uuid4"`
}

// distributionResponse reports the outcome of a distribution sweep.
type distributionResponse struct {
	Assigned        map[string]string `json:"assigned"`
	SkippedAreas    map[string]string `json:"skipped_areas"`
	ContestedOrders []string          `json:"contested_orders"`
}

// DistributeOrders handles POST /api/v1/distribution.
func (s *Server) DistributeOrders(c echo.Context) error {
	var req distributeOrdersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	areaIDs := make([]kernel.UUID, 0, len(req.AreaIDs))
	for _, raw := range req.AreaIDs {
		areaID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		areaIDs = append(areaIDs, areaID)
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewDistributeOrdersCommand(areaIDs, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.distributeOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	resp := distributionResponse{
		Assigned:        make(map[string]string, len(result.Assigned)),
		SkippedAreas:    make(map[string]string, len(result.SkippedAreas)),
		ContestedOrders: make([]string, 0, len(result.ContestedOrders)),
	}
	for orderID, courierID := range result.Assigned {
		resp.Assigned[orderID.String()] = courierID.String()
	}
	for areaID, reason := range result.SkippedAreas {
		resp.SkippedAreas[areaID.String()] = reason
	}
	for _, orderID := range result.ContestedOrders {
		resp.ContestedOrders = append(resp.ContestedOrders, orderID.String())
	}

	return c.JSON(http.StatusOK, resp)
}

// distributeSelectedOrdersRequest is the POST /distribution/orders payload.
type distributeSelectedOrdersRequest struct {
	actorRequest
	OrderIDs []string `json:"order_ids" validate:"required,min=1,dive,uuid4"`
}

// DistributeSelectedOrders handles POST /api/v1/distribution/orders. The
// response lists the order IDs the pass could not assign.
func (s *Server) DistributeSelectedOrders(c echo.Context) error {
	var req distributeSelectedOrdersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	orderIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		orderID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		orderIDs = append(orderIDs, orderID)
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewDistributeSelectedOrdersCommand(orderIDs, actorID, req.ActorRole)
	if err != nil {
		return badRequest(c, err.Error())
	}

	leftover, err := s.distributeOrders.HandleSelected(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	unassigned := make([]string, 0, len(leftover))
	for _, orderID := range leftover {
		unassigned = append(unassigned, orderID.String())
	}

	return c.JSON(http.StatusOK, map[string][]string{"unassigned": unassigned})
}

// RedistributeCourier handles POST /api/v1/couriers/:courierID/redistribute.
func (s *Server) RedistributeCourier(c echo.Context) error {
	courierID, err := pathUUID(c, "courierID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewRedistributeCourierCommand(courierID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.redistributeCourier.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// orderResponse is the GET /orders/:orderID body.
type orderResponse struct {
	ID                    string                 `json:"id"`
	PartnerID             string                 `json:"partner_id"`
	CourierID             *string                `json:"courier_id,omitempty"`
	AreaID                *string                `json:"area_id,omitempty"`
	ProductType           string                 `json:"product_type"`
	OrderType             string                 `json:"order_type"`
	Latitude              float64                `json:"latitude"`
	Longitude             float64                `json:"longitude"`
	City                  string                 `json:"city"`
	CurrentStatus         string                 `json:"current_status"`
	History               []orderHistoryResponse `json:"history"`
	DeliveryStatus        *string                `json:"delivery_status,omitempty"`
	DeliveryStatusReason  string                 `json:"delivery_status_reason,omitempty"`
	DeliveryStatusComment string                 `json:"delivery_status_comment,omitempty"`
	ActualDeliveryTime    *string                `json:"actual_delivery_time,omitempty"`
	Archived              bool                   `json:"archived"`
}

type orderHistoryResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// GetOrder handles GET /api/v1/orders/:orderID.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.getOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	resp := orderResponse{
		ID:                    result.ID.String(),
		PartnerID:             result.PartnerID.String(),
		CourierID:             uuidString(result.CourierID),
		AreaID:                uuidString(result.AreaID),
		ProductType:           result.ProductType,
		OrderType:             result.OrderType,
		Latitude:              result.DeliveryPoint.Latitude(),
		Longitude:             result.DeliveryPoint.Longitude(),
		City:                  result.City,
		CurrentStatus:         result.CurrentSlug,
		History:               make([]orderHistoryResponse, 0, len(result.History)),
		DeliveryStatus:        result.DeliveryStatus,
		DeliveryStatusReason:  result.DeliveryStatusReason,
		DeliveryStatusComment: result.DeliveryStatusComment,
		Archived:              result.Archived,
	}
	for _, entry := range result.History {
		resp.History = append(resp.History, orderHistoryResponse{
			Status:    entry.Slug,
			Timestamp: entry.Timestamp.Format(timeFormat),
		})
	}
	if result.ActualDeliveryTime != nil {
		formatted := result.ActualDeliveryTime.Format(timeFormat)
		resp.ActualDeliveryTime = &formatted
	}

	return c.JSON(http.StatusOK, resp)
}

// uncompletedOrderResponse is one GET /orders list element.
type uncompletedOrderResponse struct {
	ID             string  `json:"id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	City           string  `json:"city"`
	CurrentStatus  string  `json:"current_status"`
	CourierID      *string `json:"courier_id,omitempty"`
	DeliveryStatus *string `json:"delivery_status,omitempty"`
}

// GetUncompletedOrders handles GET /api/v1/orders.
func (s *Server) GetUncompletedOrders(c echo.Context) error {
	result, err := s.getUncompletedOrders.Handle(
		c.Request().Context(), queries.NewGetUncompletedOrdersQuery())
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]uncompletedOrderResponse, 0, len(result))
	for _, o := range result {
		resp = append(resp, uncompletedOrderResponse{
			ID:             o.ID.String(),
			Latitude:       o.DeliveryPoint.Latitude(),
			Longitude:      o.DeliveryPoint.Longitude(),
			City:           o.City,
			CurrentStatus:  o.CurrentSlug,
			CourierID:      uuidString(o.CourierID),
			DeliveryStatus: o.DeliveryStatus,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// courierResponse is one GET /couriers list element.
type courierResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	City             string `json:"city"`
	Active           bool   `json:"active"`
	RouteTimeSeconds *int64 `json:"route_time_seconds,omitempty"`
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(c echo.Context) error {
	result, err := s.getCouriers.Handle(c.Request().Context(), queries.NewGetCouriersQuery())
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]courierResponse, 0, len(result))
	for _, courier := range result {
		item := courierResponse{
			ID:     courier.ID.String(),
			Name:   courier.Name,
			Phone:  courier.Phone,
			City:   courier.City,
			Active: courier.Active,
		}
		if courier.RouteTime != nil {
			seconds := int64(courier.RouteTime.Seconds())
			item.RouteTimeSeconds = &seconds
		}
		resp = append(resp, item)
	}

	return c.JSON(http.StatusOK, resp)
}

// documentResponse is one GET /orders/:orderID/postcontrol list element.
type documentResponse struct {
	ID         string  `json:"id"`
	ConfigID   string  `json:"config_id"`
	ConfigName string  `json:"config_name"`
	ImageKey   string  `json:"image_key"`
	Resolution string  `json:"resolution"`
	Comment    string  `json:"comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
}

// GetPostControlDocuments handles GET /api/v1/orders/:orderID/postcontrol.
func (s *Server) GetPostControlDocuments(c echo.Context) error {
	orderID, err := pathUUID(c, "orderID")
	if err != nil {
		return badRequest(c, err.Error())
	}

	query, err := queries.NewGetPostControlDocumentsQuery(orderID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.getDocuments.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]documentResponse, 0, len(result))
	for _, document := range result {
		item := documentResponse{
			ID:         document.ID.String(),
			ConfigID:   document.ConfigID.String(),
			ConfigName: document.ConfigName,
			ImageKey:   document.ImageKey,
			Resolution: document.Resolution,
			Comment:    document.Comment,
			CreatedAt:  document.CreatedAt.Format(timeFormat),
		}
		if document.ResolvedAt != nil {
			formatted := document.ResolvedAt.Format(timeFormat)
			item.ResolvedAt = &formatted
		}
		resp = append(resp, item)
	}

	return c.JSON(http.StatusOK, resp)
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
