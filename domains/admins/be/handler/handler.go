package handler

import (
	"context"
	"errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
	"github.com/zenGate-Global/palmyra-admins/platform/go/callable"
	platformlogging "github.com/zenGate-Global/palmyra-admins/platform/go/logging"
	"github.com/zenGate-Global/palmyra-admins/platform/go/requesttrace"
)

type operation string

const createOperation operation = "createAdmin"

// CreateAdminData is the data member of a createAdmin call.
type CreateAdminData struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	DisplayName string   `json:"displayName"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// CreateAdminResult is the result member of a successful createAdmin call.
type CreateAdminResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Handler exposes the admins service as callable procedures.
type Handler struct {
	svc    service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("admins service is required")
	}
	if logger == nil {
		panic("logger is required")
	}

	return &Handler{svc: svc, logger: logger}
}

// Register mounts the procedures on r.
func (h *Handler) Register(r chi.Router) {
	r.Handle("/"+string(createOperation), callable.Handler(h.CreateAdmin))
}

// CreateAdmin provisions an admin on behalf of the caller attached to ctx, if any.
func (h *Handler) CreateAdmin(ctx context.Context, data CreateAdminData) (CreateAdminResult, error) {
	audit := requesttrace.FromContextOrAnonymous(ctx)

	result, err := h.svc.Create(ctx, audit, service.CreateInput{
		Email:       data.Email,
		Password:    data.Password,
		DisplayName: data.DisplayName,
		Role:        data.Role,
		Permissions: data.Permissions,
	})
	if err != nil {
		return CreateAdminResult{}, h.errorFor(ctx, err, createOperation, audit)
	}

	return CreateAdminResult{Success: result.Success, ID: result.ID}, nil
}

func (h *Handler) errorFor(ctx context.Context, err error, op operation, audit requesttrace.AuditInfo) error {
	logger := platformlogging.FromContextOr(ctx, h.logger).With(
		zap.String("operation", string(op)),
		zap.String("actor_kind", string(audit.ActorKind)),
	)

	var internal *service.InternalError
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		logger.Warn("create admin rejected", zap.Error(err))
		return callable.NewError(callable.CodePermissionDenied, "Admin privileges are required.")
	case errors.As(err, &internal):
		logger.Error("create admin failed", zap.String("step", string(internal.Step)), zap.Error(err))
		return callable.NewError(callable.CodeInternal, internal.Error())
	default:
		logger.Error("create admin failed", zap.Error(err))
		return err
	}
}
