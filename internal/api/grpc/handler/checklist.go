package handler

import (
	"context"

	"github.com/dtroode/m2m-server/internal/checklist"
	"github.com/dtroode/m2m-server/internal/logger"
	"github.com/dtroode/m2m-server/internal/model"
)

// ChecklistGate decides when the shift checklist is shown and tracks its items.
type ChecklistGate interface {
	Evaluate(ctx context.Context) (checklist.Snapshot, error)
	Check(itemID string, checked bool) (checklist.Snapshot, error)
	Confirm(ctx context.Context) (checklist.Snapshot, error)
	RemindLater() (checklist.Snapshot, error)
	ShowManual(kind model.ChecklistType) (checklist.Snapshot, error)
	Snapshot() checklist.Snapshot
}

// PositionReporter receives the device position sent by the client.
type PositionReporter interface {
	Report(p checklist.Position)
	Forget()
}

var _ ChecklistServer = (*ChecklistHandler)(nil)

type ChecklistHandler struct {
	gate      ChecklistGate
	positions PositionReporter
	logger    *logger.Logger
}

func NewChecklist(gate ChecklistGate, positions PositionReporter, logger *logger.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		gate:      gate,
		positions: positions,
		logger:    logger,
	}
}

func (h *ChecklistHandler) Evaluate(ctx context.Context, req *EvaluateRequest) (*Snapshot, error) {
	switch {
	case req.LocationDenied:
		h.positions.Forget()
	case req.Position != nil:
		h.positions.Report(checklist.Position{Lat: req.Position.Lat, Lon: req.Position.Lon})
	}

	snap, err := h.gate.Evaluate(ctx)
	if err != nil {
		h.logger.Error("Checklist handler: failed to evaluate", "error", err.Error())
		return nil, handleError(err)
	}
	return toSnapshot(snap), nil
}

func (h *ChecklistHandler) Check(_ context.Context, req *CheckRequest) (*Snapshot, error) {
	snap, err := h.gate.Check(req.ItemID, req.Checked)
	if err != nil {
		return nil, handleError(err)
	}
	return toSnapshot(snap), nil
}

func (h *ChecklistHandler) Confirm(ctx context.Context, _ *Empty) (*Snapshot, error) {
	snap, err := h.gate.Confirm(ctx)
	if err != nil {
		h.logger.Info("Checklist handler: confirm rejected", "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Checklist handler: checklist confirmed", "type", string(snap.Type), "manual", snap.Manual)
	return toSnapshot(snap), nil
}

func (h *ChecklistHandler) RemindLater(_ context.Context, _ *Empty) (*Snapshot, error) {
	snap, err := h.gate.RemindLater()
	if err != nil {
		return nil, handleError(err)
	}
	return toSnapshot(snap), nil
}

func (h *ChecklistHandler) ShowManual(_ context.Context, req *ShowManualRequest) (*Snapshot, error) {
	snap, err := h.gate.ShowManual(model.ChecklistType(req.Type))
	if err != nil {
		return nil, handleError(err)
	}
	return toSnapshot(snap), nil
}

func (h *ChecklistHandler) Snapshot(_ context.Context, _ *Empty) (*Snapshot, error) {
	return toSnapshot(h.gate.Snapshot()), nil
}
