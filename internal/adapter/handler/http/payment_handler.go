package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	pstate "github.com/moneyport/acquiring-go/internal/domain/process"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	"github.com/moneyport/acquiring-go/internal/infrastructure/metrics"
	"github.com/moneyport/acquiring-go/internal/usecase/process"
	threedsflow "github.com/moneyport/acquiring-go/internal/usecase/threeds"
)

// PaymentHandler starts payment processes and exposes payment state to the
// merchant backend.
type PaymentHandler struct {
	api          process.AcquiringAPI
	stateAPI     *client.Client
	encryptor    acquiring.CardEncryptor
	orchestrator *threedsflow.Orchestrator
	poller       *process.Poller
	metrics      *metrics.Recorder
	logger       *zap.Logger
}

func NewPaymentHandler(api *client.Client, encryptor acquiring.CardEncryptor, orchestrator *threedsflow.Orchestrator, poller *process.Poller, rec *metrics.Recorder, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		api:          api,
		stateAPI:     api,
		encryptor:    encryptor,
		orchestrator: orchestrator,
		poller:       poller,
		metrics:      rec,
		logger:       logger,
	}
}

func (h *PaymentHandler) processOptions() []process.ProcessOption {
	opts := []process.ProcessOption{process.WithProcessMetrics(h.metrics)}
	if h.poller != nil {
		opts = append(opts, process.WithProcessPoller(h.poller))
	}
	return opts
}

type startPaymentRequest struct {
	Method      string `json:"method" validate:"required,oneof=sbp bank_app mir_pay card recurrent"`
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
	CustomerKey string `json:"customer_key,omitempty"`
	RebillID    string `json:"rebill_id,omitempty"`
	CardID      string `json:"card_id,omitempty"`
	CVC         string `json:"cvc,omitempty"`
}

type paymentStateResponse struct {
	State     string `json:"state"`
	PaymentID int64  `json:"payment_id,omitempty"`
	Deeplink  string `json:"deeplink,omitempty"`
	Status    string `json:"status,omitempty"`
	CardID    string `json:"card_id,omitempty"`
	RebillID  string `json:"rebill_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StartPayment launches a process for the requested method and returns the
// state it settled in. Redirect methods return a deeplink; the recurrent
// method runs to a terminal state.
func (h *PaymentHandler) StartPayment(c echo.Context) error {
	var req startPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	opts := &acquiring.PaymentOptions{
		TerminalKey: h.stateAPI.TerminalKey(),
		Order: acquiring.OrderOptions{
			OrderID:     req.OrderID,
			Amount:      acquiring.NewMoney(req.Amount),
			Description: req.Description,
		},
		Customer: acquiring.CustomerOptions{CustomerKey: req.CustomerKey},
	}

	ctx := c.Request().Context()
	var state pstate.State

	procOpts := h.processOptions()

	switch req.Method {
	case "sbp":
		proc := process.NewSBPProcess(h.api, h.logger, procOpts...)
		if err := proc.Start(ctx, opts); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		state = proc.State()
	case "bank_app":
		proc := process.NewBankAppProcess(h.api, "2.0", h.logger, procOpts...)
		if err := proc.Start(ctx, opts); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		state = proc.State()
	case "mir_pay":
		proc := process.NewMirPayProcess(h.api, h.logger, procOpts...)
		if err := proc.Start(ctx, opts); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		state = proc.State()
	case "card":
		proc := process.NewCardProcess(h.api, h.encryptor, h.orchestrator, h.logger, procOpts...)
		source := acquiring.AttachedCard{CardID: req.CardID, CVC: req.CVC}
		if err := proc.Start(ctx, opts, source); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		state = proc.State()
	case "recurrent":
		proc := process.NewRecurrentProcess(h.api, h.encryptor, h.logger, procOpts...)
		if err := proc.Start(ctx, opts, acquiring.RebillSource{RebillID: req.RebillID}); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		state = proc.State()
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported payment method"})
	}

	return c.JSON(http.StatusOK, stateResponse(state))
}

// GetPaymentState proxies GetState for a known payment id.
func (h *PaymentHandler) GetPaymentState(c echo.Context) error {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payment id"})
	}

	resp, err := h.stateAPI.GetState(c.Request().Context(), &client.GetStateRequest{PaymentID: paymentID})
	if err != nil {
		h.logger.Error("failed to fetch payment state",
			zap.Int64("payment_id", paymentID),
			zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to fetch payment state"})
	}

	return c.JSON(http.StatusOK, paymentStateResponse{
		State:     "remote",
		PaymentID: resp.PaymentID,
		Status:    resp.Status.String(),
	})
}

func stateResponse(s pstate.State) paymentStateResponse {
	switch st := s.(type) {
	case pstate.Created:
		return paymentStateResponse{State: "created"}
	case pstate.Started:
		return paymentStateResponse{State: "started", PaymentID: st.PaymentID}
	case pstate.AwaitingAppChoice:
		return paymentStateResponse{State: "awaiting_app_choice", PaymentID: st.PaymentID, Deeplink: st.Deeplink}
	case pstate.LeftForBankApp:
		return paymentStateResponse{State: "left_for_bank_app", PaymentID: st.PaymentID}
	case pstate.AwaitingChallenge:
		return paymentStateResponse{State: "awaiting_challenge", PaymentID: st.PaymentID}
	case pstate.CheckingStatus:
		return paymentStateResponse{State: "checking_status", PaymentID: st.PaymentID, Status: st.Status.String()}
	case pstate.Succeeded:
		return paymentStateResponse{State: "succeeded", PaymentID: st.PaymentID, CardID: st.CardID, RebillID: st.RebillID}
	case pstate.Failed:
		resp := paymentStateResponse{State: "failed", Error: st.Err.Error()}
		if st.PaymentID != nil {
			resp.PaymentID = *st.PaymentID
		}
		return resp
	case pstate.CvcRequired:
		return paymentStateResponse{State: "cvc_required", PaymentID: st.RejectedPaymentID}
	case pstate.Stopped:
		return paymentStateResponse{State: "stopped"}
	default:
		return paymentStateResponse{State: "unknown"}
	}
}
