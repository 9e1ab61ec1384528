package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	"github.com/moneyport/acquiring-go/internal/infrastructure/metrics"
)

// NotificationHandler receives payment event callbacks from the bank,
// verifies their token signature and acknowledges them.
type NotificationHandler struct {
	signer  client.TokenSigner
	metrics *metrics.Recorder
	logger  *zap.Logger
}

func NewNotificationHandler(signer client.TokenSigner, rec *metrics.Recorder, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		signer:  signer,
		metrics: rec,
		logger:  logger,
	}
}

// HandleNotification acknowledges a verified callback with the literal "OK"
// body the acquiring API expects. Invalid signatures are rejected so forged
// callbacks never look acknowledged.
func (h *NotificationHandler) HandleNotification(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.metrics.Notification("read_error")
		return c.NoContent(http.StatusBadRequest)
	}

	notification, err := client.ParseNotification(raw, h.signer)
	if err != nil {
		h.logger.Warn("rejected notification", zap.Error(err))
		h.metrics.Notification("rejected")
		return c.NoContent(http.StatusForbidden)
	}

	h.logger.Info("payment notification received",
		zap.Int64("payment_id", notification.PaymentID),
		zap.String("order_id", notification.OrderID),
		zap.String("status", notification.Status.String()))
	h.metrics.Notification("accepted")

	return c.String(http.StatusOK, "OK")
}
