package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"forge-relay/internal/dispatcher"
	"forge-relay/internal/model"
	"forge-relay/internal/subscription"
	pkgLog "forge-relay/pkg/log"
	pkgResponse "forge-relay/pkg/response"
)

// HandleProbe answers GET /webhook.
// @Summary Webhook probe
// @Description Reports that the webhook endpoint is listening, when enabled
// @Tags Webhook
// @Produce plain
// @Success 200 {string} string "Listening for webhook connections!"
// @Failure 405 {object} response.Resp
// @Router /webhook [get]
func (h *Handler) HandleProbe(c *gin.Context) {
	if !h.cfg.ProbeEnabled {
		c.Header("Allow", http.MethodPost)
		pkgResponse.ErrorWithStatus(c, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	c.String(http.StatusOK, probeMessage)
}

// HandleWebhook receives a forge event, resolves its subscribers and hands
// formatting and delivery to the dispatcher before acknowledging.
// @Summary Receive a repository event
// @Description Verifies, parses and acknowledges a webhook delivery with the channels it will be relayed to
// @Tags Webhook
// @Accept json
// @Produce json
// @Param X-GitHub-Event header string false "Event kind, ping when absent"
// @Param X-GitHub-Delivery header string false "Delivery id"
// @Param X-Hub-Signature-256 header string false "HMAC signature"
// @Success 200 {object} ChannelsResponse
// @Failure 400 {object} response.Resp
// @Failure 401 {object} response.Resp
// @Failure 403 {object} response.Resp
// @Failure 413 {object} response.Resp
// @Failure 429 {object} response.Resp
// @Failure 500 {object} response.Resp
// @Failure 501 {object} response.Resp
// @Router /webhook [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	deliveryID := c.GetHeader(HeaderDelivery)
	redelivery := deliveryID != ""
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}
	ctx := pkgLog.WithDeliveryID(c.Request.Context(), deliveryID)
	eventHeader := c.GetHeader(HeaderEvent)

	resp, ev, err := h.handle(ctx, c, eventHeader, deliveryID, redelivery)
	if err != nil {
		status := statusFor(err)
		h.l.Warnf(ctx, "webhook.HandleWebhook: %s rejected with %d: %v", eventLabel(eventHeader), status, err)
		h.m.ObserveRequest(eventLabel(eventHeader), status)
		writeError(c, status, err)
		return
	}

	h.m.ObserveRequest(ev.Kind.String(), http.StatusOK)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handle(ctx context.Context, c *gin.Context, eventHeader, deliveryID string, redelivery bool) (ChannelsResponse, model.Event, error) {
	ip := c.ClientIP()
	if err := h.guard.ValidateIPAddress(ip); err != nil {
		h.m.Rejected("ip_not_allowed")
		return ChannelsResponse{}, model.Event{}, err
	}
	if err := h.guard.CheckRateLimit(ip); err != nil {
		h.m.Rejected("rate_limited")
		return ChannelsResponse{}, model.Event{}, err
	}

	body, err := h.readBody(c)
	if err != nil {
		h.m.Rejected("body_too_large")
		return ChannelsResponse{}, model.Event{}, err
	}

	if h.verifier.Enabled() {
		if err := h.verifier.VerifyRequest(body, c.Request.Header); err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				h.m.Rejected(string(authErr.Reason))
			}
			return ChannelsResponse{}, model.Event{}, err
		}
	}

	ev, err := h.parser.Parse(body, eventHeader, deliveryID)
	switch {
	case errors.Is(err, ErrUnknownEventKind):
		h.l.Infof(ctx, "webhook.handle: %v, acknowledging without messages", err)
	case err != nil:
		h.m.Rejected("malformed_body")
		return ChannelsResponse{}, model.Event{}, err
	}

	subs, err := h.resolve(ctx, ev)
	if err != nil {
		return ChannelsResponse{}, ev, err
	}

	resp := ChannelsResponse{Channels: make([]string, 0, len(subs))}
	for _, s := range subs {
		resp.Channels = append(resp.Channels, s.Channel)
	}

	if redelivery && h.dedup.Seen(deliveryID) {
		h.l.Infof(ctx, "webhook.handle: delivery already relayed, skipping dispatch")
		return resp, ev, nil
	}

	if len(subs) > 0 {
		if err := h.dispatcher.Dispatch(ctx, dispatcher.Job{Event: ev, Subscriptions: subs}); err != nil {
			h.dedup.Forget(deliveryID)
			h.l.Errorf(ctx, "webhook.handle: dispatch %s for %s: %v", ev.Kind, ev.Repository.FullName, err)
		}
	}
	return resp, ev, nil
}

// readBody reads at most MaxBodyBytes, failing when the body is longer.
func (h *Handler) readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if int64(len(body)) > h.cfg.MaxBodyBytes {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

// resolve looks up the subscriptions for ev's repository. Events without a
// repository have no subscribers.
func (h *Handler) resolve(ctx context.Context, ev model.Event) ([]model.Subscription, error) {
	if subscription.Key(ev.Repository.FullName) == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.StoreTimeout)
	defer cancel()

	subs, err := h.store.ListEnabled(ctx, ev.Repository.FullName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolve, err)
	}
	return subs, nil
}

func eventLabel(header string) string {
	if header == "" {
		return model.KindPing.String()
	}
	return model.ParseKind(header).String()
}

// writeError renders a rejection. Auth failures and server errors carry no
// detail; 501 still names the unsupported digest.
func writeError(c *gin.Context, status int, err error) {
	switch {
	case status == http.StatusUnauthorized:
		pkgResponse.Unauthorized(c)
	case status == http.StatusForbidden:
		pkgResponse.Forbidden(c)
	case status == http.StatusInternalServerError:
		pkgResponse.InternalError(c, err)
	default:
		pkgResponse.ErrorWithStatus(c, status, err)
	}
}
