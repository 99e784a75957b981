package shopee

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/stock-sync/internal/application/stocksync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// DefaultTimeout tope fijo de la llamada remota.
const DefaultTimeout = 10 * time.Second

var _ stocksync.RemoteClient = (*HTTPClient)(nil)

// updateStockResponse respuesta de Shopee: error vacío = éxito.
type updateStockResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Msg       string `json:"msg"`
	RequestID string `json:"request_id"`
}

func (r updateStockResponse) text() string {
	if r.Msg != "" {
		return r.Msg
	}
	return r.Message
}

// HTTPClient implementa RemoteClient contra la API real. Un solo intento por llamada:
// reintentar sin llaves de idempotencia podría aplicar dos veces el mismo stock.
type HTTPClient struct {
	builder    *RequestBuilder
	httpClient *http.Client
	log        *logger.Logger
	now        func() time.Time
}

// NewHTTPClient construye el cliente real. timeout <= 0 usa DefaultTimeout.
func NewHTTPClient(builder *RequestBuilder, timeout time.Duration, log *logger.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		builder:    builder,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		now:        time.Now,
	}
}

// UpdateStock envía la cantidad nueva del anuncio remoteItemID.
func (c *HTTPClient) UpdateStock(ctx context.Context, remoteItemID string, qty int) (*stocksync.RemoteResult, error) {
	signed, err := c.builder.BuildUpdateStock(remoteItemID, qty, c.now())
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(signed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: serializar body: %v", domain.ErrRemoteTransport, err)
	}

	c.log.Debug().
		Str("url", signed.URL).
		Int64("item_id", signed.Body.ItemID).
		Int("stock", qty).
		Msg("shopee: enviando update_stock")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signed.FullURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: crear request: %v", domain.ErrRemoteTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrRemoteTransport, domain.ErrRemoteTimeout)
		}
		return nil, fmt.Errorf("%w: llamada HTTP fallida: %v", domain.ErrRemoteTransport, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrRemoteTransport, domain.ErrRemoteTimeout)
		}
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrRemoteTransport, err)
	}

	return parseUpdateStockResponse(resp.StatusCode, rawBody)
}

func parseUpdateStockResponse(status int, rawBody []byte) (*stocksync.RemoteResult, error) {
	var out updateStockResponse
	decodeErr := json.Unmarshal(rawBody, &out)

	if status < 200 || status > 299 {
		reason := strings.TrimSpace(string(rawBody))
		if decodeErr == nil && out.Error != "" {
			reason = strings.TrimSpace(out.Error + " " + out.text())
		}
		reason = truncate(reason, maxReasonBytes)
		return nil, fmt.Errorf("%w: HTTP %d: %s", domain.ErrRemoteRejected, status, reason)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: respuesta ilegible: %v", domain.ErrRemoteTransport, decodeErr)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrRemoteRejected, strings.TrimSpace(out.Error+" "+out.text()))
	}
	return &stocksync.RemoteResult{Message: out.text()}, nil
}

// maxReasonBytes tope del cuerpo de error que se copia al motivo del fallo.
const maxReasonBytes = 200

// truncate corta s a lo sumo en n bytes sin partir una runa.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
