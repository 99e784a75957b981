package shopee

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain"
	pkgshopee "github.com/jhoicas/stock-sync/pkg/shopee"
)

// noVariantModelID model_id centinela para productos sin variaciones (talla/color).
const noVariantModelID = 0

// QueryParam par clave/valor de la query firmada, en orden estable.
type QueryParam struct {
	Key   string
	Value string
}

// StockEntry elemento de stock_list.
type StockEntry struct {
	ModelID int `json:"model_id"`
	Stock   int `json:"stock"`
}

// UpdateStockBody cuerpo JSON de /api/v2/product/update_stock.
type UpdateStockBody struct {
	ItemID    int64        `json:"item_id"`
	StockList []StockEntry `json:"stock_list"`
}

// SignedRequest petición lista para enviar. Efímera: la firma incluye el timestamp,
// se recalcula en cada intento y nunca se reutiliza.
type SignedRequest struct {
	URL   string // host + path, sin query
	Query []QueryParam
	Body  UpdateStockBody
}

// RawQuery serializa la query en el orden partner_id, timestamp, sign, shop_id, access_token.
// Los valores van escapados: la firma cubre el token tal cual está en la configuración.
func (r SignedRequest) RawQuery() string {
	parts := make([]string, 0, len(r.Query))
	for _, p := range r.Query {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// FullURL URL completa con la query firmada.
func (r SignedRequest) FullURL() string {
	return r.URL + "?" + r.RawQuery()
}

// RequestBuilder construye y firma peticiones con la identidad de la tienda.
type RequestBuilder struct {
	host        string
	creds       pkgshopee.Credentials
	accessToken string
}

// NewRequestBuilder valida la identidad; ErrConfiguration si falta algún dato.
func NewRequestBuilder(host string, creds pkgshopee.Credentials, accessToken string) (*RequestBuilder, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return &RequestBuilder{
		host:        strings.TrimRight(host, "/"),
		creds:       creds,
		accessToken: accessToken,
	}, nil
}

// BuildUpdateStock arma la petición de stock para un anuncio sin variaciones.
// remoteItemID debe ser numérico (item_id entero en la API).
func (b *RequestBuilder) BuildUpdateStock(remoteItemID string, qty int, at time.Time) (*SignedRequest, error) {
	itemID, err := strconv.ParseInt(strings.TrimSpace(remoteItemID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: item_id %q no numérico", domain.ErrValidation, remoteItemID)
	}
	if qty < 0 {
		return nil, fmt.Errorf("%w: stock negativo %d", domain.ErrValidation, qty)
	}

	timestamp := at.Unix()
	sign, err := pkgshopee.Sign(b.creds, pkgshopee.PathUpdateStock, timestamp, b.accessToken)
	if err != nil {
		return nil, err
	}

	return &SignedRequest{
		URL: b.host + pkgshopee.PathUpdateStock,
		Query: []QueryParam{
			{Key: "partner_id", Value: b.creds.PartnerID},
			{Key: "timestamp", Value: strconv.FormatInt(timestamp, 10)},
			{Key: "sign", Value: sign},
			{Key: "shop_id", Value: b.creds.ShopID},
			{Key: "access_token", Value: b.accessToken},
		},
		Body: UpdateStockBody{
			ItemID:    itemID,
			StockList: []StockEntry{{ModelID: noVariantModelID, Stock: qty}},
		},
	}, nil
}
