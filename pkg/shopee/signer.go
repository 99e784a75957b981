// Package shopee: firma de peticiones de Shopee Open Platform v2.
// Algoritmo: HMAC-SHA256(partner_key, partner_id + path + timestamp + [access_token] + shop_id), hex en minúsculas.
package shopee

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/stock-sync/internal/domain"
)

// APIPrefix prefijo de versión compartido por todas las rutas firmadas.
const APIPrefix = "/api/v2/"

// PathUpdateStock ruta de actualización de stock de un anuncio.
const PathUpdateStock = APIPrefix + "product/update_stock"

// Credentials identidad del partner y de la tienda. Se construye una vez desde la configuración.
type Credentials struct {
	PartnerID  string
	ShopID     string
	PartnerKey string
}

// Validate falla con ErrConfiguration si falta algún dato de identidad o el secreto.
func (c Credentials) Validate() error {
	switch {
	case strings.TrimSpace(c.PartnerID) == "":
		return fmt.Errorf("%w: partner_id vacío", domain.ErrConfiguration)
	case strings.TrimSpace(c.ShopID) == "":
		return fmt.Errorf("%w: shop_id vacío", domain.ErrConfiguration)
	case c.PartnerKey == "":
		return fmt.Errorf("%w: partner_key vacío", domain.ErrConfiguration)
	}
	return nil
}

// Sign calcula la firma de una petición. Función pura: entradas iguales producen el mismo digest.
// timestamp lo pasa el caller (segundos Unix) para no acoplar la firma al reloj.
func Sign(creds Credentials, path string, timestamp int64, accessToken string) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, APIPrefix) {
		return "", fmt.Errorf("%w: path %q fuera de %s", domain.ErrValidation, path, APIPrefix)
	}

	var b strings.Builder
	b.WriteString(creds.PartnerID)
	b.WriteString(path)
	b.WriteString(strconv.FormatInt(timestamp, 10))
	if accessToken != "" {
		b.WriteString(accessToken)
	}
	b.WriteString(creds.ShopID)

	mac := hmac.New(sha256.New, []byte(creds.PartnerKey))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil)), nil
}
