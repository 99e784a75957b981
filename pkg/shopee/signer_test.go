package shopee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/shopee"
)

var testCreds = shopee.Credentials{PartnerID: "1000001", ShopID: "2000002", PartnerKey: "segredo"}

const testTimestamp int64 = 1700000000

// Vectores calculados con HMAC-SHA256 sobre la cadena base:
//
//	"1000001" + "/api/v2/product/update_stock" + "1700000000" + "tokenABC" + "2000002"
func TestSign_VectorConocido(t *testing.T) {
	sig, err := shopee.Sign(testCreds, shopee.PathUpdateStock, testTimestamp, "tokenABC")
	require.NoError(t, err)
	assert.Equal(t, "f26ec580e7b941777e854aac9c5353e4377181739d32af1a65c6baba2e72e64e", sig)
}

func TestSign_SinAccessToken(t *testing.T) {
	sig, err := shopee.Sign(testCreds, shopee.PathUpdateStock, testTimestamp, "")
	require.NoError(t, err)
	assert.Equal(t, "9f2df663a008eecf40b09e7fb9c1d2009c5dea9b0ffdc74262ad102f204a1079", sig)
}

func TestSign_EsPura(t *testing.T) {
	first, err := shopee.Sign(testCreds, shopee.PathUpdateStock, testTimestamp, "tokenABC")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := shopee.Sign(testCreds, shopee.PathUpdateStock, testTimestamp, "tokenABC")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSign_CualquierEntradaCambiaElDigest(t *testing.T) {
	base, err := shopee.Sign(testCreds, shopee.PathUpdateStock, testTimestamp, "tokenABC")
	require.NoError(t, err)

	otherShop := testCreds
	otherShop.ShopID = "2000003"
	otherSecret := testCreds
	otherSecret.PartnerKey = "outro-segredo"

	variants := map[string]func() (string, error){
		"path": func() (string, error) {
			return shopee.Sign(testCreds, "/api/v2/product/get_item_list", testTimestamp, "tokenABC")
		},
		"timestamp": func() (string, error) {
			return shopee.Sign(testCreds, shopee.PathUpdateStock, testTimestamp+1, "tokenABC")
		},
		"token": func() (string, error) {
			return shopee.Sign(testCreds, shopee.PathUpdateStock, testTimestamp, "tokenXYZ")
		},
		"shop": func() (string, error) {
			return shopee.Sign(otherShop, shopee.PathUpdateStock, testTimestamp, "tokenABC")
		},
		"secret": func() (string, error) {
			return shopee.Sign(otherSecret, shopee.PathUpdateStock, testTimestamp, "tokenABC")
		},
	}
	for name, sign := range variants {
		t.Run(name, func(t *testing.T) {
			sig, err := sign()
			require.NoError(t, err)
			assert.NotEqual(t, base, sig)
		})
	}
}

func TestSign_IdentidadIncompleta_ErrConfiguration(t *testing.T) {
	cases := []shopee.Credentials{
		{ShopID: "2", PartnerKey: "k"},
		{PartnerID: "1", PartnerKey: "k"},
		{PartnerID: "1", ShopID: "2"},
	}
	for _, creds := range cases {
		_, err := shopee.Sign(creds, shopee.PathUpdateStock, testTimestamp, "")
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	}
}

func TestSign_PathFueraDelPrefijo(t *testing.T) {
	_, err := shopee.Sign(testCreds, "/api/v1/product/update_stock", testTimestamp, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
