package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTurkish(t *testing.T) {
	assert.Equal(t, "izgara kofte menusu", normalizeTurkish("IZGARA KÖFTE MENÜSÜ"))
	assert.Equal(t, "cig kofte", normalizeTurkish("Çiğ Köfte"))
	assert.Equal(t, "iskender", normalizeTurkish("İSKENDER"))
	assert.Equal(t, "plain text", normalizeTurkish("Plain Text"))
}

func TestNormalizeItemName(t *testing.T) {
	// Sondaki porsiyon bilgisi kaldırılır
	assert.Equal(t, "iskender kebap", normalizeItemName("İskender Kebap 1.5 Porsiyon"))
	assert.Equal(t, "lahmacun", normalizeItemName("LAHMACUN 2 ADET"))

	// Porsiyon bilgisi yoksa sadece normalize edilir
	assert.Equal(t, "mercimek corbasi", normalizeItemName("Mercimek Çorbası"))

	// Farklı yazımlar aynı anahtara iner
	assert.Equal(t,
		normalizeItemName("ADANA DÜRÜM 1 PORSİYON"),
		normalizeItemName("adana dürüm"),
	)
}

func TestParsePrice(t *testing.T) {
	p, err := parsePrice("12,50")
	assert.NoError(t, err)
	assert.Equal(t, 12.5, p)

	p, err = parsePrice("180.00")
	assert.NoError(t, err)
	assert.Equal(t, 180.0, p)

	p, err = parsePrice("")
	assert.NoError(t, err)
	assert.Zero(t, p)

	_, err = parsePrice("fiyat yok")
	assert.Error(t, err)
}
