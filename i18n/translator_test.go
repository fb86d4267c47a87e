package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	msg := Default().Message("invalid_type", "string")
	assert.Equal(t, "invalid type (expected: string)", msg)

	ja := Dict("ja")
	assert.NotEqual(t, "invalid type", ja.Message("invalid_type", nil))
	assert.Equal(t, "型が不正です", ja.Message("invalid_type", nil))

	// unknown languages fall back to en
	assert.Equal(t, "too short (min: 2)", Dict("fr").Message("too_short", 2))
}

func TestTranslator_UnknownCodeEchoesCode(t *testing.T) {
	assert.Equal(t, "my_code", Default().Message("my_code", nil))
}

func TestTranslatorFunc(t *testing.T) {
	tr := TranslatorFunc(func(code string, param any) string { return "x:" + code })
	assert.Equal(t, "x:pattern", tr.Message("pattern", nil))
}

func TestTranslator_Discriminator(t *testing.T) {
	assert.Equal(t, "unknown variant (tag: circle)", Default().Message("discriminator_unknown", "circle"))
	assert.Equal(t, "判別キーがありません", Dict("ja").Message("discriminator_missing", "kind"))
}
