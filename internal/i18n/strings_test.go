package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupAndFallback(t *testing.T) {
	SetLang(English)
	assert.Equal(t, "File", T("menu.file"))
	assert.Equal(t, "no.such.key", T("no.such.key"))

	SetLang(Chinese)
	assert.Equal(t, "文件", T("menu.file"))
	assert.Equal(t, "no.such.key", T("no.such.key"))
	SetLang(English)
}

func TestToggle(t *testing.T) {
	SetLang(English)
	assert.Equal(t, Chinese, Toggle())
	assert.Equal(t, Chinese, Current())
	assert.Equal(t, English, Toggle())
}

func TestTablesCoverSameKeys(t *testing.T) {
	for key := range en {
		_, ok := zh[key]
		assert.True(t, ok, "missing zh translation for %s", key)
	}
	for key := range zh {
		_, ok := en[key]
		assert.True(t, ok, "missing en translation for %s", key)
	}
}
