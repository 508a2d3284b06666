package code

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetailsDoesNotMutateShared(t *testing.T) {
	c := ErrorInvalidParams.WithDetails("email is required")

	assert.True(t, c.HaveDetails())
	assert.Equal(t, []string{"email is required"}, c.Details())
	assert.False(t, ErrorInvalidParams.HaveDetails())
	assert.Empty(t, ErrorInvalidParams.Details())
}

func TestWithDataKeepsIdentity(t *testing.T) {
	c := Success.WithData(map[string]bool{"ok": true})

	assert.True(t, c.HaveData())
	assert.Nil(t, Success.Data())
	assert.True(t, errors.Is(c, Success))
	assert.False(t, errors.Is(c, Failed))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		c    *Code
		want int
	}{
		{"success", Success, http.StatusOK},
		{"validation", ErrorInvalidParams, http.StatusBadRequest},
		{"guest rejection", ErrorShareAccessRestricted, http.StatusForbidden},
		{"storage", ErrorDBQuery, http.StatusInternalServerError},
		{"zero status falls back to 200", &Code{code: 9999}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.StatusCode())
		})
	}
}

func TestLangMessage(t *testing.T) {
	l := lang{en: "hello", zh_cn: "你好"}

	assert.Equal(t, "hello", l.Message("en"))
	assert.Equal(t, "你好", l.Message("zh-CN"))
	assert.Equal(t, "你好", l.Message("zh"))
	assert.Equal(t, "hello", l.Message("fr"))
	assert.Equal(t, "only", lang{en: "only"}.Message("zh_cn"))
}

func TestDuplicateCodePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewError(ErrorInvalidParams.Code(), http.StatusBadRequest, lang{en: "dup"})
	})
}
