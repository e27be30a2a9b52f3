package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newContext(target string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		headers map[string]string
		want    string
	}{
		{name: "default", target: "/", want: LocaleEN},
		{name: "query wins", target: "/?lang=zh", headers: map[string]string{"Accept-Language": "en-US"}, want: LocaleZH},
		{name: "x-locale", target: "/", headers: map[string]string{"X-Locale": "zh_CN"}, want: LocaleZH},
		{name: "accept language order", target: "/", headers: map[string]string{"Accept-Language": "fr-FR,zh-TW;q=0.8,en;q=0.5"}, want: LocaleZH},
		{name: "unknown falls back", target: "/?lang=fr", want: LocaleEN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveLocale(newContext(tc.target, tc.headers)); got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context should use default, got %s", got)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := T(LocaleZH, "error.cart_empty"); got != "购物车为空" {
		t.Fatalf("unexpected zh message %q", got)
	}
	if got := T("fr-FR", "error.cart_empty"); got != "Your cart is empty" {
		t.Fatalf("unknown locale should use default catalog, got %q", got)
	}
	if got := T(LocaleEN, "error.no_such_key"); got != "error.no_such_key" {
		t.Fatalf("missing key should return key, got %q", got)
	}
	if got := Sprintf(LocaleEN, "error.password_min_length", 8); got != "Password must be at least 8 characters" {
		t.Fatalf("unexpected formatted message %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range messagesEN {
		if _, ok := messagesZH[key]; !ok {
			t.Fatalf("zh catalog missing %s", key)
		}
	}
	if len(messagesEN) != len(messagesZH) {
		t.Fatalf("catalog sizes differ: en=%d zh=%d", len(messagesEN), len(messagesZH))
	}
}
