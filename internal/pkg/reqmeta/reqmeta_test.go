package reqmeta_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sghss/internal/pkg/reqmeta"
)

func request(remote, forwarded string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = remote
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	return req
}

func TestClientIP(t *testing.T) {
	proxies, err := reqmeta.ParseTrustedProxies([]string{"10.0.0.0/8", "127.0.0.1"})
	require.NoError(t, err)

	cases := []struct {
		name      string
		proxies   *reqmeta.TrustedProxies
		remote    string
		forwarded string
		want      string
	}{
		{"sem proxies configurados ignora o header", nil, "10.0.0.1:5555", "203.0.113.7", "10.0.0.1"},
		{"par não confiável ignora o header", proxies, "198.51.100.9:5555", "203.0.113.7", "198.51.100.9"},
		{"proxy confiável usa o header", proxies, "127.0.0.1:5555", "203.0.113.7", "203.0.113.7"},
		{"entrada forjada à esquerda é ignorada", proxies, "10.0.0.2:5555", "1.2.3.4, 203.0.113.7, 10.0.0.9", "203.0.113.7"},
		{"somente proxies na cadeia", proxies, "10.0.0.2:5555", "10.0.0.9", "10.0.0.9"},
		{"valor inválido interrompe a cadeia", proxies, "10.0.0.2:5555", "lixo", "10.0.0.2"},
		{"proxy sem header", proxies, "10.0.0.2:5555", "", "10.0.0.2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.proxies.ClientIP(request(tc.remote, tc.forwarded)))
		})
	}
}

func TestParseTrustedProxies_Invalid(t *testing.T) {
	_, err := reqmeta.ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = reqmeta.ParseTrustedProxies([]string{"proxy.interno"})
	assert.Error(t, err)
}
