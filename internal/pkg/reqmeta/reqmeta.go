// Package reqmeta carrega no context os metadados da requisição usados pela auditoria.
package reqmeta

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

type ctxKey struct{}

// Meta identifica a origem de uma requisição.
type Meta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// WithMeta anexa os metadados ao contexto.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext devolve os metadados ou o valor zero.
func FromContext(ctx context.Context) Meta {
	m, _ := ctx.Value(ctxKey{}).(Meta)
	return m
}

// TrustedProxies guarda as redes dos proxies reversos cujo X-Forwarded-For é aceito.
// O valor nil não confia em ninguém.
type TrustedProxies struct {
	nets []netip.Prefix
}

// ParseTrustedProxies aceita IPs ou CIDRs (ex.: "10.0.0.0/8", "127.0.0.1").
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	p := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("proxy confiável inválido %q: %w", entry, err)
			}
			p.nets = append(p.nets, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("proxy confiável inválido %q: %w", entry, err)
		}
		addr = addr.Unmap()
		p.nets = append(p.nets, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return p, nil
}

func (p *TrustedProxies) trusts(raw string) bool {
	if p == nil {
		return false
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, n := range p.nets {
		if n.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP devolve o IP do par TCP. X-Forwarded-For só é lido quando esse par é um
// proxy confiável; a lista é percorrida da direita para a esquerda e vence o primeiro
// endereço que não seja de proxy confiável.
func (p *TrustedProxies) ClientIP(r *http.Request) string {
	remote := RemoteIP(r)
	if !p.trusts(remote) {
		return remote
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		if !p.trusts(hop) {
			return hop
		}
		remote = hop
	}
	return remote
}

// RemoteIP devolve o host de RemoteAddr, sem a porta.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
