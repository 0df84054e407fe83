// Package proxy builds HTTP clients that tunnel through a SOCKS5 proxy, for
// networks where the chat backends are only reachable that way.
package proxy

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// NewSocksClient returns an HTTP client dialing through the given SOCKS5
// address. An empty address returns nil, which callers treat as "use the
// default transport".
func NewSocksClient(socksAddr string) (*http.Client, error) {
	if socksAddr == "" {
		return nil, nil
	}

	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		},
		Timeout: 120 * time.Second,
	}, nil
}
