// Package download contains the http clients used to fetch the catalog, app
// metadata, archive listings and remote ipa archives.
package download

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/apex/log"
	"golang.org/x/net/http/httpproxy"
)

const defaultTimeout = 30 * time.Second

// Config is the http client config
type Config struct {
	Proxy    string
	Insecure bool
	Timeout  time.Duration
}

// NewClient creates an http client honoring the proxy and TLS settings
func NewClient(conf *Config) *http.Client {
	if conf == nil {
		conf = &Config{}
	}
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:             GetProxy(conf.Proxy),
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: conf.Insecure},
			ForceAttemptHTTP2: true,
		},
	}
}

// GetProxy takes either an input string or read the enviornment and returns a proxy function
func GetProxy(proxy string) func(*http.Request) (*url.URL, error) {
	if len(proxy) > 0 {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.WithError(err).Error("bad proxy url")
			return http.ProxyFromEnvironment
		}
		log.Debugf("proxy set to: %s", proxyURL)
		return http.ProxyURL(proxyURL)
	}

	conf := httpproxy.FromEnvironment()
	if len(conf.HTTPProxy) > 0 || len(conf.HTTPSProxy) > 0 {
		log.WithFields(log.Fields{
			"http_proxy":  conf.HTTPProxy,
			"https_proxy": conf.HTTPSProxy,
			"no_proxy":    conf.NoProxy,
		}).Debugf("proxy info from environment")
	}

	return http.ProxyFromEnvironment
}
