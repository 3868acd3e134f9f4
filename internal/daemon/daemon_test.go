package daemon

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blacktop/ipa-archive/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	urls := filepath.Join(dir, "urls.json")
	ipas := filepath.Join(dir, "ipa.json")
	require.NoError(t, os.WriteFile(urls, []byte(`{"1":"https://archive.org/download/ios-ipa"}`), 0o644))
	require.NoError(t, os.WriteFile(ipas, []byte(`[[7,2,20200,"180","com.headcasegames.180","1.0",1,"180.ipa",189930]]`), 0o644))

	// unix socket paths are length limited
	sockDir, err := os.MkdirTemp("", "ipad")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(sockDir) })

	conf := &config.Config{}
	conf.Daemon.Socket = filepath.Join(sockDir, "d.sock")
	conf.Catalog.URLs = urls
	conf.Catalog.IPAs = ipas
	conf.Catalog.PageSize = 30
	conf.Plist.Lookup = "http://127.0.0.1:1/lookup"
	conf.Plist.CacheSize = 8
	return conf
}

func wait(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not return")
		return nil
	}
}

func TestStopBeforeStart(t *testing.T) {
	conf := testConfig(t)
	d := NewDaemon(conf)

	require.NoError(t, d.Stop())
	require.NoError(t, d.Start())

	_, err := os.Stat(conf.Daemon.Socket)
	assert.True(t, os.IsNotExist(err), "a stopped daemon must not listen")
}

func TestStopWhileStarting(t *testing.T) {
	d := NewDaemon(testConfig(t))

	errc := make(chan error, 1)
	go func() { errc <- d.Start() }()

	require.NoError(t, d.Stop())
	assert.NoError(t, wait(t, errc))
}

func TestStartServes(t *testing.T) {
	conf := testConfig(t)
	d := NewDaemon(conf)

	errc := make(chan error, 1)
	go func() { errc <- d.Start() }()

	client := &http.Client{Transport: &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var dialer net.Dialer
			return dialer.DialContext(ctx, "unix", conf.Daemon.Socket)
		},
	}}
	var body string
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://ipa-archive/v1/_ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		body = string(data)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "OK", body)

	require.NoError(t, d.Stop())
	assert.NoError(t, wait(t, errc))
}
