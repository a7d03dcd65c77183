package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/asnowfix/wololo/internal/providers"
	"github.com/asnowfix/wololo/internal/wake"
	"github.com/asnowfix/wololo/pkg/mac"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct {
	sent []mac.Address
}

func (n *nopSender) Send(ctx context.Context, addr mac.Address) error {
	n.sent = append(n.sent, addr)
	return nil
}

type panickingMachines struct{}

func (panickingMachines) Machines(ctx context.Context) ([]providers.Machine, error) {
	panic("boom")
}

func newHandler(t *testing.T, options Options) (http.Handler, *nopSender) {
	t.Helper()
	log := testr.New(t)
	static, err := providers.NewStatic([]string{"desktop=00:11:22:33:44:55", "laptop=aa:bb:cc:dd:ee:ff"})
	require.NoError(t, err)
	set := providers.NewSet(log, static)
	sender := &nopSender{}
	return Handler(log, set, wake.NewService(log, set, sender), options), sender
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/wake", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexListsMachines(t *testing.T) {
	h, _ := newHandler(t, Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "desktop")
	assert.Contains(t, body, "00:11:22:33:44:55")
	assert.Contains(t, body, "laptop")
	assert.Contains(t, body, `name="machine" value="desktop"`)
	assert.Less(t, strings.Index(body, "desktop"), strings.Index(body, "laptop"))
}

func TestWakeByMachineForm(t *testing.T) {
	h, sender := newHandler(t, Options{})
	rec := postForm(h, url.Values{"machine": {"desktop"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sent magic packet to desktop (00:11:22:33:44:55)")
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "00:11:22:33:44:55", sender.sent[0].String())
}

func TestWakeByAddressForm(t *testing.T) {
	h, sender := newHandler(t, Options{})
	rec := postForm(h, url.Values{"mac_address": {"de:ad:be:ef:00:01"}, "unknown": {"x"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sent magic packet to de:ad:be:ef:00:01")
	require.Len(t, sender.sent, 1)
}

func TestWakeFailuresAreBadRequests(t *testing.T) {
	h, sender := newHandler(t, Options{})

	for _, tc := range []struct {
		form url.Values
		msg  string
	}{
		{url.Values{}, "invalid request"},
		{url.Values{"machine": {"missing"}}, "unknown machine"},
		{url.Values{"mac_address": {"AA:BB:CC:DD:EE:FF"}}, "invalid mac address"},
	} {
		rec := postForm(h, tc.form)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "form %v", tc.form)
		assert.Contains(t, rec.Body.String(), tc.msg)
	}
	assert.Empty(t, sender.sent)
}

func TestWakeRequiresPost(t *testing.T) {
	h, _ := newHandler(t, Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wake?machine=desktop", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newHandler(t, Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h, _ = newHandler(t, Options{Metrics: true})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wololo_wake_total")
}

func TestPanicRecovery(t *testing.T) {
	log := testr.New(t)
	h := Handler(log, panickingMachines{}, wake.NewService(log, providers.NewSet(log), &nopSender{}), Options{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStartAndShutdown(t *testing.T) {
	h, _ := newHandler(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done, err := Start(ctx, logr.Discard(), "127.0.0.1:0", h)
	require.NoError(t, err)
	cancel()

	select {
	case err, ok := <-done:
		if ok {
			assert.NoError(t, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStartFailsOnBusyPort(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	_, err = Start(context.Background(), testr.New(t), u.Host, http.NotFoundHandler())
	assert.Error(t, err)
}
