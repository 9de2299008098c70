package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ScraperSuccess(t *testing.T) {
	var gotPath, gotBody string
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotBody = body["customer_number"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "SUCCESS",
			"data": {
				"nama_pelanggan": "BUDI SANTOSO",
				"nomor_id_pelanggan": "530000000001",
				"tarif_daya": "R1/1300VA",
				"stand_meter": "00012345-00012500",
				"periode_tagihan": "OKT 2026",
				"jumlah_tagihan_excl_fee": 150000,
				"biaya_admin": "2500",
				"total_pembayaran_incl_fee": 999
			}
		}`))
	})

	c := NewClient(Config{Mode: ModeScraper, URL: srv.URL + "/", Timeout: time.Second})
	res, err := c.Check(context.Background(), "530000000001")
	require.NoError(t, err)

	assert.Equal(t, "/api/pln/postpaid", gotPath)
	assert.Equal(t, "530000000001", gotBody)
	assert.Equal(t, "BUDI SANTOSO", res.CustomerName)
	assert.Equal(t, int64(150000), res.BillAmount)
	assert.Equal(t, int64(2500), res.AdminFee)
	assert.Equal(t, res.BillAmount+res.AdminFee, res.TotalPayment)
	assert.Equal(t, "scraper", res.Source)

	stats := c.GetProviderStats()
	require.Len(t, stats, 1)
	assert.Equal(t, int64(1), stats[0].SuccessfulReqs)
}

func TestClient_APIModeAliases(t *testing.T) {
	var gotKey string
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte(`{
			"success": true,
			"customer_name": "SITI",
			"tariff": "R1",
			"power": 900,
			"period": "SEP 2026",
			"admin_fee": 3000,
			"total_bill": "Rp 103.000"
		}`))
	})

	c := NewClient(Config{Mode: ModeAPI, URL: srv.URL + "/cek", APIKey: "secret", Timeout: time.Second})
	res, err := c.Check(context.Background(), "5300")
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "5300", res.CustomerNumber)
	assert.Equal(t, "R1/900VA", res.TariffPower)
	assert.Equal(t, "N/A", res.StandMeter)
	assert.Equal(t, int64(100000), res.BillAmount)
	assert.Equal(t, int64(103000), res.TotalPayment)
}

func TestClient_Rejected(t *testing.T) {
	t.Run("vendor message", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": false, "message": "Tagihan sudah lunas"}`))
		})
		_, err := NewClient(Config{URL: srv.URL, Timeout: time.Second}).Check(context.Background(), "1")
		rej, ok := IsRejected(err)
		require.True(t, ok)
		assert.Equal(t, "Tagihan sudah lunas", rej.Message)
	})

	t.Run("default message", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status": "FAILED"}`))
		})
		_, err := NewClient(Config{URL: srv.URL, Timeout: time.Second}).Check(context.Background(), "1")
		rej, ok := IsRejected(err)
		require.True(t, ok)
		assert.Equal(t, DefaultRejectMessage, rej.Message)
	})

	t.Run("4xx with message", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success": false, "message": "IDPEL salah"}`))
		})
		_, err := NewClient(Config{Mode: ModeAPI, URL: srv.URL, Timeout: time.Second}).Check(context.Background(), "1")
		rej, ok := IsRejected(err)
		require.True(t, ok)
		assert.Equal(t, "IDPEL salah", rej.Message)
	})
}

func TestClient_UpstreamErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"detail": "playwright crashed"}`))
		})
		c := NewClient(Config{URL: srv.URL, Timeout: time.Second})
		_, err := c.Check(context.Background(), "1")
		require.Error(t, err)
		_, rejected := IsRejected(err)
		assert.False(t, rejected)
		assert.Equal(t, int32(1), c.GetProviderStats()[0].ConsecutiveFails)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			<-release
		})
		defer close(release)

		_, err := NewClient(Config{URL: srv.URL, Timeout: 50 * time.Millisecond}).Check(context.Background(), "1")
		assert.True(t, errors.Is(err, ErrUpstreamTimeout), "got %v", err)
	})

	t.Run("connection refused", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		_, err = NewClient(Config{URL: "http://" + addr, Timeout: time.Second}).Check(context.Background(), "1")
		assert.True(t, errors.Is(err, ErrUpstreamUnavailable), "got %v", err)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewClient(Config{Mode: ModeAPI}).Check(context.Background(), "1")
		assert.ErrorIs(t, err, ErrUpstreamNotConfigured)
	})
}

func TestProviderMetrics(t *testing.T) {
	m := NewProviderMetrics()
	m.RecordSuccess(100)
	m.RecordSuccess(200)
	m.RecordFailure()

	assert.Equal(t, int64(3), m.TotalRequests.Load())
	assert.Equal(t, int64(150), m.AvgLatencyMs())
	assert.InDelta(t, 0.666, m.SuccessRate(), 0.01)
	assert.Equal(t, int32(1), m.ConsecutiveFails.Load())

	for i := int64(0); i < 100; i++ {
		m.RecordSuccess(i * 10)
	}
	assert.GreaterOrEqual(t, m.P95LatencyMs(), int64(900))
	assert.Equal(t, int32(0), m.ConsecutiveFails.Load())
}
