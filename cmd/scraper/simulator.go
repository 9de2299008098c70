package main

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const notFoundMessage = "ID Pelanggan tidak ditemukan"

var (
	names   = []string{"BUDI SANTOSO", "SITI AMINAH", "AGUS SETIAWAN", "DEWI LESTARI", "RUDI HARTONO", "NUR HIDAYAH"}
	tariffs = []struct {
		class string
		power int
	}{{"R1", 900}, {"R1", 1300}, {"R1", 2200}, {"R2", 3500}, {"B1", 5500}}
	months = []string{"JAN", "FEB", "MAR", "APR", "MEI", "JUN", "JUL", "AGU", "SEP", "OKT", "NOV", "DES"}
)

// Bill is what the simulated portal shows for one customer number.
type Bill struct {
	CustomerNumber string
	CustomerName   string
	Tariff         string
	Power          int
	StandMeter     string
	Period         string
	Amount         int64
	AdminFee       int64
}

func (b Bill) TariffPower() string {
	return fmt.Sprintf("%s/%dVA", b.Tariff, b.Power)
}

// Simulator fabricates deterministic bills so the same number always
// yields the same answer; HitRate decides which numbers exist.
type Simulator struct {
	mu       sync.RWMutex
	hitRate  float64
	minDelay time.Duration
	maxDelay time.Duration
	adminFee int64
	apiKey   string
	id       string
	rng      *rand.Rand
	rngLock  sync.Mutex
	now      func() time.Time
}

func NewSimulator(hitRate float64, minDelay, maxDelay time.Duration, adminFee int64, apiKey string) *Simulator {
	return &Simulator{
		hitRate:  hitRate,
		minDelay: minDelay,
		maxDelay: maxDelay,
		adminFee: adminFee,
		apiKey:   apiKey,
		id:       "SCRAPER_SIM_" + uuid.New().String()[:8],
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

func seed(customerNumber string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(customerNumber))
	return h.Sum64()
}

// Lookup returns the bill for customerNumber, or false when the simulated
// portal does not know it.
func (s *Simulator) Lookup(customerNumber string) (Bill, bool) {
	s.mu.RLock()
	hitRate, fee := s.hitRate, s.adminFee
	s.mu.RUnlock()

	h := seed(customerNumber)
	if float64(h%1000)/1000 >= hitRate {
		return Bill{}, false
	}

	t := tariffs[h%uint64(len(tariffs))]
	prev := s.now().AddDate(0, -1, 0)
	stand := 10000 + int(h%40000)
	return Bill{
		CustomerNumber: customerNumber,
		CustomerName:   names[(h/7)%uint64(len(names))],
		Tariff:         t.class,
		Power:          t.power,
		StandMeter:     fmt.Sprintf("%08d-%08d", stand, stand+100+int(h%400)),
		Period:         fmt.Sprintf("%s %d", months[prev.Month()-1], prev.Year()),
		Amount:         int64(50_000 + (h/13)%950_000),
		AdminFee:       fee,
	}, true
}

func (s *Simulator) delay() time.Duration {
	s.mu.RLock()
	lo, hi := s.minDelay, s.maxDelay
	s.mu.RUnlock()
	if hi <= lo {
		return lo
	}
	s.rngLock.Lock()
	defer s.rngLock.Unlock()
	return lo + time.Duration(s.rng.Int63n(int64(hi-lo)))
}

type checkRequest struct {
	CustomerNumber string `json:"customer_number" binding:"required"`
}

type Handler struct {
	sim *Simulator
}

func NewHandler(sim *Simulator) *Handler {
	return &Handler{sim: sim}
}

func (h *Handler) bind(c *gin.Context) (string, bool) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "message": "customer_number is required"})
		return "", false
	}
	time.Sleep(h.sim.delay())
	return strings.TrimSpace(req.CustomerNumber), true
}

// Postpaid answers in the scraper vocabulary used by the PLN portal robot.
func (h *Handler) Postpaid(c *gin.Context) {
	number, ok := h.bind(c)
	if !ok {
		return
	}

	bill, found := h.sim.Lookup(number)
	if !found {
		log.Warn().Str("customer_number", number).Msg("Customer not found")
		c.JSON(http.StatusOK, gin.H{"status": false, "message": notFoundMessage})
		return
	}

	log.Info().Str("customer_number", number).Int64("amount", bill.Amount).Msg("Bill served")
	c.JSON(http.StatusOK, gin.H{
		"status": "SUCCESS",
		"data": gin.H{
			"nomor_id_pelanggan":        bill.CustomerNumber,
			"nama_pelanggan":            bill.CustomerName,
			"tarif_daya":                bill.TariffPower(),
			"stand_meter":               bill.StandMeter,
			"periode_tagihan":           bill.Period,
			"jumlah_tagihan_excl_fee":   fmt.Sprintf("Rp %d", bill.Amount),
			"biaya_admin":               bill.AdminFee,
			"total_pembayaran_incl_fee": bill.Amount + bill.AdminFee,
		},
	})
}

// APICheck answers in the JSON API vocabulary and enforces x-api-key when
// a key is configured.
func (h *Handler) APICheck(c *gin.Context) {
	if h.sim.apiKey != "" && c.GetHeader("x-api-key") != h.sim.apiKey {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid API key"})
		return
	}
	number, ok := h.bind(c)
	if !ok {
		return
	}

	bill, found := h.sim.Lookup(number)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"customer_number": bill.CustomerNumber,
			"customer_name":   bill.CustomerName,
			"tariff":          bill.Tariff,
			"power":           bill.Power,
			"stand_meter":     bill.StandMeter,
			"period":          bill.Period,
			"admin_fee":       bill.AdminFee,
			"total_payment":   bill.Amount + bill.AdminFee,
		},
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	h.sim.mu.RLock()
	defer h.sim.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"id":        h.sim.id,
		"hit_rate":  h.sim.hitRate,
		"timestamp": time.Now(),
	})
}

// UpdateConfig changes hit rate and delays at runtime.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var cfg struct {
		HitRate  *float64 `json:"hit_rate"`
		MinDelay *string  `json:"min_delay"`
		MaxDelay *string  `json:"max_delay"`
	}
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	h.sim.mu.Lock()
	defer h.sim.mu.Unlock()
	if cfg.HitRate != nil && *cfg.HitRate >= 0 && *cfg.HitRate <= 1 {
		h.sim.hitRate = *cfg.HitRate
	}
	if cfg.MinDelay != nil {
		if d, err := time.ParseDuration(*cfg.MinDelay); err == nil {
			h.sim.minDelay = d
		}
	}
	if cfg.MaxDelay != nil {
		if d, err := time.ParseDuration(*cfg.MaxDelay); err == nil {
			h.sim.maxDelay = d
		}
	}
	log.Info().Float64("hit_rate", h.sim.hitRate).Dur("min_delay", h.sim.minDelay).Dur("max_delay", h.sim.maxDelay).Msg("Updated config")

	c.JSON(http.StatusOK, gin.H{
		"hit_rate":  h.sim.hitRate,
		"min_delay": h.sim.minDelay.String(),
		"max_delay": h.sim.maxDelay.String(),
	})
}

func SetupRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})

	api := router.Group("/api")
	{
		api.POST("/pln/postpaid", h.Postpaid)
		api.POST("/cek-tagihan-pln", h.APICheck)
		api.PUT("/config", h.UpdateConfig)
	}
	router.GET("/health", h.HealthCheck)

	return router
}
