package model

import "strings"

const (
	BillCheckSourceScraper = "scraper"
	BillCheckSourceAPI     = "api"
	BillCheckSourceLedger  = "ledger"
)

// BillCheckResult is the normalised outcome of a PLN postpaid bill check.
// JSON keys follow the upstream vocabulary so dashboard clients can read
// either shape. TotalPayment is always BillAmount + AdminFee.
type BillCheckResult struct {
	CustomerNumber string `json:"nomor_id_pelanggan"`
	CustomerName   string `json:"nama_pelanggan"`
	TariffPower    string `json:"tarif_daya"`
	StandMeter     string `json:"stand_meter"`
	Period         string `json:"periode_tagihan"`
	BillAmount     int64  `json:"jumlah_tagihan_excl_fee"`
	AdminFee       int64  `json:"biaya_admin"`
	TotalPayment   int64  `json:"total_pembayaran_incl_fee"`
	Source         string `json:"source,omitempty"`
}

// ApplyAdminFee replaces the fee and recomputes the total.
func (r *BillCheckResult) ApplyAdminFee(fee int64) {
	r.AdminFee = fee
	r.TotalPayment = r.BillAmount + fee
}

type BillDetail struct {
	Period string `json:"period"`
	Amount int64  `json:"amount"`
}

// Details lists the billed periods. Upstreams report one aggregated
// period, so there is at most one entry.
func (r *BillCheckResult) Details() []BillDetail {
	if strings.TrimSpace(r.Period) == "" {
		return nil
	}
	return []BillDetail{{Period: r.Period, Amount: r.BillAmount}}
}

// BillCheckRequest asks for a customer's bill. AdminFee, when set,
// replaces the fee the upstream reported.
type BillCheckRequest struct {
	CustomerNumber string `json:"customer_number" validate:"required"`
	AdminFee       *int64 `json:"admin_fee" validate:"omitnil,gte=0"`
}

func (p *BillCheckRequest) Validate() error {
	p.CustomerNumber = strings.TrimSpace(p.CustomerNumber)
	return validateStruct(p, "customer_number is required")
}
