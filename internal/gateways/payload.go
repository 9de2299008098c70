package gateway

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nimasrn/ppob-gateway/internal/model"
)

// looseInt accepts JSON numbers as well as numeric strings such as
// "102500", "102500.00", "Rp 102.500" or "Rp 102.500,00". Fractions are
// rounded to whole rupiah.
type looseInt struct {
	Value int64
	Set   bool
}

func (n *looseInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if v, ok := parseAmount(s); ok {
			n.Value, n.Set = v, true
		}
		return nil
	}

	num := json.Number(b)
	if v, err := num.Int64(); err == nil {
		n.Value, n.Set = v, true
		return nil
	}
	if f, err := num.Float64(); err == nil {
		n.Value, n.Set = int64(math.Round(f)), true
	}
	return nil
}

// parseAmount reads a money string in either id-ID ("1.250.000,50") or
// plain ("1250000.50") notation after dropping any currency label.
func parseAmount(s string) (int64, bool) {
	var sb strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			sb.WriteRune(r)
		}
	}
	v := strings.TrimLeft(sb.String(), ".,")
	if v == "" {
		return 0, false
	}

	dot, comma := strings.LastIndexByte(v, '.'), strings.LastIndexByte(v, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	case comma >= 0:
		v = resolveSeparator(v, ",")
	case dot >= 0:
		v = resolveSeparator(v, ".")
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// resolveSeparator treats a lone separator followed by anything but three
// digits as the decimal point; otherwise it groups thousands.
func resolveSeparator(v, sep string) string {
	if strings.Count(v, sep) == 1 && len(v)-strings.Index(v, sep)-1 != 3 {
		return strings.Replace(v, sep, ".", 1)
	}
	return strings.ReplaceAll(v, sep, "")
}

// marker reads a success flag that may be a boolean or a word like
// "SUCCESS".
type marker struct {
	Value bool
	Set   bool
}

func (m *marker) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("true")):
		m.Value, m.Set = true, true
	case bytes.Equal(b, []byte("false")):
		m.Set = true
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		m.Value, m.Set = strings.EqualFold(strings.TrimSpace(s), "SUCCESS"), true
	}
	return nil
}

type billFields struct {
	NamaPelanggan    string   `json:"nama_pelanggan"`
	CustomerName     string   `json:"customer_name"`
	NomorIDPelanggan string   `json:"nomor_id_pelanggan"`
	CustomerNumber   string   `json:"customer_number"`
	TarifDaya        string   `json:"tarif_daya"`
	TariffPower      string   `json:"tariff_power"`
	Tariff           string   `json:"tariff"`
	Power            looseInt `json:"power"`
	StandMeter       string   `json:"stand_meter"`
	PeriodeTagihan   string   `json:"periode_tagihan"`
	Period           string   `json:"period"`
	JumlahTagihan    looseInt `json:"jumlah_tagihan_excl_fee"`
	BillAmount       looseInt `json:"bill_amount"`
	BiayaAdmin       looseInt `json:"biaya_admin"`
	AdminFee         looseInt `json:"admin_fee"`
	TotalPembayaran  looseInt `json:"total_pembayaran_incl_fee"`
	TotalPayment     looseInt `json:"total_payment"`
	TotalBill        looseInt `json:"total_bill"`
}

type upstreamResponse struct {
	Status  marker          `json:"status"`
	Success marker          `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	billFields
}

func (r *upstreamResponse) ok() bool {
	return r.Status.Value || r.Success.Value
}

// fields returns the bill payload, nested under "data" or inlined.
func (r *upstreamResponse) fields() (billFields, error) {
	data := bytes.TrimSpace(r.Data)
	if len(data) == 0 || data[0] != '{' {
		return r.billFields, nil
	}
	var f billFields
	if err := json.Unmarshal(data, &f); err != nil {
		return billFields{}, err
	}
	return f, nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func firstInt(values ...looseInt) looseInt {
	for _, v := range values {
		if v.Set {
			return v
		}
	}
	return looseInt{}
}

// normalize maps the upstream vocabulary onto a BillCheckResult. Of amount,
// fee and total, a missing amount or fee is derived from the other two; the
// total is then recomputed from them.
func (f billFields) normalize(requested string) *model.BillCheckResult {
	tariff := firstString(f.TarifDaya, f.TariffPower)
	if tariff == "" && f.Tariff != "" {
		tariff = f.Tariff
		if f.Power.Set {
			tariff += "/" + strconv.FormatInt(f.Power.Value, 10) + "VA"
		}
	}

	fee := firstInt(f.BiayaAdmin, f.AdminFee)
	amount := firstInt(f.JumlahTagihan, f.BillAmount)
	total := firstInt(f.TotalPembayaran, f.TotalPayment, f.TotalBill)
	switch {
	case !amount.Set && total.Set:
		amount = looseInt{Value: total.Value - fee.Value, Set: true}
	case !fee.Set && amount.Set && total.Set && total.Value >= amount.Value:
		fee = looseInt{Value: total.Value - amount.Value, Set: true}
	}

	res := &model.BillCheckResult{
		CustomerNumber: firstString(f.NomorIDPelanggan, f.CustomerNumber, requested),
		CustomerName:   firstString(f.NamaPelanggan, f.CustomerName, notAvailable),
		TariffPower:    firstString(tariff, notAvailable),
		StandMeter:     firstString(f.StandMeter, notAvailable),
		Period:         firstString(f.PeriodeTagihan, f.Period, notAvailable),
		BillAmount:     amount.Value,
	}
	res.ApplyAdminFee(fee.Value)
	return res
}

const notAvailable = "N/A"
