package models

import "time"

// PaymentStatus adalah enumerasi tertutup status pembayaran.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentVerified, PaymentRejected:
		return true
	}
	return false
}

// Pembayaran mewakili satu percobaan pembayaran terhadap sebuah tagihan.
// Baris tidak pernah diubah lagi setelah diverifikasi atau ditolak.
type Pembayaran struct {
	ID            int64         `json:"id"`
	TagihanID     int64         `json:"tagihan_id"`
	UserID        int64         `json:"user_id"`
	PaymentNumber string        `json:"payment_number"`
	Amount        int64         `json:"amount"`
	Metode        string        `json:"metode"`
	ProofImage    string        `json:"proof_image,omitempty"`
	Status        PaymentStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	VerifiedBy    *int64        `json:"verified_by,omitempty"`
	VerifiedAt    *time.Time    `json:"verified_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
