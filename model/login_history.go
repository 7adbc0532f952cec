package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoginStatus string

const (
	LoginStatusSuccess LoginStatus = "success"
	LoginStatusFailed  LoginStatus = "failed"
)

// Column sizes of LoginHistory, values are clipped to these before insert.
const (
	LoginHistoryEmailSize     = 256
	LoginHistoryIPSize        = 64
	LoginHistoryUserAgentSize = 512
	LoginHistoryLabelSize     = 16
	LoginHistoryLocationSize  = 64
	LoginHistoryRequestIDSize = 64
)

func (s LoginStatus) Valid() bool {
	return s == LoginStatusSuccess || s == LoginStatusFailed
}

// LoginHistory is an append-only record of one authentication attempt.
// UserID is a weak reference: it is nil when the attempted email matched no
// account, and the row outlives the user it points to.
type LoginHistory struct {
	ID        string      `gorm:"primaryKey;size:36"`
	UserID    *uint       `gorm:"index"`
	Email     string      `gorm:"size:256;not null;index"` // attempted email
	IPAddress string      `gorm:"size:64;not null;default:Unknown"`
	UserAgent string      `gorm:"size:512;not null;default:Unknown"`
	Browser   string      `gorm:"size:16;not null;default:Unknown"`
	Device    string      `gorm:"size:16;not null;default:Unknown"`
	Location  string      `gorm:"size:64;not null;default:Unknown"`
	Status    LoginStatus `gorm:"size:16;not null;index"`
	RequestID string      `gorm:"size:64"`
	LoginTime time.Time   `gorm:"not null;index"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
}

func (h *LoginHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.LoginTime.IsZero() {
		h.LoginTime = time.Now()
	}
	return nil
}
