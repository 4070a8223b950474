package specification

import "gorm.io/gorm"

// ByPasscode matches rows owned by a passcode. Both users and chat_history
// carry the column, so the same spec serves either table.
type ByPasscode struct {
	Passcode string
}

func (s ByPasscode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("passcode = ?", s.Passcode)
}
