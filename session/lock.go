package session

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const lockPINKey = "pos_station_lock_pin"

var ErrNoPIN = errors.New("station lock: no PIN set")

// StationLock keeps a bcrypt hash of the operator's unlock PIN in shared
// storage, so the station can be locked and unlocked while offline.
type StationLock struct {
	storage Storage
}

func NewStationLock(storage Storage) *StationLock {
	return &StationLock{storage: storage}
}

func (l *StationLock) SetPIN(pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return l.storage.Set(lockPINKey, string(hash))
}

func (l *StationLock) VerifyPIN(pin string) error {
	hash, err := l.storage.Get(lockPINKey)
	if err != nil {
		return ErrNoPIN
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
}

func (l *StationLock) HasPIN() bool {
	_, err := l.storage.Get(lockPINKey)
	return err == nil
}
