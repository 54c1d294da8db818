package page

import (
	uuid "github.com/satori/go.uuid"
)

// Storage is the device an archive lives on. Two addresses are on the same
// storage when their storages report the same ID.
type Storage interface {
	ID() uuid.UUID
}

// Device is a minimal Storage identified by a random uuid.
type Device struct {
	id   uuid.UUID
	Name string
}

func NewDevice(name string) *Device {
	return &Device{id: uuid.NewV4(), Name: name}
}

func (d *Device) ID() uuid.UUID {
	if d == nil {
		return uuid.Nil
	}
	return d.id
}

func (d *Device) String() string {
	return d.Name + "(" + d.id.String() + ")"
}

func storageID(s Storage) uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.ID()
}

// SameStorage compares storages by ID; a nil storage only matches nil.
func SameStorage(a, b Storage) bool {
	return uuid.Equal(storageID(a), storageID(b))
}
